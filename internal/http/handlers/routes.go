package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "chiikawashop/internal/log"
)

// Routes mounts every page and API route. Global middleware is the caller's.
func (d *Deps) Routes(app *fiber.App) {
	requireUser := RequireUser(d.Auth)
	guest := RedirectIfAuthenticated(d.Auth)

	// Public pages
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })
	app.Get("/dashboard", d.ProductHandler.Dashboard)
	app.Get("/about", About)
	app.Get("/contact", Contact)
	app.Get("/products", d.ProductHandler.Index)
	app.Get("/products/:id", d.ProductHandler.Detail)

	// API
	api := app.Group("/api/v1")
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.InventoryHandler.Check)
	api.Get("/cart", requireUser, d.CartHandler.APIView)

	// Cart
	cart := app.Group("/cart", requireUser)
	cart.Get("/", d.CartHandler.View)
	cart.Post("/checkout", d.CartHandler.CheckoutCart)
	cart.Post("/items/:id", d.CartHandler.Update)
	cart.Post("/items/:id/delete", d.CartHandler.Remove)
	cart.Post("/:product", d.CartHandler.Add)

	// Auth (login throttled)
	app.Get("/login", guest, d.AuthHandler.LoginForm)
	app.Post("/login", guest, limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Get("/register", guest, d.AuthHandler.RegisterForm)
	app.Post("/register", guest, d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)

	// Profile
	app.Get("/profile", requireUser, d.ProfileHandler.Edit)
	app.Post("/profile", requireUser, d.ProfileHandler.Update)
	app.Post("/profile/delete", requireUser, d.ProfileHandler.Destroy)

	// Admin
	adminH := d.AdminHandler
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/", adminH.Dashboard)
	admin.Get("/products", adminH.Products)
	admin.Get("/products/new", adminH.NewProduct)
	admin.Post("/products", adminH.CreateProduct)
	admin.Get("/products/:id/edit", adminH.EditProduct)
	admin.Post("/products/:id", adminH.UpdateProduct)
	admin.Post("/products/:id/delete", adminH.DeleteProduct)
	admin.Get("/users", adminH.UsersPage)
	admin.Get("/users/:id", adminH.ShowUser)
	admin.Get("/users/:id/password", adminH.PasswordForm)
	admin.Post("/users/:id/password", adminH.ResetPassword)
	admin.Post("/users/:id/delete", adminH.DeleteUser)

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}
}
