package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"chiikawashop/internal/domain"
	applog "chiikawashop/internal/log"
	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageBytes = 2 << 20

type AdminHandler struct {
	Catalog  *services.CatalogService
	Inv      *services.InventoryService
	Users    *services.UserService
	MediaDir string
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.Catalog.Count(ctx)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load dashboard")
	}
	users, err := h.Users.Count(ctx)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load dashboard")
	}
	low, err := h.Inv.Running(ctx)
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load dashboard")
	}
	return render(c, "admin_dashboard", fiber.Map{"ProductCount": products, "UserCount": users, "LowStock": low})
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Catalog.Prods.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load products")
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// GET /admin/products/new
func (h *AdminHandler) NewProduct(c *fiber.Ctx) error {
	return render(c, "admin_product_form", fiber.Map{"P": domain.Product{}, "Action": "/admin/products"})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	p, err := h.productFromForm(c)
	if err != nil {
		return h.formError(c, p, "/admin/products", err)
	}
	saved, err := h.Catalog.Create(c.UserContext(), p)
	if err != nil {
		return h.formError(c, p, "/admin/products", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": saved.ID, "name": saved.Name})
	return redirectWith(c, "/admin/products", "Product created successfully.")
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	return render(c, "admin_product_form", fiber.Map{"P": p, "Action": fmt.Sprintf("/admin/products/%d", id)})
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	action := fmt.Sprintf("/admin/products/%d", id)
	p, err := h.productFromForm(c)
	p.ID = id
	if err != nil {
		return h.formError(c, p, action, err)
	}
	saved, err := h.Catalog.Update(c.UserContext(), p)
	if err != nil {
		return h.formError(c, p, action, err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id, "stock": saved.Stock})
	return redirectWith(c, "/admin/products", "Product updated successfully.")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		status, msg := statusFor(err)
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		return renderError(c, status, msg)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return redirectWith(c, "/admin/products", "Product deleted successfully.")
}

// productFromForm parses the product form and stores an uploaded image.
func (h *AdminHandler) productFromForm(c *fiber.Ctx) (domain.Product, error) {
	p := domain.Product{Name: c.FormValue("name"), Description: c.FormValue("description")}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return p, domain.Invalid("price", "must be a non-negative amount")
	}
	p.Price = price
	stock, ok := validate.Stock(c.FormValue("stock"))
	if !ok {
		return p, domain.Invalid("stock", "must be a whole number of at least 0")
	}
	p.Stock = stock

	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Size == 0 {
		return p, nil // image is optional
	}
	ext, ok := validate.ImageExt(fh.Filename)
	if !ok {
		return p, domain.Invalid("image", "must be a file of type: jpeg, png, jpg, gif")
	}
	if fh.Size > maxImageBytes {
		return p, domain.Invalid("image", "may not be greater than 2048 kilobytes")
	}
	dir := filepath.Join(h.MediaDir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return p, err
	}
	name := uuid.NewString() + ext
	if err := c.SaveFile(fh, filepath.Join(dir, name)); err != nil {
		return p, err
	}
	p.Image = path.Join("products", name)
	return p, nil
}

func (h *AdminHandler) formError(c *fiber.Ctx, p domain.Product, action string, err error) error {
	status, msg := statusFor(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, "admin.products.save.fail", err, nil)
	} else {
		applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
	}
	return renderStatus(c, status, "admin_product_form", fiber.Map{"P": p, "Action": action, "Err": msg})
}

// GET /admin/users lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load users")
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// GET /admin/users/:id
func (h *AdminHandler) ShowUser(c *fiber.Ctx) error {
	u, ok := h.lookupUser(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "User not found")
	}
	return render(c, "admin_user", fiber.Map{"Target": u})
}

// GET /admin/users/:id/password
func (h *AdminHandler) PasswordForm(c *fiber.Ctx) error {
	u, ok := h.lookupUser(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "User not found")
	}
	return render(c, "admin_user_password", fiber.Map{"Target": u})
}

// POST /admin/users/:id/password
func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	u, ok := h.lookupUser(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "User not found")
	}
	if err := h.Users.ResetPassword(c.UserContext(), u.ID, c.FormValue("password"), c.FormValue("password_confirmation")); err != nil {
		status, msg := statusFor(err)
		applog.Security(c, "admin.users.password.reject", map[string]any{"user_id": u.ID, "error": err.Error()})
		return renderStatus(c, status, "admin_user_password", fiber.Map{"Target": u, "Err": msg})
	}
	applog.Audit(c, "admin.users.password", map[string]any{"user_id": u.ID})
	return redirectWith(c, "/admin/users/"+u.ID, "Password updated successfully.")
}

// POST /admin/users/:id/delete deletes a user with their sessions and cart.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.UserID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		status, msg := statusFor(err)
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return renderError(c, status, msg)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return redirectWith(c, "/admin/users", "User deleted.")
}

func (h *AdminHandler) lookupUser(c *fiber.Ctx) (*domain.User, bool) {
	id, ok := validate.UserID(c.Params("id"))
	if !ok {
		return nil, false
	}
	u, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return nil, false
	}
	return u, true
}
