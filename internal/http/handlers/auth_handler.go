package handlers

import (
	"errors"
	"time"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/log"
	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func ensureSID(c *fiber.Ctx, secure bool) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secure,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c, h.CookieSecure)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok || pass == "" {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return renderStatus(c, fiber.StatusUnauthorized, "login", fiber.Map{"Err": "Invalid email or password"})
	}

	u, err := h.Auth.Login(c.UserContext(), sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return renderStatus(c, fiber.StatusUnauthorized, "login", fiber.Map{"Err": "Invalid email or password"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email, "role": u.Role})
	return c.Redirect(LandingRoute(u.Role))
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c, h.CookieSecure)
	form := fiber.Map{"Name": c.FormValue("name"), "Email": c.FormValue("email")}
	fail := func(field, msg string) error {
		log.Security(c, "validation.fail", map[string]any{"field": field})
		form["Err"] = msg
		return renderStatus(c, fiber.StatusUnprocessableEntity, "register", form)
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return fail("name", "Name must be 1-100 characters")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return fail("email", "Enter a valid email address")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return fail("password", "Password must be 8 to 72 characters")
	}
	if pass != c.FormValue("password_confirmation") {
		return fail("password", "Password confirmation does not match")
	}

	u, err := h.Auth.Register(c.UserContext(), sid, name, email, pass)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return fail(verr.Field, "That email has already been taken")
		}
		log.Error(c, "auth.register.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not create your account")
	}
	log.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return redirectWith(c, LandingRoute(u.Role), "Welcome, "+u.Name+"!")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c, h.CookieSecure)
	_ = h.Auth.Logout(c.UserContext(), sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
