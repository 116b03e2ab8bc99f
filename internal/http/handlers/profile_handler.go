package handlers

import (
	"time"

	applog "chiikawashop/internal/log"
	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Users        *services.UserService
	CookieSecure bool
}

// GET /profile
func (h *ProfileHandler) Edit(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{})
}

// POST /profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return renderStatus(c, fiber.StatusUnprocessableEntity, "profile", fiber.Map{"Err": "Name must be 1-100 characters"})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return renderStatus(c, fiber.StatusUnprocessableEntity, "profile", fiber.Map{"Err": "Enter a valid email address"})
	}
	if err := h.Users.UpdateProfile(c.UserContext(), currentUser(c), name, email); err != nil {
		status, msg := statusFor(err)
		applog.Info(c, "profile.update.reject", map[string]any{"error": err.Error()})
		return renderStatus(c, status, "profile", fiber.Map{"Err": msg})
	}
	applog.Audit(c, "profile.update", nil)
	return redirectWith(c, "/profile", "Profile updated.")
}

// POST /profile/delete
func (h *ProfileHandler) Destroy(c *fiber.Ctx) error {
	if err := h.Users.DeleteAccount(c.UserContext(), currentUser(c), c.FormValue("password")); err != nil {
		status, msg := statusFor(err)
		applog.Security(c, "profile.delete.reject", map[string]any{"error": err.Error()})
		return renderStatus(c, status, "profile", fiber.Map{"Err": msg})
	}
	applog.Audit(c, "profile.delete", nil)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.Redirect("/")
}
