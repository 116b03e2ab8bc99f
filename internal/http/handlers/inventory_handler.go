package handlers

import (
	"github.com/gofiber/fiber/v2"

	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid productId",
		})
	}

	avail, err := h.Inv.CheckAvailability(c.UserContext(), productID)
	if err != nil {
		status, msg := statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(avail)
}
