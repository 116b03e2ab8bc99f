package handlers

import (
	"chiikawashop/internal/log"
	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// GET /dashboard
func (h *ProductHandler) Dashboard(c *fiber.Ctx) error {
	featured, err := h.Catalog.Featured(c.UserContext())
	if err != nil {
		log.Error(c, "dashboard.load.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load products. Please retry.")
	}
	return render(c, "dashboard", fiber.Map{"Featured": featured})
}

// GET /products
func (h *ProductHandler) Index(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		log.Error(c, "products.list.fail", err, nil)
		return renderError(c, fiber.StatusInternalServerError, "Could not load products. Please retry.")
	}
	return render(c, "products_index", fiber.Map{"Products": products})
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return renderError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return renderError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id)
	if err != nil {
		log.Error(c, "products.availability.fail", err, map[string]any{"product": id})
	}
	return render(c, "product", fiber.Map{"P": p, "Avail": avail})
}
