package handlers

import (
	applog "chiikawashop/internal/log"
	"chiikawashop/internal/services"
	"chiikawashop/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Catalog  *services.CatalogService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.ListForUser(c.UserContext(), currentUser(c))
	if err != nil {
		status, msg := statusFor(err)
		applog.Error(c, "cart.view.fail", err, nil)
		return renderError(c, status, msg)
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// APIView is the JSON form of View.
func (h *CartHandler) APIView(c *fiber.Ctx) error {
	cv, err := h.Cart.ListForUser(c.UserContext(), currentUser(c))
	if err != nil {
		status, msg := statusFor(err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(cv)
}

// POST /cart/:product
func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("product"))
	if !ok {
		return renderError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return h.productWithError(c, productID, fiber.StatusUnprocessableEntity, "The quantity must be an integer.")
	}

	line, err := h.Cart.AddOrUpdate(c.UserContext(), currentUser(c), productID, qty)
	if err != nil {
		status, msg := statusFor(err)
		applog.Info(c, "cart.add.reject", map[string]any{"product": productID, "qty": qty, "error": err.Error()})
		return h.productWithError(c, productID, status, msg)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "qty": line.Quantity, "line": line.ID})
	return redirectWith(c, "/cart", "Product added to cart successfully.")
}

// POST /cart/items/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return h.cartWithError(c, fiber.StatusNotFound, "That cart line could not be found.")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return h.cartWithError(c, fiber.StatusUnprocessableEntity, "The quantity must be an integer.")
	}
	if _, err := h.Cart.SetQuantity(c.UserContext(), currentUser(c), lineID, qty); err != nil {
		status, msg := statusFor(err)
		applog.Info(c, "cart.update.reject", map[string]any{"line": lineID, "qty": qty, "error": err.Error()})
		return h.cartWithError(c, status, msg)
	}
	applog.Audit(c, "cart.update", map[string]any{"line": lineID, "qty": qty})
	return redirectWith(c, "/cart", "Cart updated successfully.")
}

// POST /cart/items/:id/delete
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return redirectWith(c, "/cart", "That item is no longer in your cart.")
	}
	if err := h.Cart.Remove(c.UserContext(), currentUser(c), lineID); err != nil {
		status, msg := statusFor(err)
		if status == fiber.StatusNotFound {
			return redirectWith(c, "/cart", "That item is no longer in your cart.")
		}
		applog.Error(c, "cart.remove.fail", err, map[string]any{"line": lineID})
		return h.cartWithError(c, status, msg)
	}
	applog.Audit(c, "cart.remove", map[string]any{"line": lineID})
	return redirectWith(c, "/cart", "Product removed from cart successfully.")
}

// POST /cart/checkout renders the receipt in the same response.
func (h *CartHandler) CheckoutCart(c *fiber.Ctx) error {
	receipt, err := h.Checkout.Checkout(c.UserContext(), currentUser(c))
	if err != nil {
		status, msg := statusFor(err)
		if status == fiber.StatusInternalServerError {
			applog.Error(c, "checkout.fail", err, nil)
		} else {
			applog.Info(c, "checkout.reject", map[string]any{"error": err.Error()})
		}
		if wantsJSON(c) {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		return h.cartWithError(c, status, msg)
	}
	applog.Audit(c, "checkout.success", map[string]any{"lines": len(receipt.Lines), "total": receipt.Total.StringFixed(2)})
	if wantsJSON(c) {
		return c.JSON(receipt)
	}
	return render(c, "cart_success", fiber.Map{"Receipt": receipt, "Success": "Order placed successfully!"})
}

func (h *CartHandler) cartWithError(c *fiber.Ctx, status int, msg string) error {
	cv, err := h.Cart.ListForUser(c.UserContext(), currentUser(c))
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return renderError(c, status, msg)
	}
	return renderStatus(c, status, "cart", fiber.Map{"Cart": cv, "Err": msg})
}

func (h *CartHandler) productWithError(c *fiber.Ctx, productID int64, status int, msg string) error {
	p, err := h.Catalog.GetProduct(c.UserContext(), productID)
	if err != nil {
		return renderError(c, fiber.StatusNotFound, "This item is no longer available")
	}
	return renderStatus(c, status, "product", fiber.Map{"P": p, "Err": msg})
}
