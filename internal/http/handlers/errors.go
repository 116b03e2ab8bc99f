package handlers

import (
	"errors"

	"chiikawashop/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps core errors to an HTTP status and a message safe to show.
func statusFor(err error) (int, string) {
	var (
		verr  *domain.ValidationError
		nf    *domain.NotFoundError
		stock *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, "The " + verr.Field + " " + verr.Message + "."
	case errors.As(err, &nf):
		return fiber.StatusNotFound, "That " + nf.Resource + " could not be found."
	case errors.As(err, &stock):
		return fiber.StatusConflict, "Insufficient stock for " + stock.ProductName
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusConflict, "Your cart is empty."
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Please log in to continue."
	default:
		return fiber.StatusInternalServerError, "Something went wrong. Please try again."
	}
}
