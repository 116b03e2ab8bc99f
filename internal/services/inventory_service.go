package services

import (
	"context"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/repos"
)

type InventoryService struct {
	Inv      *repos.InventoryRepo
	LowStock int
}

func NewInventoryService(inv *repos.InventoryRepo, lowStock int) *InventoryService {
	if lowStock <= 0 {
		lowStock = 5
	}
	return &InventoryService{Inv: inv, LowStock: lowStock}
}

// CheckAvailability converts qty to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID int64) (domain.Availability, error) {
	qty, err := s.Inv.Qty(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return s.classify(qty), nil
}

func (s *InventoryService) classify(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= s.LowStock:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}
}

// Running lists products under the low-stock threshold for the admin dashboard.
func (s *InventoryService) Running(ctx context.Context) ([]repos.InventoryRow, error) {
	return s.Inv.LowStock(ctx, s.LowStock)
}
