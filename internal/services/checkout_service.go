package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"chiikawashop/internal/cache"
	"chiikawashop/internal/domain"
	"chiikawashop/internal/metrics"
	"chiikawashop/internal/repos"

	"github.com/jmoiron/sqlx"
)

type CheckoutService struct {
	DB      *sqlx.DB
	Carts   *repos.CartRepo
	Inv     *repos.InventoryRepo
	Cache   cache.CatalogCache
	Metrics *metrics.ShopMetrics
}

func NewCheckoutService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo) *CheckoutService {
	return &CheckoutService{DB: db, Carts: carts, Inv: inv}
}

// Checkout turns the user's whole cart into stock decrements and returns
// the receipt. Reads, checks, decrements and line deletions share one
// transaction; any failure leaves stock and cart untouched.
func (s *CheckoutService) Checkout(ctx context.Context, u *domain.User) (domain.Receipt, error) {
	if err := requireUser(u); err != nil {
		return domain.Receipt{}, err
	}
	receipt, units, err := s.checkout(ctx, u.ID)
	s.Metrics.Checkout(resultLabel(err), units)
	if err != nil {
		return domain.Receipt{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			log.Printf("catalog cache invalidate: %v", err)
		}
	}
	return receipt, nil
}

func (s *CheckoutService) checkout(ctx context.Context, userID string) (domain.Receipt, int, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Receipt{}, 0, fmt.Errorf("begin checkout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	carts := s.Carts.WithTx(tx)
	inv := s.Inv.WithTx(tx)

	items, err := carts.Items(ctx, userID)
	if err != nil {
		return domain.Receipt{}, 0, err
	}
	if len(items) == 0 {
		return domain.Receipt{}, 0, domain.ErrEmptyCart
	}

	for _, it := range items {
		if it.Quantity > it.Product.Stock {
			return domain.Receipt{}, 0, &domain.InsufficientStockError{
				ProductID:   it.ProductID,
				ProductName: it.Product.Name,
				Requested:   it.Quantity,
				Available:   it.Product.Stock,
			}
		}
	}

	units := 0
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if err := inv.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
			return domain.Receipt{}, 0, err
		}
		units += it.Quantity
		ids = append(ids, it.ID)
	}
	if err := carts.DeleteLines(ctx, userID, ids); err != nil {
		return domain.Receipt{}, 0, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Receipt{}, 0, fmt.Errorf("commit checkout: %w", err)
	}
	return domain.NewReceipt(items), units, nil
}

func resultLabel(err error) string {
	var stock *domain.InsufficientStockError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrEmptyCart):
		return metrics.ResultEmpty
	case errors.As(err, &stock):
		return metrics.ResultInsufficient
	default:
		return metrics.ResultError
	}
}
