package services

import (
	"context"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/metrics"
	"chiikawashop/internal/repos"
)

type CartService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Metrics *metrics.ShopMetrics
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func requireUser(u *domain.User) error {
	if u == nil || u.ID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// checkQty enforces 1 <= qty <= stock.
func checkQty(qty, stock int) error {
	if qty < 1 {
		return domain.Invalid("quantity", "must be at least 1")
	}
	if stock < 1 {
		return domain.Invalid("quantity", "product is out of stock")
	}
	if qty > stock {
		return domain.Invalid("quantity", "may not be greater than %d", stock)
	}
	return nil
}

// AddOrUpdate puts qty units of the product in the user's cart, replacing
// any quantity already there. The bound is the stock at call time.
func (s *CartService) AddOrUpdate(ctx context.Context, u *domain.User, productID int64, qty int) (domain.CartLine, error) {
	if err := requireUser(u); err != nil {
		return domain.CartLine{}, err
	}
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if err := checkQty(qty, p.Stock); err != nil {
		return domain.CartLine{}, err
	}
	line, err := s.Carts.Upsert(ctx, u.ID, p.ID, qty)
	if err != nil {
		return domain.CartLine{}, err
	}
	s.Metrics.CartOp("add")
	return line, nil
}

func (s *CartService) SetQuantity(ctx context.Context, u *domain.User, lineID int64, qty int) (domain.CartLine, error) {
	if err := requireUser(u); err != nil {
		return domain.CartLine{}, err
	}
	it, err := s.Carts.Item(ctx, u.ID, lineID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if err := checkQty(qty, it.Product.Stock); err != nil {
		return domain.CartLine{}, err
	}
	line, err := s.Carts.SetQuantity(ctx, u.ID, lineID, qty)
	if err != nil {
		return domain.CartLine{}, err
	}
	s.Metrics.CartOp("update")
	return line, nil
}

func (s *CartService) Remove(ctx context.Context, u *domain.User, lineID int64) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if err := s.Carts.Delete(ctx, u.ID, lineID); err != nil {
		return err
	}
	s.Metrics.CartOp("remove")
	return nil
}

func (s *CartService) ListForUser(ctx context.Context, u *domain.User) (domain.CartView, error) {
	if err := requireUser(u); err != nil {
		return domain.CartView{}, err
	}
	items, err := s.Carts.Items(ctx, u.ID)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.CartView{Items: items, Total: domain.Total(items)}, nil
}
