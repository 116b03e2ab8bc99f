package cache

import (
	"context"
	"errors"

	"chiikawashop/internal/domain"
)

// CatalogCache holds read-only product listings. Stock decisions never
// go through it.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

const (
	KeyAll      = "all"
	KeyFeatured = "featured"
)

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]domain.Product, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, string, []domain.Product) error   { return nil }
func (Noop) Invalidate(context.Context) error                      { return nil }
