package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"chiikawashop/internal/cache"
	"chiikawashop/internal/domain"
	"chiikawashop/internal/repos"

	"golang.org/x/sync/singleflight"
)

const featuredCount = 6

type CatalogService struct {
	Prods *repos.ProductRepo
	Cache cache.CatalogCache
	sfg   singleflight.Group // one DB load per key under a cold cache
}

func NewCatalogService(prods *repos.ProductRepo, c cache.CatalogCache) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{Prods: prods, Cache: c}
}

// List returns every product; may be served from the catalog cache.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.cached(ctx, cache.KeyAll, s.Prods.List)
}

// Featured returns the newest products for the dashboard.
func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.cached(ctx, cache.KeyFeatured, func(ctx context.Context) ([]domain.Product, error) {
		return s.Prods.Latest(ctx, featuredCount)
	})
}

func (s *CatalogService) cached(ctx context.Context, key string, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.Cache.Get(ctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog cache get %s: %v", key, err) // fall through to the database
		}
		products, err = load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Set(ctx, key, products); err != nil {
			log.Printf("catalog cache set %s: %v", key, err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// GetProduct always reads the database so stock is current.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p, err := normalizeProduct(p)
	if err != nil {
		return domain.Product{}, err
	}
	id, err := s.Prods.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	s.invalidate(ctx)
	return p, nil
}

// Update overwrites every field; an empty Image keeps the stored one.
func (s *CatalogService) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	cur, err := s.Prods.Get(ctx, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Image == "" {
		p.Image = cur.Image
	}
	p, err = normalizeProduct(p)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.Prods.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) Count(ctx context.Context) (int, error) {
	return s.Prods.Count(ctx)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		log.Printf("catalog cache invalidate: %v", err)
	}
}

func normalizeProduct(p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	switch {
	case p.Name == "":
		return p, domain.Invalid("name", "is required")
	case len(p.Name) > 255:
		return p, domain.Invalid("name", "may not be greater than 255 characters")
	case p.Description == "":
		return p, domain.Invalid("description", "is required")
	case p.Price.IsNegative():
		return p, domain.Invalid("price", "must be at least 0")
	case p.Stock < 0:
		return p, domain.Invalid("stock", "must be at least 0")
	}
	return p, nil
}
