package handlers

import (
	"chiikawashop/internal/cache"
	"chiikawashop/internal/config"
	"chiikawashop/internal/metrics"
	"chiikawashop/internal/repos"
	"chiikawashop/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth             *services.AuthService
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	ProfileHandler   *ProfileHandler
	AdminHandler     *AdminHandler
	Metrics          *metrics.ShopMetrics
}

// NewDeps wires repos and services. c may be nil (no catalog cache) and m
// may be nil (no metrics).
func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, c cache.CatalogCache, m *metrics.ShopMetrics) *Deps {
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, c)
	invSvc := services.NewInventoryService(invRepo, cfg.LowStock)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	cartSvc.Metrics = m
	checkoutSvc := services.NewCheckoutService(db, cartRepo, invRepo)
	checkoutSvc.Cache = catalogSvc.Cache
	checkoutSvc.Metrics = m
	userSvc := services.NewUserService(userRepo)

	return &Deps{
		Auth:             auth,
		AuthHandler:      &AuthHandler{Auth: auth, CookieSecure: cfg.CookieSecure},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Inv: invSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc, Checkout: checkoutSvc, Catalog: catalogSvc},
		ProfileHandler:   &ProfileHandler{Users: userSvc, CookieSecure: cfg.CookieSecure},
		AdminHandler:     &AdminHandler{Catalog: catalogSvc, Inv: invSvc, Users: userSvc, MediaDir: cfg.MediaDir},
		Metrics:          m,
	}
}
