package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/repos"
)

// memdb opens a fresh migrated database with the seeded catalog and users.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addProduct(t *testing.T, db *sqlx.DB, name, price string, stock int) int64 {
	t.Helper()
	id, err := repos.NewProductRepo(db).Create(context.Background(), domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	})
	require.NoError(t, err)
	return id
}

func stockOf(t *testing.T, db *sqlx.DB, productID int64) int {
	t.Helper()
	qty, err := repos.NewInventoryRepo(db).Qty(context.Background(), productID)
	require.NoError(t, err)
	return qty
}

// shopper returns one of the seeded USER accounts.
func shopper(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleUser}
}
