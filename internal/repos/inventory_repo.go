package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chiikawashop/internal/domain"

	"github.com/jmoiron/sqlx"
)

// InventoryRepo owns the products.stock column.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) WithTx(tx *sqlx.Tx) *InventoryRepo { return &InventoryRepo{db: tx} }

// Row used by admin stock pages
type InventoryRow struct {
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Qty       int    `db:"qty"`
}

// LowStock lists products whose stock is below threshold, emptiest first.
func (r *InventoryRepo) LowStock(ctx context.Context, threshold int) ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id AS product_id, name, stock AS qty
		FROM products
		WHERE stock < ?
		ORDER BY stock, name
	`, threshold)
	return rows, err
}

// Qty returns current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID int64) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.db, &qty, `SELECT stock FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFound("product", productID)
	}
	return qty, err
}

// Decrement subtracts "by" units only if enough stock exists, so stock can
// never go below zero even when two writers race past a stale read.
func (r *InventoryRepo) Decrement(ctx context.Context, productID int64, by int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return fmt.Errorf("decrement stock %d: %w", productID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		p := struct {
			Name  string `db:"name"`
			Stock int    `db:"stock"`
		}{}
		if err := sqlx.GetContext(ctx, r.db, &p, `SELECT name, stock FROM products WHERE id = ?`, productID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFound("product", productID)
			}
			return err
		}
		return &domain.InsufficientStockError{ProductID: productID, ProductName: p.Name, Requested: by, Available: p.Stock}
	}
	return nil
}
