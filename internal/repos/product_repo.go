package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chiikawashop/internal/domain"

	"github.com/jmoiron/sqlx"
)

const productCols = `
    id, name, description, price, stock, image,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{db: tx} }

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+productCols+` FROM products ORDER BY id`)
	return out, err
}

// Latest returns the newest products first.
func (r *ProductRepo) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ?`, limit)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(name, description, price, stock, image, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.Name, p.Description, p.Price, p.Stock, p.Image)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE products
	  SET name = ?, description = ?, price = ?, stock = ?, image = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Stock, p.Image, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return mustAffect(res, "product", p.ID)
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return mustAffect(res, "product", id)
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func mustAffect(res sql.Result, resource string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(resource, id)
	}
	return nil
}
