package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chiikawashop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) WithTx(tx *sqlx.Tx) *CartRepo { return &CartRepo{db: tx} }

const cartItemSelect = `
  SELECT cl.id, cl.user_id, cl.product_id, cl.quantity,
         p.id          AS "product.id",
         p.name        AS "product.name",
         p.description AS "product.description",
         p.price       AS "product.price",
         p.stock       AS "product.stock",
         p.image       AS "product.image",
         COALESCE(p.created_at,'') AS "product.created_at",
         COALESCE(p.updated_at,'') AS "product.updated_at"
  FROM cart_lines cl JOIN products p ON p.id = cl.product_id`

// Upsert creates the (user, product) line or replaces its quantity.
func (r *CartRepo) Upsert(ctx context.Context, userID string, productID int64, qty int) (domain.CartLine, error) {
	var line domain.CartLine
	err := sqlx.GetContext(ctx, r.db, &line, `
		INSERT INTO cart_lines(user_id, product_id, quantity, created_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET quantity = excluded.quantity, updated_at = CURRENT_TIMESTAMP
		RETURNING id, user_id, product_id, quantity
	`, userID, productID, qty)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("upsert cart line: %w", err)
	}
	return line, nil
}

// Item loads one line of the user together with its product.
func (r *CartRepo) Item(ctx context.Context, userID string, lineID int64) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.GetContext(ctx, r.db, &it, cartItemSelect+` WHERE cl.id = ? AND cl.user_id = ?`, lineID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartItem{}, domain.NotFound("cart line", lineID)
	}
	return it, err
}

// Items returns the user's lines in insertion order.
func (r *CartRepo) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := sqlx.SelectContext(ctx, r.db, &out, cartItemSelect+` WHERE cl.user_id = ? ORDER BY cl.id`, userID)
	return out, err
}

func (r *CartRepo) SetQuantity(ctx context.Context, userID string, lineID int64, qty int) (domain.CartLine, error) {
	var line domain.CartLine
	err := sqlx.GetContext(ctx, r.db, &line, `
		UPDATE cart_lines SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
		RETURNING id, user_id, product_id, quantity
	`, qty, lineID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartLine{}, domain.NotFound("cart line", lineID)
	}
	return line, err
}

func (r *CartRepo) Delete(ctx context.Context, userID string, lineID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = ? AND user_id = ?`, lineID, userID)
	if err != nil {
		return fmt.Errorf("delete cart line %d: %w", lineID, err)
	}
	return mustAffect(res, "cart line", lineID)
}

// DeleteLines removes exactly the given lines of the user.
func (r *CartRepo) DeleteLines(ctx context.Context, userID string, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM cart_lines WHERE user_id = ? AND id IN (?)`, userID, lineIDs)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(lineIDs) {
		return fmt.Errorf("delete cart lines: removed %d of %d", n, len(lineIDs))
	}
	return nil
}
