package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"chiikawashop/internal/domain"

	"github.com/jmoiron/sqlx"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,email,name,password_hash,role`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users(id,email,name,password_hash,role,created_at)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// ListUsers returns all non-admin users ordered by email.
func (r *UserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+userCols+` FROM users WHERE role != 'ADMIN' ORDER BY email`)
	return out, err
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role != 'ADMIN'`)
	return n, err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, name, email string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, name, email, id)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	return mustAffect(res, "user", id)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, hash, id)
	if err != nil {
		return fmt.Errorf("update password %s: %w", id, err)
	}
	return mustAffect(res, "user", id)
}

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteUserCascade removes the user's sessions and the user; cart lines
// go with it through the foreign key.
func (r *UserRepo) DeleteUserCascade(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if err := mustAffect(res, "user", userID); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
