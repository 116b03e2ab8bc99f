package services

import (
	"context"
	"errors"
	"strings"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

// UserService covers profile self-service and the admin user pages.
type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService { return &UserService{Users: users} }

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.ByID(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.Users.Count(ctx)
}

// ResetPassword is the admin flow: min 6 characters and a matching confirmation.
func (s *UserService) ResetPassword(ctx context.Context, id, password, confirm string) error {
	if len(password) < 6 {
		return domain.Invalid("password", "must be at least 6 characters")
	}
	if len(password) > 72 {
		return domain.Invalid("password", "may not be greater than 72 characters")
	}
	if password != confirm {
		return domain.Invalid("password", "confirmation does not match")
	}
	if _, err := s.Users.ByID(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, id, string(hash))
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return domain.Invalid("user", "admin accounts cannot be deleted here")
	}
	return s.Users.DeleteUserCascade(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, u *domain.User, name, email string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	err := s.Users.UpdateProfile(ctx, u.ID, name, strings.ToLower(email))
	if errors.Is(err, repos.ErrEmailTaken) {
		return domain.Invalid("email", "has already been taken")
	}
	return err
}

// DeleteAccount removes the signed-in user after re-checking the password.
func (s *UserService) DeleteAccount(ctx context.Context, u *domain.User, password string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.Invalid("password", "is incorrect")
	}
	return s.Users.DeleteUserCascade(ctx, u.ID)
}
