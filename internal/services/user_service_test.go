package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/repos"
	"chiikawashop/internal/services"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := &services.AuthService{Users: repos.NewUserRepo(memdb(t))}

	u, err := auth.Register(ctx, "sid-new", "Momonga", "Momonga@Chiikawa.test", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "momonga@chiikawa.test", u.Email)

	cur, err := auth.CurrentUser(ctx, "sid-new")
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID, "registration signs the user in")

	_, err = auth.Register(ctx, "sid-other", "Copy", "momonga@chiikawa.test", "Str0ng!pass")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = auth.Login(ctx, "sid-2", "momonga@chiikawa.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, err = auth.Login(ctx, "sid-2", "momonga@chiikawa.test", "Str0ng!pass")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, "sid-2"))
	_, err = auth.CurrentUser(ctx, "sid-2")
	assert.Error(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	svc := services.NewUserService(repos.NewUserRepo(db))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, domain.RoleAdmin, u.Role, "admins are not listed")
	}
	assert.Len(t, users, 2)

	var verr *domain.ValidationError
	assert.ErrorAs(t, svc.ResetPassword(ctx, "u-user", "short", "short"), &verr)
	assert.ErrorAs(t, svc.ResetPassword(ctx, "u-user", "longenough", "different"), &verr)
	long := strings.Repeat("a", 80)
	require.ErrorAs(t, svc.ResetPassword(ctx, "u-user", long, long), &verr, "bcrypt input limit")
	assert.Equal(t, "password", verr.Field)
	assert.True(t, domain.IsNotFound(svc.ResetPassword(ctx, "u-nobody", "longenough", "longenough")))

	require.NoError(t, svc.ResetPassword(ctx, "u-user", "longenough", "longenough"))
	u, err := svc.Get(ctx, "u-user")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("longenough")))

	assert.ErrorAs(t, svc.Delete(ctx, "u-admin"), &verr, "admin accounts stay")
	require.NoError(t, svc.Delete(ctx, "u-hachi"))
	_, err = svc.Get(ctx, "u-hachi")
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteAccountChecksPasswordAndDropsCart(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	users := repos.NewUserRepo(db)
	svc := services.NewUserService(users)
	carts := repos.NewCartRepo(db)

	pid := addProduct(t, db, "Doomed Line", "1.00", 3)
	_, err := carts.Upsert(ctx, "u-user", pid, 1)
	require.NoError(t, err)

	u, err := svc.Get(ctx, "u-user")
	require.NoError(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, svc.DeleteAccount(ctx, u, "nope"), &verr)
	require.NoError(t, svc.DeleteAccount(ctx, u, "Passw0rd!"))

	items, err := carts.Items(ctx, "u-user")
	require.NoError(t, err)
	assert.Empty(t, items, "cart lines cascade with the account")
}
