package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chiikawashop/internal/domain"
	"chiikawashop/internal/metrics"
	"chiikawashop/internal/repos"
	"chiikawashop/internal/services"
)

func newCartService(t *testing.T) (*services.CartService, func(name, price string, stock int) int64) {
	t.Helper()
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
	return svc, func(name, price string, stock int) int64 { return addProduct(t, db, name, price, stock) }
}

func TestAddOrUpdateReplacesQuantity(t *testing.T) {
	ctx := context.Background()
	svc, add := newCartService(t)
	pid := add("Momonga Keychain", "9.50", 10)
	u := shopper("u-user")

	first, err := svc.AddOrUpdate(ctx, u, pid, 2)
	require.NoError(t, err)
	second, err := svc.AddOrUpdate(ctx, u, pid, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same (user, product) must reuse the line")
	assert.Equal(t, 3, second.Quantity)

	cv, err := svc.ListForUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, cv.Items, 1)
	assert.Equal(t, 3, cv.Items[0].Quantity)
	assert.Equal(t, "28.50", cv.Total.StringFixed(2))
}

func TestAddOrUpdateBoundsQuantityByStock(t *testing.T) {
	ctx := context.Background()
	svc, add := newCartService(t)
	pid := add("Rakko Figure", "30.00", 3)
	soldOut := add("Kurimanju Mug", "12.00", 0)
	u := shopper("u-user")

	cases := []struct {
		name    string
		product int64
		qty     int
	}{
		{"above stock", pid, 4},
		{"zero", pid, 0},
		{"negative", pid, -1},
		{"sold out", soldOut, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddOrUpdate(ctx, u, tc.product, tc.qty)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "quantity", verr.Field)
		})
	}

	cv, err := svc.ListForUser(ctx, u)
	require.NoError(t, err)
	assert.True(t, cv.Empty(), "rejected adds must not touch the cart")

	_, err = svc.AddOrUpdate(ctx, u, pid, 3)
	assert.NoError(t, err, "exactly the stock is allowed")
}

func TestAddOrUpdateUnknownProduct(t *testing.T) {
	svc, _ := newCartService(t)
	_, err := svc.AddOrUpdate(context.Background(), shopper("u-user"), 9999, 1)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestCartRequiresIdentity(t *testing.T) {
	ctx := context.Background()
	svc, add := newCartService(t)
	pid := add("Shisa Plush", "20.00", 5)

	_, err := svc.AddOrUpdate(ctx, nil, pid, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.SetQuantity(ctx, &domain.User{}, 1, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Remove(ctx, nil, 1), domain.ErrUnauthenticated)
	_, err = svc.ListForUser(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSetQuantityAndRemoveAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc, add := newCartService(t)
	pid := add("Hachiware Tote", "18.00", 8)
	owner, other := shopper("u-user"), shopper("u-hachi")

	line, err := svc.AddOrUpdate(ctx, owner, pid, 2)
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, other, line.ID, 1)
	assert.True(t, domain.IsNotFound(err), "foreign line must look absent, got %v", err)
	assert.True(t, domain.IsNotFound(svc.Remove(ctx, other, line.ID)))

	updated, err := svc.SetQuantity(ctx, owner, line.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.SetQuantity(ctx, owner, line.ID, 9)
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr), "above stock must fail, got %v", err)

	require.NoError(t, svc.Remove(ctx, owner, line.ID))
	assert.True(t, domain.IsNotFound(svc.Remove(ctx, owner, line.ID)), "second remove finds nothing")
}

func TestCartOpsAreCounted(t *testing.T) {
	ctx := context.Background()
	svc, add := newCartService(t)
	svc.Metrics = metrics.New(prometheus.NewRegistry())
	pid := add("Usagi Sticker", "2.00", 50)
	u := shopper("u-user")

	line, err := svc.AddOrUpdate(ctx, u, pid, 1)
	require.NoError(t, err)
	_, err = svc.AddOrUpdate(ctx, u, pid, 60)
	require.Error(t, err)
	require.NoError(t, svc.Remove(ctx, u, line.ID))

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.CartOps.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.CartOps.WithLabelValues("remove")))
}
