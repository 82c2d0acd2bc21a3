package storefront_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoRouteClient/internal/api"
	"ecoRouteClient/internal/cart"
	"ecoRouteClient/internal/checkout"
	"ecoRouteClient/internal/delivery"
	"ecoRouteClient/internal/storefront"
	"ecoRouteClient/internal/testutil"
	"ecoRouteClient/models"
	"ecoRouteClient/repository"
)

func catalog(t *testing.T, c *api.Client) []models.Product {
	t.Helper()
	products, err := c.Catalog(context.Background())
	require.NoError(t, err)
	return products
}

func TestSessionPersistsCartBetweenOpens(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := api.New(backend.URL, nil, nil)
	products := catalog(t, client)
	repo := repository.NewSQLiteSessionRepository(testutil.OpenInMemoryDB(t, "storefront_persist"))
	ctx := context.Background()

	s, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)
	bananas, _ := storefront.FindProduct(products, 1)
	avocados, _ := storefront.FindProduct(products, 5)
	_, err = s.AddToCart(ctx, bananas)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, avocados)
	require.NoError(t, err)
	_, err = s.SetQuantity(ctx, 1, 3)
	require.NoError(t, err)

	reopened, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)
	l := reopened.Snapshot()
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 4, l.ItemCount())
	assert.Equal(t, "13.96", l.DisplayTotal())
	assert.Equal(t, int64(3*150+250), l.TotalRewardPoints())
	assert.Equal(t, int64(1), l.Lines()[0].Product.ID)
}

func TestRejectedActionIsNotSaved(t *testing.T) {
	repo := repository.NewSQLiteSessionRepository(testutil.OpenInMemoryDB(t, "storefront_rejected"))
	ctx := context.Background()
	s, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)
	p := models.Product{ID: 7, Name: "Jar", Price: decimal.NewFromInt(3), EcoPrice: 10}
	_, err = s.AddToCart(ctx, p)
	require.NoError(t, err)

	_, err = s.SetQuantity(ctx, 7, -2)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	lines, err := repo.LoadCart(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestWishlistToggle(t *testing.T) {
	_, client := testutil.StartRedis(t)
	repo := repository.NewRedisSessionRepository(client, "test", 0)
	ctx := context.Background()
	s, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)

	p := models.Product{ID: 3, Name: "Eco-Friendly T-Shirt", Price: decimal.RequireFromString("24.99")}
	added, err := s.ToggleWishlist(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.InWishlist(3))

	reopened, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)
	assert.Len(t, reopened.Wishlist(), 1)

	added, err = reopened.ToggleWishlist(ctx, p)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, reopened.InWishlist(3))
	assert.Empty(t, reopened.Wishlist())
}

type failingRepo struct {
	repository.SessionRepositoryI
}

func (failingRepo) SaveCart(ctx context.Context, customerID string, lines []models.CartLine) error {
	return errors.New("read-only")
}

func TestSaveFailureIsReported(t *testing.T) {
	base := repository.NewSQLiteSessionRepository(testutil.OpenInMemoryDB(t, "storefront_failing"))
	ctx := context.Background()
	s, err := storefront.OpenSession(ctx, "1234", failingRepo{base}, nil)
	require.NoError(t, err)

	_, err = s.AddToCart(ctx, models.Product{ID: 1, Name: "x", Price: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestCheckoutThroughSession(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := api.New(backend.URL, nil, nil)
	products := catalog(t, client)
	repo := repository.NewSQLiteSessionRepository(testutil.OpenInMemoryDB(t, "storefront_checkout"))
	ctx := context.Background()

	s, err := storefront.OpenSession(ctx, "1234", repo, nil)
	require.NoError(t, err)
	for _, id := range []int64{1, 1, 5} {
		p, ok := storefront.FindProduct(products, id)
		require.True(t, ok)
		_, err := s.AddToCart(ctx, p)
		require.NoError(t, err)
	}

	routes := delivery.NewSelection(delivery.DefaultRoutes())
	route, _ := routes.Selected()
	svc := checkout.NewService(client, s.CustomerID(), nil)
	contact := checkout.Contact{Name: "Ada", Phone: "555-0100", Address: "1 Green Way"}

	// A failed attempt keeps the cart, both in memory and on disk.
	backend.FailNext("/order/place_order", 502)
	_, err = svc.Submit(ctx, s, &route, contact)
	require.Error(t, err)
	assert.Equal(t, "Failed to submit, please try again.", api.UserMessage(err))
	saved, _ := repo.LoadCart(ctx, "1234")
	assert.Len(t, saved, 2)

	out, err := svc.Submit(ctx, s, &route, contact)
	require.NoError(t, err)
	assert.NotEmpty(t, out.OrderID)
	assert.True(t, s.Snapshot().IsEmpty())
	saved, _ = repo.LoadCart(ctx, "1234")
	assert.Empty(t, saved)

	// Both attempts carried the same idempotency key.
	reqs := backend.RequestsTo("/order/place_order")
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].Header.Get("Idempotency-Key"), reqs[1].Header.Get("Idempotency-Key"))

	orders, err := client.CustomerOrders(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, out.OrderID, orders[0].ID)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.RequireFromString("10.97")))
}
