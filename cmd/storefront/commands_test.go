package main

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ecoRouteClient/internal/app"
	"ecoRouteClient/internal/config"
	"ecoRouteClient/internal/testutil"
)

type harness struct {
	backend *testutil.Backend
	dbPath  string
}

func newHarness(t *testing.T) *harness {
	return &harness{backend: testutil.NewBackend(t), dbPath: filepath.Join(t.TempDir(), "session.db")}
}

// run executes one command in a fresh runtime, like a separate process invocation.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{
		API:       config.APIConfig{BaseURL: h.backend.URL, Timeout: 5 * time.Second},
		Database:  config.DatabaseConfig{Path: h.dbPath},
		Session:   config.SessionConfig{Store: config.SessionStoreSQLite, CustomerID: "1234"},
		Wallet:    config.WalletConfig{Address: "wallet-1"},
		Log:       config.LogConfig{Level: "error"},
		Telemetry: config.TelemetryConfig{Exporter: config.ExporterNone},
	}
	rt, err := app.New(ctx, cfg)
	require.NoError(t, err)
	defer rt.Close(ctx)

	var out bytes.Buffer
	c := &cli{rt: rt, out: &out, in: strings.NewReader(stdin)}
	err = c.dispatch(ctx, args[0], args[1:])
	return out.String(), err
}

func TestShoppingFlow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "catalog", "-category", "groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "Organic Bananas (eco)")
	assert.NotContains(t, out, "Wireless Headphones")

	_, err = h.run(t, "", "add", "1")
	require.NoError(t, err)
	out, err = h.run(t, "", "add", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Organic Bananas (x2). Cart total: $5.98")

	_, err = h.run(t, "", "add", "5")
	require.NoError(t, err)
	out, err = h.run(t, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Items: 3  Total: $10.97  EcoCoins: 550")

	out, err = h.run(t, "", "checkout", "-name", "Ada", "-phone", "555", "-address", "1 Green Way", "-route", "express")
	require.NoError(t, err)
	assert.Contains(t, out, "Order placed successfully! Order ID: ")

	out, err = h.run(t, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")

	out, err = h.run(t, "", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "Express")
	assert.Contains(t, out, "$10.97")

	placed := h.backend.PlacedOrders()
	require.Len(t, placed, 1)
	assert.Equal(t, "1234", placed[0]["cust_id"])
}

func TestCheckoutRetryReusesKey(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "add", "2")
	require.NoError(t, err)

	h.backend.FailNext("/order/place_order", http.StatusServiceUnavailable)
	out, err := h.run(t, "y\n", "checkout", "-name", "Ada", "-phone", "555", "-address", "1 Green Way")
	require.NoError(t, err)
	assert.Contains(t, out, "Failed to place order. Please try again.")
	assert.Contains(t, out, "Order placed successfully!")

	reqs := h.backend.RequestsTo("/order/place_order")
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].Header.Get("Idempotency-Key"), reqs[1].Header.Get("Idempotency-Key"))
}

func TestCheckoutDeclinedRetryKeepsCart(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "add", "2")
	require.NoError(t, err)

	h.backend.FailNext("/order/place_order", http.StatusInternalServerError)
	_, err = h.run(t, "n\n", "checkout", "-name", "Ada", "-phone", "555", "-address", "1 Green Way")
	require.Error(t, err)
	assert.Empty(t, describe(err))

	out, err := h.run(t, "", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Wireless Headphones")
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "checkout", "-name", "Ada", "-phone", "555", "-address", "x")
	require.Error(t, err)
	assert.Contains(t, out, "Your cart is empty")
	assert.Empty(t, h.backend.RequestsTo("/order/place_order"))
}

func TestWishlistAndQuantity(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "wishlist", "toggle", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Eco-Friendly T-Shirt to your wishlist.")

	out, err = h.run(t, "", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Eco-Friendly T-Shirt (eco) *")

	_, err = h.run(t, "", "add", "4")
	require.NoError(t, err)
	_, err = h.run(t, "", "qty", "4", "-1")
	require.Error(t, err)
	assert.Equal(t, "quantity must not be negative", describe(err))

	out, err = h.run(t, "", "qty", "4", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestBalanceAndAgent(t *testing.T) {
	h := newHarness(t)
	h.backend.SetBalance("wallet-1", testutil.Object{"name": "EcoCoin", "qty": 1250})

	out, err := h.run(t, "", "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "EcoCoins: 1250")

	out, err = h.run(t, "", "ask", "which", "route", "is", "greenest?")
	require.NoError(t, err)
	assert.Contains(t, out, "EcoAgent: You asked: which route is greenest?")

	h.backend.SetAgent(func(string) (string, int) { return "", http.StatusBadGateway })
	out, err = h.run(t, "", "ask", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "trouble connecting")
}

func TestBackendFailureMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.FailNext("/catalog", http.StatusInternalServerError)
	_, err := h.run(t, "", "catalog")
	require.Error(t, err)
	assert.Equal(t, "Failed to load, please try again.", describe(err))
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "", "teleport")
	assert.ErrorIs(t, err, errUsage)
}

func TestCatalogLogsSessionFailure(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()
	rt, err := app.New(ctx, &config.Config{
		API:       config.APIConfig{BaseURL: b.URL, Timeout: 5 * time.Second},
		Database:  config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "missing", "session.db")},
		Session:   config.SessionConfig{Store: config.SessionStoreSQLite, CustomerID: "1234"},
		Log:       config.LogConfig{Level: "error"},
		Telemetry: config.TelemetryConfig{Exporter: config.ExporterNone},
	})
	require.NoError(t, err)
	defer rt.Close(ctx)
	core, logs := observer.New(zapcore.DebugLevel)
	rt.Logger = zap.New(core)

	var out bytes.Buffer
	c := &cli{rt: rt, out: &out, in: strings.NewReader("")}
	require.NoError(t, c.dispatch(ctx, "catalog", nil))
	assert.Contains(t, out.String(), "Organic Bananas")
	assert.NotContains(t, out.String(), " *")

	entries := logs.FilterMessage("catalog without wishlist marks").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "error")
}
