// Package balance keeps the customer's EcoCoin balance for the lifetime of the process.
package balance

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecoRouteClient/models"
)

// Fetcher reads the balances of a ledger address.
type Fetcher interface {
	Balance(ctx context.Context, address string) (models.Balance, error)
}

// Snapshot is what the balance widget shows.
type Snapshot struct {
	Value     decimal.Decimal
	Known     bool // false until the first successful fetch unless seeded
	Loading   bool
	Err       error // last refresh failure; cleared by a successful refresh
	UpdatedAt time.Time
}

// Cache is a read-through cache of one address's EcoCoin balance. It is safe for concurrent
// use. Refreshes may overlap; a response is applied only when no refresh issued after it
// has been applied already, so a slow stale response never replaces a newer value.
type Cache struct {
	fetcher Fetcher
	address string
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	snap     Snapshot
	issued   uint64
	applied  uint64
	inFlight int
}

// NewCache returns a cache for address. initial, when non-nil, is shown until the first
// refresh completes.
func NewCache(fetcher Fetcher, address string, initial *decimal.Decimal, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{fetcher: fetcher, address: address, logger: logger, now: time.Now}
	if initial != nil {
		c.snap.Value = *initial
		c.snap.Known = true
	}
	return c
}

// Address returns the ledger address this cache follows.
func (c *Cache) Address() string { return c.address }

// Snapshot returns the current view.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Refresh fetches the balance and returns the resulting snapshot. On failure the last known
// value stays in place and the error is recorded next to it.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.inFlight++
	c.snap.Loading = true
	c.mu.Unlock()

	b, err := c.fetcher.Balance(ctx, c.address)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.snap.Loading = c.inFlight > 0
	log := c.logger.With(zap.String("address", c.address), zap.Uint64("seq", seq))

	if seq < c.applied {
		log.Debug("discarding stale balance response", zap.Uint64("applied", c.applied))
		return c.snap, err
	}
	c.applied = seq
	if err != nil {
		c.snap.Err = err
		log.Warn("balance refresh failed", zap.Error(err))
		return c.snap, err
	}
	c.snap.Value = b.EcoCoins()
	c.snap.Known = true
	c.snap.Err = nil
	c.snap.UpdatedAt = c.now()
	log.Debug("balance refreshed", zap.String("value", c.snap.Value.String()))
	return c.snap, nil
}
