// Package storefront is the customer's side of the shop: the cart and wishlist of one
// session, kept in a session repository between commands, plus catalog browsing helpers.
package storefront

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ecoRouteClient/internal/cart"
	"ecoRouteClient/models"
	"ecoRouteClient/repository"
)

// Session holds the cart and wishlist of one customer. Every mutation is written through
// to the repository. Session implements checkout.CartHolder.
type Session struct {
	customerID string
	repo       repository.SessionRepositoryI
	store      *cart.Store
	logger     *zap.Logger

	mu       sync.Mutex
	wishlist []models.Product
}

// OpenSession loads the saved cart and wishlist of customerID.
func OpenSession(ctx context.Context, customerID string, repo repository.SessionRepositoryI, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lines, err := repo.LoadCart(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	ledger, err := cart.FromLines(lines)
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	wishlist, err := repo.LoadWishlist(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	logger = logger.With(zap.String("customer_id", customerID))
	logger.Debug("session opened", zap.Int("cart_lines", ledger.Len()), zap.Int("wishlist", len(wishlist)))
	return &Session{
		customerID: customerID,
		repo:       repo,
		store:      cart.NewStore(ledger, logger),
		logger:     logger,
		wishlist:   wishlist,
	}, nil
}

// CustomerID returns the customer this session belongs to.
func (s *Session) CustomerID() string { return s.customerID }

// Snapshot returns the current cart.
func (s *Session) Snapshot() cart.Ledger { return s.store.Snapshot() }

// Dispatch applies a cart action and saves the result. A rejected action is not saved.
// When saving fails the change stays in memory and the error is returned.
func (s *Session) Dispatch(ctx context.Context, a cart.Action) (cart.Ledger, error) {
	next, err := s.store.Dispatch(a)
	if err != nil {
		return next, err
	}
	if err := s.repo.SaveCart(ctx, s.customerID, next.Lines()); err != nil {
		s.logger.Error("saving cart failed", zap.Error(err))
		return next, fmt.Errorf("save cart: %w", err)
	}
	return next, nil
}

// AddToCart adds one unit of p.
func (s *Session) AddToCart(ctx context.Context, p models.Product) (cart.Ledger, error) {
	return s.Dispatch(ctx, cart.AddItem{Product: p})
}

// RemoveFromCart deletes the line of productID.
func (s *Session) RemoveFromCart(ctx context.Context, productID int64) (cart.Ledger, error) {
	return s.Dispatch(ctx, cart.RemoveItem{ProductID: productID})
}

// SetQuantity changes the quantity of productID's line; zero removes it.
func (s *Session) SetQuantity(ctx context.Context, productID int64, quantity int) (cart.Ledger, error) {
	return s.Dispatch(ctx, cart.SetQuantity{ProductID: productID, Quantity: quantity})
}

// Clear empties the cart.
func (s *Session) Clear(ctx context.Context) error {
	_, err := s.Dispatch(ctx, cart.Clear{})
	return err
}

// ToggleWishlist adds p to the wishlist, or removes it when already present. It reports
// whether p is on the wishlist afterwards.
func (s *Session) ToggleWishlist(ctx context.Context, p models.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Product, 0, len(s.wishlist)+1)
	added := true
	for _, w := range s.wishlist {
		if w.ID == p.ID {
			added = false
			continue
		}
		next = append(next, w)
	}
	if added {
		next = append(next, p)
	}
	if err := s.repo.SaveWishlist(ctx, s.customerID, next); err != nil {
		return !added, fmt.Errorf("save wishlist: %w", err)
	}
	s.wishlist = next
	return added, nil
}

// InWishlist reports whether productID is on the wishlist.
func (s *Session) InWishlist(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wishlist {
		if w.ID == productID {
			return true
		}
	}
	return false
}

// Wishlist returns the wishlist in the order items were added.
func (s *Session) Wishlist() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.wishlist...)
}
