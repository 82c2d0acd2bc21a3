package cart

import (
	"sync"

	"go.uber.org/zap"
)

// Store is a mutable container around a Ledger, safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	ledger Ledger
	logger *zap.Logger
}

// NewStore returns a store holding initial.
func NewStore(initial Ledger, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{ledger: initial, logger: logger}
}

// Dispatch applies a and returns the new ledger. A rejected action leaves the store unchanged.
func (s *Store) Dispatch(a Action) (Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Reduce(s.ledger, a)
	if err != nil {
		s.logger.Debug("cart action rejected", zap.String("action", actionName(a)), zap.Error(err))
		return s.ledger, err
	}
	s.ledger = next
	s.logger.Debug("cart updated",
		zap.String("action", actionName(a)),
		zap.Int("lines", next.Len()),
		zap.String("total", next.DisplayTotal()),
	)
	return next, nil
}

// Snapshot returns the current ledger. Ledgers are immutable, so the result is safe to keep.
func (s *Store) Snapshot() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger
}

func actionName(a Action) string {
	switch a.(type) {
	case AddItem:
		return "add_item"
	case RemoveItem:
		return "remove_item"
	case SetQuantity:
		return "set_quantity"
	case Clear:
		return "clear"
	default:
		return "unknown"
	}
}
