// Package checkout turns the cart, the chosen delivery route and the contact details into
// a placed order.
//
// A Service runs one submission at a time: idle -> submitting -> idle. The cart is cleared
// only after the backend has acknowledged the order; on failure it is left untouched so the
// customer can retry by hand. Nothing is retried automatically.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecoRouteClient/internal/cart"
	"ecoRouteClient/models"
)

// Submit rejects these before anything is sent to the backend.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoRoute        = errors.New("no delivery route selected")
	ErrMissingContact = errors.New("name, phone and address are required")
)

// ErrSubmitInProgress is returned when Submit is called while another submission is pending.
var ErrSubmitInProgress = errors.New("an order submission is already in progress")

// OrderPlacer submits an order and returns the backend's identifier for it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o models.Order, idempotencyKey string) (string, error)
}

// CartHolder gives checkout read access to the cart and a way to empty it after success.
type CartHolder interface {
	Snapshot() cart.Ledger
	Clear(ctx context.Context) error
}

// Contact is the delivery contact entered at checkout.
type Contact struct {
	Name    string
	Phone   string
	Address string
}

func (c Contact) trimmed() Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// State is the submission state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Outcome describes the most recent submission attempt.
type Outcome struct {
	OrderID string
	Order   models.Order
	Err     error
	Message string
}

// Succeeded reports whether the attempt placed an order.
func (o Outcome) Succeeded() bool { return o.Err == nil && o.OrderID != "" }

// Service places orders for one customer.
type Service struct {
	placer     OrderPlacer
	customerID string
	logger     *zap.Logger

	// Now and NewKey are replaceable for tests.
	Now    func() time.Time
	NewKey func() string

	mu          sync.Mutex
	state       State
	last        Outcome
	pendingKey  string
	pendingBody string
}

// NewService returns a Service submitting orders on behalf of customerID.
func NewService(placer OrderPlacer, customerID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		placer:     placer,
		customerID: customerID,
		logger:     logger,
		Now:        time.Now,
		NewKey:     uuid.NewString,
		state:      StateIdle,
	}
}

// State returns the current submission state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the outcome of the most recent attempt.
func (s *Service) Last() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.last
	out.Order = out.Order.Clone()
	return out
}

// BuildOrder assembles the order payload. Items are copied out of the ledger, so later
// cart changes never reach a built order.
func BuildOrder(customerID string, l cart.Ledger, route models.DeliveryRoute, contact Contact, now time.Time) models.Order {
	lines := l.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, models.OrderItem{
			ID:       ln.Product.ID,
			Name:     ln.Product.Name,
			Price:    ln.Product.Price,
			Quantity: ln.Quantity,
			EcoPrice: ln.Product.EcoPrice,
		})
	}
	return models.Order{
		CustomerID:  customerID,
		Status:      models.OrderStatusPending,
		CreatedAt:   now.UTC(),
		TotalAmount: l.TotalPrice(),
		Address:     contact.Address,
		Name:        contact.Name,
		Phone:       contact.Phone,
		Route: models.RouteSnapshot{
			Route:    route.Name,
			Time:     route.Time,
			Cost:     route.Cost,
			EcoBonus: route.EcoBonus,
			CO2Saved: route.CO2Saved,
			Items:    items,
		},
	}
}

// Submit places an order for the current cart contents. route is nil when no delivery
// option has been chosen.
func (s *Service) Submit(ctx context.Context, holder CartHolder, route *models.DeliveryRoute, contact Contact) (Outcome, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return Outcome{}, ErrSubmitInProgress
	}

	ledger := holder.Snapshot()
	contact = contact.trimmed()
	var invalid error
	switch {
	case ledger.IsEmpty():
		invalid = ErrEmptyCart
	case route == nil:
		invalid = ErrNoRoute
	case contact.Name == "" || contact.Phone == "" || contact.Address == "":
		invalid = ErrMissingContact
	}
	if invalid != nil {
		s.last = Outcome{Err: invalid, Message: rejectMessage(invalid)}
		s.mu.Unlock()
		return s.lastCopy(), invalid
	}

	order := BuildOrder(s.customerID, ledger, *route, contact, s.Now())
	key := s.keyFor(order)
	s.state = StateSubmitting
	s.mu.Unlock()

	log := s.logger.With(
		zap.String("customer_id", s.customerID),
		zap.String("route", route.Name),
		zap.Int("lines", ledger.Len()),
		zap.String("total", ledger.DisplayTotal()),
		zap.String("idempotency_key", key),
	)
	log.Info("submitting order")
	id, err := s.placer.PlaceOrder(ctx, order, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	if err != nil {
		log.Warn("order submission failed", zap.Error(err))
		s.last = Outcome{Order: order, Err: err, Message: "Failed to place order. Please try again."}
		return s.lastCopy(), fmt.Errorf("place order: %w", err)
	}

	order.ID = id
	s.pendingKey, s.pendingBody = "", ""
	s.last = Outcome{OrderID: id, Order: order, Message: "Order placed successfully! Order ID: " + id}
	log.Info("order placed", zap.String("order_id", id))

	if err := holder.Clear(ctx); err != nil {
		log.Error("order placed but cart not cleared", zap.String("order_id", id), zap.Error(err))
		return s.lastCopy(), fmt.Errorf("order %s placed, clearing cart: %w", id, err)
	}
	return s.lastCopy(), nil
}

// lastCopy returns s.last with its order detached from the recorded one. Callers hold s.mu.
func (s *Service) lastCopy() Outcome {
	out := s.last
	out.Order = out.Order.Clone()
	return out
}

// keyFor returns the idempotency key for order. A resubmission of an identical payload
// after a failure reuses the previous key; any change to the payload starts a new one.
// Callers hold s.mu.
func (s *Service) keyFor(order models.Order) string {
	body := fingerprint(order)
	if s.pendingKey != "" && body == s.pendingBody {
		return s.pendingKey
	}
	s.pendingKey = s.NewKey()
	s.pendingBody = body
	return s.pendingKey
}

// fingerprint identifies the payload without its timestamp.
func fingerprint(o models.Order) string {
	o.CreatedAt = time.Time{}
	buf, err := json.Marshal(o)
	if err != nil {
		return ""
	}
	return string(buf)
}

func rejectMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, ErrNoRoute):
		return "Please select a delivery route"
	case errors.Is(err, ErrMissingContact):
		return "Please fill in your name, phone and address"
	default:
		return err.Error()
	}
}
