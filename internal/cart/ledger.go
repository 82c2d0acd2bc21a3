// Package cart holds the shopping cart ledger: the set of selected line items and the
// monetary and reward-point totals derived from it.
//
// Ledger values are immutable. Every transition returns a new Ledger, which keeps cart
// operations testable without any UI or storage around them. Store wraps a Ledger for
// callers that need a shared, mutable container.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

var (
	// ErrInvalidQuantity is returned when a quantity below zero is requested.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	// ErrDuplicateLine is returned when restoring lines that repeat a product id.
	ErrDuplicateLine = errors.New("duplicate cart line")
)

// Ledger is an ordered set of cart lines, unique per product id.
// The zero value is an empty cart.
type Ledger struct {
	lines []models.CartLine
}

// FromLines rebuilds a ledger from previously stored lines, keeping their order.
// Lines must have distinct product ids and positive quantities.
func FromLines(lines []models.CartLine) (Ledger, error) {
	seen := make(map[int64]struct{}, len(lines))
	out := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Ledger{}, fmt.Errorf("product %d: %w", l.Product.ID, ErrInvalidQuantity)
		}
		if _, ok := seen[l.Product.ID]; ok {
			return Ledger{}, fmt.Errorf("product %d: %w", l.Product.ID, ErrDuplicateLine)
		}
		seen[l.Product.ID] = struct{}{}
		out = append(out, l)
	}
	return Ledger{lines: out}, nil
}

// AddItem increments the quantity of the product's line, or appends a new line with quantity 1.
func (l Ledger) AddItem(p models.Product) Ledger {
	lines := l.Lines()
	if i := l.index(p.ID); i >= 0 {
		lines[i].Quantity++
		return Ledger{lines: lines}
	}
	return Ledger{lines: append(lines, models.CartLine{Product: p, Quantity: 1})}
}

// RemoveItem deletes the line for productID. Removing an absent product is a no-op.
func (l Ledger) RemoveItem(productID int64) Ledger {
	i := l.index(productID)
	if i < 0 {
		return l
	}
	lines := make([]models.CartLine, 0, len(l.lines)-1)
	lines = append(lines, l.lines[:i]...)
	lines = append(lines, l.lines[i+1:]...)
	return Ledger{lines: lines}
}

// SetQuantity replaces the quantity of an existing line. Zero removes the line and a
// negative quantity is rejected with ErrInvalidQuantity, leaving the ledger unchanged.
// Setting a quantity for a product that is not in the cart is a no-op.
func (l Ledger) SetQuantity(productID int64, quantity int) (Ledger, error) {
	if quantity < 0 {
		return l, ErrInvalidQuantity
	}
	if quantity == 0 {
		return l.RemoveItem(productID), nil
	}
	i := l.index(productID)
	if i < 0 {
		return l, nil
	}
	lines := l.Lines()
	lines[i].Quantity = quantity
	return Ledger{lines: lines}, nil
}

// Clear returns an empty ledger.
func (l Ledger) Clear() Ledger {
	return Ledger{}
}

// Lines returns a copy of the lines in insertion order.
func (l Ledger) Lines() []models.CartLine {
	out := make([]models.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Line returns the line for productID, if present.
func (l Ledger) Line(productID int64) (models.CartLine, bool) {
	if i := l.index(productID); i >= 0 {
		return l.lines[i], true
	}
	return models.CartLine{}, false
}

// Len is the number of distinct products in the cart.
func (l Ledger) Len() int { return len(l.lines) }

// IsEmpty reports whether the cart has no lines.
func (l Ledger) IsEmpty() bool { return len(l.lines) == 0 }

// ItemCount is the sum of all line quantities.
func (l Ledger) ItemCount() int {
	n := 0
	for _, ln := range l.lines {
		n += ln.Quantity
	}
	return n
}

// TotalPrice is the exact sum of unit price times quantity over all lines.
func (l Ledger) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range l.lines {
		total = total.Add(ln.Product.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}

// DisplayTotal formats TotalPrice rounded to cents.
func (l Ledger) DisplayTotal() string {
	return l.TotalPrice().StringFixed(2)
}

// TotalRewardPoints is the sum of reward-point price times quantity over all lines.
func (l Ledger) TotalRewardPoints() int64 {
	var total int64
	for _, ln := range l.lines {
		total += ln.Product.EcoPrice * int64(ln.Quantity)
	}
	return total
}

func (l Ledger) index(productID int64) int {
	for i, ln := range l.lines {
		if ln.Product.ID == productID {
			return i
		}
	}
	return -1
}
