package cart

import (
	"fmt"

	"ecoRouteClient/models"
)

// Action is a cart transition request.
type Action interface {
	isAction()
}

// AddItem adds one unit of Product.
type AddItem struct{ Product models.Product }

// RemoveItem deletes the line for ProductID.
type RemoveItem struct{ ProductID int64 }

// SetQuantity replaces the quantity of ProductID's line.
type SetQuantity struct {
	ProductID int64
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()     {}
func (RemoveItem) isAction()  {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}

// Reduce applies a to l and returns the resulting ledger. On error l is returned unchanged.
func Reduce(l Ledger, a Action) (Ledger, error) {
	switch a := a.(type) {
	case AddItem:
		return l.AddItem(a.Product), nil
	case RemoveItem:
		return l.RemoveItem(a.ProductID), nil
	case SetQuantity:
		return l.SetQuantity(a.ProductID, a.Quantity)
	case Clear:
		return l.Clear(), nil
	default:
		return l, fmt.Errorf("unknown cart action %T", a)
	}
}
