package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order. The backend treats it as an
// open string, so values outside the constants below are kept as-is.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is a placed order as stored by the backend.
// Route embeds a copy of the chosen route and of the cart lines at order time.
type Order struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"cust_id"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Address     string          `json:"address"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Route       RouteSnapshot   `json:"edta"`
}

// RouteSnapshot is the denormalized delivery section of an order.
type RouteSnapshot struct {
	Route    string      `json:"route"`
	Time     string      `json:"time"`
	Cost     string      `json:"cost"`
	EcoBonus int64       `json:"ecoBonus"`
	CO2Saved string      `json:"co2Saved"`
	Items    []OrderItem `json:"items"`
}

// OrderItem is a cart line as it existed when the order was placed.
type OrderItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	EcoPrice int64           `json:"ecoPrice"`
}

// EcoPoints returns the reward-point value of all items in the order.
func (o *Order) EcoPoints() int64 {
	var total int64
	for _, it := range o.Route.Items {
		total += it.EcoPrice * int64(it.Quantity)
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate a placed order through shared slices.
func (o Order) Clone() Order {
	out := o
	if o.Route.Items != nil {
		out.Route.Items = make([]OrderItem, len(o.Route.Items))
		copy(out.Route.Items, o.Route.Items)
	}
	return out
}
