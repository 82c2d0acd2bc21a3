// Package admin implements the operator console: order statistics, order search and the
// driver roster.
package admin

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

// RecentLimit is how many orders the dashboard lists.
const RecentLimit = 5

// Stats summarizes a set of orders.
type Stats struct {
	TotalOrders    int
	Revenue        decimal.Decimal
	EcoPoints      int64
	Completed      int
	Pending        int
	CompletionRate float64 // percent of orders completed or delivered
	PendingRate    float64 // percent of orders pending or processing
	Recent         []models.Order
}

// IsCompleted reports whether s counts as a finished order.
func IsCompleted(s models.OrderStatus) bool {
	switch models.OrderStatus(strings.ToLower(string(s))) {
	case models.OrderStatusCompleted, models.OrderStatusDelivered:
		return true
	}
	return false
}

// IsPending reports whether s counts as an open order.
func IsPending(s models.OrderStatus) bool {
	switch models.OrderStatus(strings.ToLower(string(s))) {
	case models.OrderStatusPending, models.OrderStatusProcessing:
		return true
	}
	return false
}

// ComputeStats derives the dashboard figures from orders.
func ComputeStats(orders []models.Order) Stats {
	s := Stats{TotalOrders: len(orders), Revenue: decimal.Zero}
	for i := range orders {
		o := &orders[i]
		s.Revenue = s.Revenue.Add(o.TotalAmount)
		s.EcoPoints += o.EcoPoints()
		if IsCompleted(o.Status) {
			s.Completed++
		}
		if IsPending(o.Status) {
			s.Pending++
		}
	}
	if s.TotalOrders > 0 {
		s.CompletionRate = percent(s.Completed, s.TotalOrders)
		s.PendingRate = percent(s.Pending, s.TotalOrders)
	}
	s.Recent = RecentOrders(orders, RecentLimit)
	return s
}

func percent(n, total int) float64 {
	f, _ := decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).Round(1).Float64()
	return f
}

// RecentOrders returns up to n orders, newest first. Orders with equal timestamps keep
// their original relative order.
func RecentOrders(orders []models.Order, n int) []models.Order {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterOrders keeps the orders whose name, id or customer id contains search (ignoring
// case) and whose status equals status. An empty search and a status of "all" or "" match
// everything.
func FilterOrders(orders []models.Order, search, status string) []models.Order {
	search = strings.ToLower(strings.TrimSpace(search))
	status = strings.TrimSpace(status)
	var out []models.Order
	for _, o := range orders {
		if search != "" &&
			!strings.Contains(strings.ToLower(o.Name), search) &&
			!strings.Contains(strings.ToLower(o.ID), search) &&
			!strings.Contains(strings.ToLower(o.CustomerID), search) {
			continue
		}
		if status != "" && !strings.EqualFold(status, "all") && !strings.EqualFold(string(o.Status), status) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ShortID returns the last eight characters of an order id, as shown in listings.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
