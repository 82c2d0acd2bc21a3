package admin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

func order(id, cust, name string, status models.OrderStatus, total string, at time.Time, items ...models.OrderItem) models.Order {
	return models.Order{
		ID: id, CustomerID: cust, Name: name, Status: status, CreatedAt: at,
		TotalAmount: decimal.RequireFromString(total),
		Route:       models.RouteSnapshot{Route: "Eco-Friendly Route", Items: items},
	}
}

func fixtureOrders() []models.Order {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	item := func(q int, eco int64) models.OrderItem {
		return models.OrderItem{ID: 1, Name: "x", Price: decimal.NewFromInt(1), Quantity: q, EcoPrice: eco}
	}
	return []models.Order{
		order("665f0000000000000000a001", "1234", "Ada Lovelace", "pending", "10.97", base.Add(1*time.Hour), item(2, 150)),
		order("665f0000000000000000a002", "1234", "Ada Lovelace", "Delivered", "4.99", base.Add(2*time.Hour), item(1, 250)),
		order("665f0000000000000000a003", "9999", "Grace Hopper", "processing", "79.99", base.Add(3*time.Hour)),
		order("665f0000000000000000a004", "9999", "Grace Hopper", "completed", "0.10", base.Add(4*time.Hour)),
		order("665f0000000000000000a005", "4242", "Alan Turing", "cancelled", "0.20", base.Add(5*time.Hour)),
		order("665f0000000000000000a006", "4242", "Alan Turing", "pending", "1.00", base),
	}
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(fixtureOrders())
	if s.TotalOrders != 6 {
		t.Fatalf("total: %d", s.TotalOrders)
	}
	if !s.Revenue.Equal(decimal.RequireFromString("97.25")) {
		t.Fatalf("revenue: %s", s.Revenue)
	}
	if s.EcoPoints != 2*150+250 {
		t.Fatalf("eco points: %d", s.EcoPoints)
	}
	if s.Completed != 2 || s.Pending != 3 {
		t.Fatalf("completed=%d pending=%d", s.Completed, s.Pending)
	}
	if s.CompletionRate != 33.3 || s.PendingRate != 50 {
		t.Fatalf("rates: %v %v", s.CompletionRate, s.PendingRate)
	}
	if len(s.Recent) != RecentLimit {
		t.Fatalf("recent: %d", len(s.Recent))
	}
	if s.Recent[0].ID != "665f0000000000000000a005" || s.Recent[4].ID != "665f0000000000000000a001" {
		t.Fatalf("recent order wrong: first=%s last=%s", s.Recent[0].ID, s.Recent[4].ID)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	if s.TotalOrders != 0 || !s.Revenue.IsZero() || s.CompletionRate != 0 || s.PendingRate != 0 || len(s.Recent) != 0 {
		t.Fatalf("unexpected stats for no orders: %+v", s)
	}
}

func TestFilterOrders(t *testing.T) {
	orders := fixtureOrders()
	cases := []struct {
		search, status string
		want           int
	}{
		{"", "all", 6},
		{"", "", 6},
		{"ada", "all", 2},
		{"GRACE", "", 2},
		{"a003", "", 1},
		{"4242", "", 2},
		{"", "PENDING", 2},
		{"ada", "delivered", 1},
		{"nobody", "all", 0},
	}
	for _, c := range cases {
		got := FilterOrders(orders, c.search, c.status)
		if len(got) != c.want {
			t.Fatalf("search=%q status=%q: want %d got %d", c.search, c.status, c.want, len(got))
		}
	}
}

func TestRecentOrdersDoesNotReorderInput(t *testing.T) {
	orders := fixtureOrders()
	_ = RecentOrders(orders, 2)
	if orders[0].ID != "665f0000000000000000a001" {
		t.Fatalf("input slice was modified")
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("665f0000000000000000a001"); got != "0000a001" {
		t.Fatalf("got %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
