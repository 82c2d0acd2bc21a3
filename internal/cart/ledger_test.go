package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

func product(id int64, price string, eco int64) models.Product {
	return models.Product{ID: id, Name: "p", Price: decimal.RequireFromString(price), EcoPrice: eco}
}

func TestAddItem_MergesByProductID(t *testing.T) {
	var l Ledger
	bananas := product(1, "2.99", 150)
	avocados := product(5, "4.99", 250)

	l = l.AddItem(bananas).AddItem(avocados).AddItem(avocados)

	if l.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", l.Len())
	}
	if ln, _ := l.Line(5); ln.Quantity != 2 {
		t.Fatalf("expected avocado quantity 2, got %d", ln.Quantity)
	}
	if got := l.TotalPrice(); !got.Equal(decimal.RequireFromString("12.97")) {
		t.Fatalf("total price = %s, want 12.97", got)
	}
	if got := l.TotalRewardPoints(); got != 650 {
		t.Fatalf("reward points = %d, want 650", got)
	}
	if l.ItemCount() != 3 {
		t.Fatalf("item count = %d, want 3", l.ItemCount())
	}
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	var l Ledger
	for _, id := range []int64{3, 1, 2, 1, 3} {
		l = l.AddItem(product(id, "1.00", 1))
	}
	lines := l.Lines()
	want := []int64{3, 1, 2}
	for i, id := range want {
		if lines[i].Product.ID != id {
			t.Fatalf("line %d: got product %d, want %d", i, lines[i].Product.ID, id)
		}
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := Ledger{}.AddItem(product(1, "1.50", 10))
	_ = base.AddItem(product(1, "1.50", 10))
	_, _ = base.SetQuantity(1, 7)
	_ = base.RemoveItem(1)

	if ln, ok := base.Line(1); !ok || ln.Quantity != 1 {
		t.Fatalf("base ledger changed: %+v ok=%v", ln, ok)
	}
	lines := base.Lines()
	lines[0].Quantity = 99
	if ln, _ := base.Line(1); ln.Quantity != 1 {
		t.Fatalf("Lines must return a copy")
	}
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	l := Ledger{}.AddItem(product(1, "2.99", 150))
	after := l.RemoveItem(42)
	if after.Len() != 1 || !after.TotalPrice().Equal(l.TotalPrice()) {
		t.Fatalf("removing absent id changed the ledger: %+v", after.Lines())
	}
}

func TestSetQuantity(t *testing.T) {
	l := Ledger{}.AddItem(product(1, "2.99", 150)).AddItem(product(2, "79.99", 4000))

	zero, err := l.SetQuantity(1, 0)
	if err != nil {
		t.Fatalf("SetQuantity 0: %v", err)
	}
	removed := l.RemoveItem(1)
	if zero.Len() != removed.Len() || !zero.TotalPrice().Equal(removed.TotalPrice()) {
		t.Fatalf("SetQuantity(id, 0) must equal RemoveItem(id)")
	}

	neg, err := l.SetQuantity(2, -1)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if ln, _ := neg.Line(2); ln.Quantity != 1 {
		t.Fatalf("rejected quantity must leave ledger unchanged, got %d", ln.Quantity)
	}

	five, err := l.SetQuantity(2, 5)
	if err != nil {
		t.Fatalf("SetQuantity 5: %v", err)
	}
	if got := five.TotalPrice(); !got.Equal(decimal.RequireFromString("402.94")) {
		t.Fatalf("total = %s, want 402.94", got)
	}

	absent, err := l.SetQuantity(9, 3)
	if err != nil || absent.Len() != 2 {
		t.Fatalf("setting absent product should be a no-op: len=%d err=%v", absent.Len(), err)
	}
}

func TestTotalPrice_StableUnderReordering(t *testing.T) {
	a, b, c := product(1, "0.10", 1), product(2, "0.20", 2), product(3, "0.30", 3)

	l1 := Ledger{}.AddItem(a).AddItem(b).AddItem(c).AddItem(a).RemoveItem(2)
	l2 := Ledger{}.AddItem(c).AddItem(a).AddItem(a)

	if !l1.TotalPrice().Equal(l2.TotalPrice()) {
		t.Fatalf("totals differ: %s vs %s", l1.TotalPrice(), l2.TotalPrice())
	}
	if !l1.TotalPrice().Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected exact 0.5, got %s", l1.TotalPrice())
	}
}

func TestTotalPrice_NoFloatingPointDrift(t *testing.T) {
	var l Ledger
	p := product(1, "0.10", 0)
	for i := 0; i < 1000; i++ {
		l = l.AddItem(p)
	}
	if got := l.TotalPrice(); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total = %s, want 100", got)
	}
	if l.DisplayTotal() != "100.00" {
		t.Fatalf("display total = %q", l.DisplayTotal())
	}
}

func TestClear(t *testing.T) {
	l := Ledger{}.AddItem(product(1, "1", 1)).Clear()
	if !l.IsEmpty() || !l.TotalPrice().IsZero() || l.TotalRewardPoints() != 0 {
		t.Fatalf("expected empty ledger, got %+v", l.Lines())
	}
}

func TestFromLines_Validates(t *testing.T) {
	p := product(1, "1", 1)
	if _, err := FromLines([]models.CartLine{{Product: p, Quantity: 1}, {Product: p, Quantity: 2}}); !errors.Is(err, ErrDuplicateLine) {
		t.Fatalf("expected ErrDuplicateLine, got %v", err)
	}
	if _, err := FromLines([]models.CartLine{{Product: p, Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	l, err := FromLines([]models.CartLine{{Product: product(2, "1", 1), Quantity: 3}, {Product: p, Quantity: 1}})
	if err != nil {
		t.Fatalf("FromLines: %v", err)
	}
	if l.Lines()[0].Product.ID != 2 || l.ItemCount() != 4 {
		t.Fatalf("unexpected restored ledger: %+v", l.Lines())
	}
}
