package storefront

import (
	"testing"

	"ecoRouteClient/models"
)

func TestFilterByCategory(t *testing.T) {
	products := []models.Product{
		{ID: 1, Category: "groceries"},
		{ID: 2, Category: "electronics"},
		{ID: 5, Category: "groceries"},
	}
	if got := FilterByCategory(products, "all"); len(got) != 3 {
		t.Fatalf("all: expected 3, got %d", len(got))
	}
	got := FilterByCategory(products, "Groceries")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 5 {
		t.Fatalf("groceries: unexpected %+v", got)
	}
	if got := FilterByCategory(products, "home"); len(got) != 0 {
		t.Fatalf("home: expected none, got %+v", got)
	}
}

func TestCategories(t *testing.T) {
	c := Categories()
	if len(c) != 5 || c[0] != models.CategoryAll {
		t.Fatalf("unexpected categories %v", c)
	}
}
