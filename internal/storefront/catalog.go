package storefront

import (
	"strings"

	"ecoRouteClient/models"
)

// Categories lists the catalog filters in display order.
func Categories() []string {
	return []string{models.CategoryAll, "groceries", "electronics", "clothing", "home"}
}

// FilterByCategory returns the products tagged category, or all of them for "all" or "".
func FilterByCategory(products []models.Product, category string) []models.Product {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == models.CategoryAll {
		return append([]models.Product(nil), products...)
	}
	var out []models.Product
	for _, p := range products {
		if strings.ToLower(p.Category) == category {
			out = append(out, p)
		}
	}
	return out
}

// FindProduct returns the product with id.
func FindProduct(products []models.Product, id int64) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
