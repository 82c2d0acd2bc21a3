package repository

import (
	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

func sampleLines() []models.CartLine {
	return []models.CartLine{
		{Product: models.Product{ID: 5, Name: "Fresh Avocados", Price: decimal.RequireFromString("4.99"), EcoPrice: 250,
			Category: "groceries", EcoFriendly: true, Rating: decimal.RequireFromString("4.4")}, Quantity: 2},
		{Product: models.Product{ID: 1, Name: "Organic Bananas", Price: decimal.RequireFromString("2.99"), EcoPrice: 150,
			Category: "groceries", EcoFriendly: true, Rating: decimal.RequireFromString("4.5")}, Quantity: 1},
		{Product: models.Product{ID: 2, Name: "Wireless Headphones", Price: decimal.RequireFromString("79.99"), EcoPrice: 4000,
			Category: "electronics", Rating: decimal.RequireFromString("4.8")}, Quantity: 3},
	}
}

func sameLines(a, b []models.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Product.ID != b[i].Product.ID || a[i].Quantity != b[i].Quantity ||
			!a[i].Product.Price.Equal(b[i].Product.Price) || a[i].Product.Name != b[i].Product.Name {
			return false
		}
	}
	return true
}
