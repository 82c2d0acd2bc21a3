package models

import "github.com/shopspring/decimal"

// Product is a purchasable catalog entry. It is immutable once loaded.
type Product struct {
	ID          int64           `db:"product_id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	EcoPrice    int64           `db:"eco_price" json:"ecoPrice"`
	Category    string          `db:"category" json:"category"`
	EcoFriendly bool            `db:"eco_friendly" json:"ecoFriendly"`
	Rating      decimal.Decimal `db:"rating" json:"rating"`
	Description string          `db:"description" json:"description"`
	Image       string          `db:"image" json:"image"`
}

// CategoryAll matches every product when filtering the catalog.
const CategoryAll = "all"
