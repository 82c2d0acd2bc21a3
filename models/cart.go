package models

// CartLine is one product in the cart together with its quantity.
// Quantity is always positive; a line reduced to zero is removed.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `db:"quantity" json:"quantity"`
}
