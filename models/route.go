package models

// DeliveryRoute is a named shipping option chosen once per order.
type DeliveryRoute struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Time        string `json:"time"`
	Cost        string `json:"cost"` // free-form, e.g. "Free" or "$4.99"
	EcoBonus    int64  `json:"ecoBonus"`
	CO2Saved    string `json:"co2Saved"`
	Description string `json:"description"`
}
