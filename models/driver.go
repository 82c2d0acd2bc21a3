package models

// DriverStatus represents the availability of a delivery driver.
type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
	DriverStatusOnRoute  DriverStatus = "on-route"
)

// Valid reports whether s is one of the known driver statuses.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusActive, DriverStatusInactive, DriverStatusOnRoute:
		return true
	}
	return false
}

// Driver represents a delivery driver on the admin roster.
// Route lists stop names in visiting order; DeliveriesPerStop maps stop name to parcel count.
type Driver struct {
	ID                string         `json:"id,omitempty"`
	Name              string         `json:"name"`
	Phone             string         `json:"phone"`
	Email             string         `json:"email"`
	LicenseNumber     string         `json:"license_number,omitempty"`
	VehicleType       string         `json:"vehicle_type,omitempty"`
	Vehicle           string         `json:"vehicle,omitempty"`
	TotalParcels      int            `json:"totalParcels"`
	Status            DriverStatus   `json:"status,omitempty"`
	Route             []string       `json:"route,omitempty"`
	DeliveriesPerStop map[string]int `json:"deliveriesPerStop,omitempty"`
}
