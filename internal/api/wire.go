package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ecoRouteClient/models"
)

var fiveStars = decimal.NewFromInt(5)

// schemaError collects the problems found in one decoded object.
type schemaError struct {
	problems []string
}

func (s *schemaError) missing(field string) {
	s.problems = append(s.problems, fmt.Sprintf("missing field %q", field))
}

func (s *schemaError) invalid(field, format string, args ...any) {
	s.problems = append(s.problems, fmt.Sprintf("field %q: %s", field, fmt.Sprintf(format, args...)))
}

func (s *schemaError) err() error {
	if len(s.problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(s.problems, "; "))
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ---- catalog ----

type productWire struct {
	ID          *int64           `json:"id"`
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	EcoPrice    *int64           `json:"ecoPrice"`
	Category    *string          `json:"category"`
	EcoFriendly *bool            `json:"ecoFriendly"`
	Rating      *decimal.Decimal `json:"rating"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
}

func (w productWire) toModel() (models.Product, error) {
	var se schemaError
	if w.ID == nil {
		se.missing("id")
	}
	if w.Name == nil || strings.TrimSpace(*w.Name) == "" {
		se.missing("name")
	}
	if w.Price == nil {
		se.missing("price")
	} else if w.Price.IsNegative() {
		se.invalid("price", "negative value %s", w.Price)
	}
	if w.EcoPrice == nil {
		se.missing("ecoPrice")
	} else if *w.EcoPrice < 0 {
		se.invalid("ecoPrice", "negative value %d", *w.EcoPrice)
	}
	if w.Category == nil {
		se.missing("category")
	}
	if w.Rating != nil && (w.Rating.IsNegative() || w.Rating.GreaterThan(fiveStars)) {
		se.invalid("rating", "%s outside 0-5", w.Rating)
	}
	if err := se.err(); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:          *w.ID,
		Name:        *w.Name,
		Price:       *w.Price,
		EcoPrice:    *w.EcoPrice,
		Category:    *w.Category,
		Description: str(w.Description),
		Image:       str(w.Image),
	}
	if w.EcoFriendly != nil {
		p.EcoFriendly = *w.EcoFriendly
	}
	if w.Rating != nil {
		p.Rating = *w.Rating
	}
	return p, nil
}

// ---- orders ----

type orderItemWire struct {
	ID       *int64           `json:"id"`
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
	EcoPrice *int64           `json:"ecoPrice"`
}

type routeSnapshotWire struct {
	Route    *string          `json:"route"`
	Time     *string          `json:"time"`
	Cost     *string          `json:"cost"`
	EcoBonus *int64           `json:"ecoBonus"`
	CO2Saved *string          `json:"co2Saved"`
	Items    *[]orderItemWire `json:"items"`
}

type orderWire struct {
	ID          *string            `json:"id"`
	CustomerID  *string            `json:"cust_id"`
	Status      *string            `json:"status"`
	CreatedAt   *string            `json:"createdAt"`
	TotalAmount *decimal.Decimal   `json:"totalAmount"`
	Address     *string            `json:"address"`
	Name        *string            `json:"name"`
	Phone       *string            `json:"phone"`
	Edta        *routeSnapshotWire `json:"edta"`
}

func (w orderItemWire) toModel() (models.OrderItem, error) {
	var se schemaError
	if w.ID == nil {
		se.missing("id")
	}
	if w.Name == nil {
		se.missing("name")
	}
	if w.Price == nil {
		se.missing("price")
	} else if w.Price.IsNegative() {
		se.invalid("price", "negative value %s", w.Price)
	}
	if w.Quantity == nil {
		se.missing("quantity")
	} else if *w.Quantity <= 0 {
		se.invalid("quantity", "must be positive, got %d", *w.Quantity)
	}
	if w.EcoPrice == nil {
		se.missing("ecoPrice")
	}
	if err := se.err(); err != nil {
		return models.OrderItem{}, err
	}
	return models.OrderItem{
		ID:       *w.ID,
		Name:     *w.Name,
		Price:    *w.Price,
		Quantity: *w.Quantity,
		EcoPrice: *w.EcoPrice,
	}, nil
}

func (w orderWire) toModel() (models.Order, error) {
	var se schemaError
	required := []struct {
		field string
		value *string
	}{
		{"id", w.ID}, {"cust_id", w.CustomerID}, {"status", w.Status}, {"createdAt", w.CreatedAt},
		{"address", w.Address}, {"name", w.Name}, {"phone", w.Phone},
	}
	for _, r := range required {
		if r.value == nil {
			se.missing(r.field)
		}
	}
	var created time.Time
	if w.CreatedAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *w.CreatedAt)
		if err != nil {
			se.invalid("createdAt", "not an ISO-8601 timestamp: %q", *w.CreatedAt)
		}
		created = t
	}
	if w.TotalAmount == nil {
		se.missing("totalAmount")
	} else if w.TotalAmount.IsNegative() {
		se.invalid("totalAmount", "negative value %s", w.TotalAmount)
	}
	if w.Edta == nil {
		se.missing("edta")
	} else {
		if w.Edta.Route == nil {
			se.missing("edta.route")
		}
		if w.Edta.Items == nil {
			se.missing("edta.items")
		}
	}
	if err := se.err(); err != nil {
		return models.Order{}, err
	}

	o := models.Order{
		ID:          *w.ID,
		CustomerID:  *w.CustomerID,
		Status:      models.OrderStatus(*w.Status),
		CreatedAt:   created,
		TotalAmount: *w.TotalAmount,
		Address:     *w.Address,
		Name:        *w.Name,
		Phone:       *w.Phone,
		Route: models.RouteSnapshot{
			Route:    *w.Edta.Route,
			Time:     str(w.Edta.Time),
			Cost:     str(w.Edta.Cost),
			CO2Saved: str(w.Edta.CO2Saved),
			Items:    make([]models.OrderItem, 0, len(*w.Edta.Items)),
		},
	}
	if w.Edta.EcoBonus != nil {
		o.Route.EcoBonus = *w.Edta.EcoBonus
	}
	for i, iw := range *w.Edta.Items {
		it, err := iw.toModel()
		if err != nil {
			return models.Order{}, fmt.Errorf("edta.items[%d]: %w", i, err)
		}
		o.Route.Items = append(o.Route.Items, it)
	}
	return o, nil
}

// placeOrderRequest is the body of POST /order/place_order. Amounts are sent as JSON numbers.
type placeOrderRequest struct {
	CustomerID  string             `json:"cust_id"`
	Status      string             `json:"status"`
	CreatedAt   string             `json:"createdAt"`
	TotalAmount json.Number        `json:"totalAmount"`
	Address     string             `json:"address"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Edta        placeOrderRouteReq `json:"edta"`
}

type placeOrderRouteReq struct {
	Route    string              `json:"route"`
	Time     string              `json:"time"`
	Cost     string              `json:"cost"`
	EcoBonus int64               `json:"ecoBonus"`
	CO2Saved string              `json:"co2Saved"`
	Items    []placeOrderItemReq `json:"items"`
}

type placeOrderItemReq struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	EcoPrice int64       `json:"ecoPrice"`
}

// isoMillis matches the timestamp layout browsers produce with Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func newPlaceOrderRequest(o models.Order) placeOrderRequest {
	req := placeOrderRequest{
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.UTC().Format(isoMillis),
		TotalAmount: json.Number(o.TotalAmount.Round(2).String()),
		Address:     o.Address,
		Name:        o.Name,
		Phone:       o.Phone,
		Edta: placeOrderRouteReq{
			Route:    o.Route.Route,
			Time:     o.Route.Time,
			Cost:     o.Route.Cost,
			EcoBonus: o.Route.EcoBonus,
			CO2Saved: o.Route.CO2Saved,
			Items:    make([]placeOrderItemReq, 0, len(o.Route.Items)),
		},
	}
	for _, it := range o.Route.Items {
		req.Edta.Items = append(req.Edta.Items, placeOrderItemReq{
			ID:       it.ID,
			Name:     it.Name,
			Price:    json.Number(it.Price.String()),
			Quantity: it.Quantity,
			EcoPrice: it.EcoPrice,
		})
	}
	return req
}

// messageWire is the {"message": ...} acknowledgement returned by write endpoints.
type messageWire struct {
	Message *string `json:"message"`
}

func (w messageWire) value() (string, error) {
	if w.Message == nil || strings.TrimSpace(*w.Message) == "" {
		return "", errors.New(`missing field "message"`)
	}
	return *w.Message, nil
}

// ---- drivers ----

type driverWire struct {
	ID                *string        `json:"id"`
	Name              *string        `json:"name"`
	Phone             *string        `json:"phone"`
	Email             *string        `json:"email"`
	LicenseNumber     *string        `json:"license_number"`
	VehicleType       *string        `json:"vehicle_type"`
	Vehicle           *string        `json:"vehicle"`
	TotalParcels      *int           `json:"totalParcels"`
	Status            *string        `json:"status"`
	Route             []string       `json:"route"`
	DeliveriesPerStop map[string]int `json:"deliveriesPerStop"`
}

func (w driverWire) toModel() (models.Driver, error) {
	var se schemaError
	if w.Name == nil {
		se.missing("name")
	}
	if w.Phone == nil {
		se.missing("phone")
	}
	if w.Email == nil {
		se.missing("email")
	}
	if w.TotalParcels != nil && *w.TotalParcels < 0 {
		se.invalid("totalParcels", "negative value %d", *w.TotalParcels)
	}
	if w.Status != nil && !models.DriverStatus(*w.Status).Valid() {
		se.invalid("status", "unknown driver status %q", *w.Status)
	}
	for stop, n := range w.DeliveriesPerStop {
		if n < 0 {
			se.invalid("deliveriesPerStop", "negative parcel count for %q", stop)
		}
	}
	if err := se.err(); err != nil {
		return models.Driver{}, err
	}

	d := models.Driver{
		ID:            str(w.ID),
		Name:          *w.Name,
		Phone:         *w.Phone,
		Email:         *w.Email,
		LicenseNumber: str(w.LicenseNumber),
		VehicleType:   str(w.VehicleType),
		Vehicle:       str(w.Vehicle),
		Status:        models.DriverStatus(str(w.Status)),
		Route:         append([]string(nil), w.Route...),
	}
	if w.TotalParcels != nil {
		d.TotalParcels = *w.TotalParcels
	}
	if len(w.DeliveriesPerStop) > 0 {
		d.DeliveriesPerStop = make(map[string]int, len(w.DeliveriesPerStop))
		for k, v := range w.DeliveriesPerStop {
			d.DeliveriesPerStop[k] = v
		}
	}
	return d, nil
}

// addDriverRequest is the body of POST /drivers/add_driver.
type addDriverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`
	VehicleType   string `json:"vehicle_type"`
	Vehicle       string `json:"vehicle"`
	TotalParcels  int    `json:"totalParcels"`
	Status        string `json:"status"`
}

// ---- balance ----

type assetWire struct {
	Name     *string          `json:"name"`
	AssetRef *string          `json:"assetref"`
	Qty      *decimal.Decimal `json:"qty"`
}

type balanceWire struct {
	Data *[]assetWire `json:"data"`
}

func (w balanceWire) toModel() (models.Balance, error) {
	if w.Data == nil {
		return models.Balance{}, errors.New(`missing field "data"`)
	}
	b := models.Balance{Assets: make([]models.Asset, 0, len(*w.Data))}
	for i, aw := range *w.Data {
		var se schemaError
		if aw.Name == nil {
			se.missing("name")
		}
		if aw.Qty == nil {
			se.missing("qty")
		}
		if err := se.err(); err != nil {
			return models.Balance{}, fmt.Errorf("data[%d]: %w", i, err)
		}
		b.Assets = append(b.Assets, models.Asset{Name: *aw.Name, AssetRef: str(aw.AssetRef), Qty: *aw.Qty})
	}
	return b, nil
}

// ---- agent ----

type agentRequest struct {
	Question string `json:"question"`
}

type agentWire struct {
	Response *string `json:"response"`
}
