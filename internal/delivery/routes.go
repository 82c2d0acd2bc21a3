// Package delivery holds the shipping options offered at checkout and the customer's choice.
package delivery

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"ecoRouteClient/models"
)

// ErrUnknownRoute is returned when selecting a route id that is not offered.
var ErrUnknownRoute = errors.New("unknown delivery route")

// DefaultRoutes returns the delivery options offered by the storefront, slowest and
// greenest first.
func DefaultRoutes() []models.DeliveryRoute {
	return []models.DeliveryRoute{
		{ID: 1, Name: "Eco-Friendly Route", Time: "45-60 min", Cost: "Free", EcoBonus: 50, CO2Saved: "2.3kg",
			Description: "Optimized for minimal environmental impact"},
		{ID: 2, Name: "Standard Route", Time: "30-45 min", Cost: "$4.99", EcoBonus: 25, CO2Saved: "1.1kg",
			Description: "Balanced speed and efficiency"},
		{ID: 3, Name: "Express Route", Time: "15-30 min", Cost: "$9.99", EcoBonus: 10, CO2Saved: "0.5kg",
			Description: "Fastest delivery available"},
	}
}

// Selection holds zero or one chosen route out of a fixed set of options.
type Selection struct {
	mu       sync.Mutex
	options  []models.DeliveryRoute
	selected *models.DeliveryRoute
}

// NewSelection offers options and preselects the first one, if any.
func NewSelection(options []models.DeliveryRoute) *Selection {
	s := &Selection{options: append([]models.DeliveryRoute(nil), options...)}
	if len(s.options) > 0 {
		first := s.options[0]
		s.selected = &first
	}
	return s
}

// Options returns the offered routes in display order.
func (s *Selection) Options() []models.DeliveryRoute {
	return append([]models.DeliveryRoute(nil), s.options...)
}

// Select chooses the route with the given id.
func (s *Selection) Select(id int64) (models.DeliveryRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.options {
		if r.ID == id {
			chosen := r
			s.selected = &chosen
			return r, nil
		}
	}
	return models.DeliveryRoute{}, fmt.Errorf("route %d: %w", id, ErrUnknownRoute)
}

// SelectByName chooses a route by its display name, ignoring case. The trailing
// " Route" may be omitted, so "express" selects "Express Route".
func (s *Selection) SelectByName(name string) (models.DeliveryRoute, error) {
	name = strings.TrimSpace(name)
	for _, r := range s.options {
		if strings.EqualFold(r.Name, name) || strings.EqualFold(strings.TrimSuffix(r.Name, " Route"), name) {
			return s.Select(r.ID)
		}
	}
	return models.DeliveryRoute{}, fmt.Errorf("route %q: %w", name, ErrUnknownRoute)
}

// Selected returns the chosen route, if any.
func (s *Selection) Selected() (models.DeliveryRoute, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.DeliveryRoute{}, false
	}
	return *s.selected, true
}

// Clear drops the current choice.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
