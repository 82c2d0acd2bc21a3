package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ecoRouteClient/models"
)

// ErrInvalidDriver is returned by Roster.Add for incomplete driver records.
var ErrInvalidDriver = errors.New("invalid driver")

// DriverService is the backend surface the roster needs.
type DriverService interface {
	Drivers(ctx context.Context) ([]models.Driver, error)
	AddDriver(ctx context.Context, d models.Driver) (string, error)
}

// Roster caches the driver list. It is safe for concurrent use.
type Roster struct {
	svc    DriverService
	logger *zap.Logger

	mu      sync.Mutex
	drivers []models.Driver
}

// NewRoster returns an empty roster backed by svc. Call Refresh to load it.
func NewRoster(svc DriverService, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{svc: svc, logger: logger}
}

// Refresh reloads the roster from the backend. On failure the previous list is kept.
func (r *Roster) Refresh(ctx context.Context) ([]models.Driver, error) {
	drivers, err := r.svc.Drivers(ctx)
	if err != nil {
		r.logger.Warn("loading drivers failed", zap.Error(err))
		return r.Drivers(), err
	}
	r.mu.Lock()
	r.drivers = drivers
	r.mu.Unlock()
	r.logger.Debug("drivers loaded", zap.Int("count", len(drivers)))
	return r.Drivers(), nil
}

// Drivers returns the cached roster.
func (r *Roster) Drivers() []models.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Driver(nil), r.drivers...)
}

// Validate checks a new driver record and fills in the default status.
func Validate(d models.Driver) (models.Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.Phone == "" {
		missing = append(missing, "phone")
	}
	if d.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return d, fmt.Errorf("%w: missing %s", ErrInvalidDriver, strings.Join(missing, ", "))
	}
	if d.TotalParcels < 0 {
		return d, fmt.Errorf("%w: total parcels must not be negative", ErrInvalidDriver)
	}
	if d.Status == "" {
		d.Status = models.DriverStatusActive
	}
	if !d.Status.Valid() {
		return d, fmt.Errorf("%w: unknown status %q", ErrInvalidDriver, d.Status)
	}
	return d, nil
}

// Add validates d, submits it and reloads the roster. The returned id is the backend's.
// A failed reload after a successful add is reported alongside the id.
func (r *Roster) Add(ctx context.Context, d models.Driver) (string, error) {
	d, err := Validate(d)
	if err != nil {
		return "", err
	}
	id, err := r.svc.AddDriver(ctx, d)
	if err != nil {
		r.logger.Warn("adding driver failed", zap.String("name", d.Name), zap.Error(err))
		return "", err
	}
	r.logger.Info("driver added", zap.String("driver_id", id), zap.String("name", d.Name))
	if _, err := r.Refresh(ctx); err != nil {
		return id, fmt.Errorf("driver %s added, reloading roster: %w", id, err)
	}
	return id, nil
}

// Find looks a driver up by id, or by name ignoring case.
func (r *Roster) Find(key string) (models.Driver, bool) {
	key = strings.TrimSpace(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.ID != "" && d.ID == key {
			return d, true
		}
	}
	for _, d := range r.drivers {
		if strings.EqualFold(d.Name, key) {
			return d, true
		}
	}
	return models.Driver{}, false
}

// StopSummary describes a driver's planned route.
type StopSummary struct {
	Stops   int
	Parcels int // sum over deliveriesPerStop
}

// SummarizeStops counts the route's stops and the parcels planned across them.
func SummarizeStops(d models.Driver) StopSummary {
	s := StopSummary{Stops: len(d.Route)}
	for _, n := range d.DeliveriesPerStop {
		s.Parcels += n
	}
	return s
}

// Progress estimates delivered and remaining parcels from the driver's status: an active
// driver has delivered everything, a driver on route about sixty percent, an inactive
// driver nothing.
func Progress(d models.Driver) (delivered, remaining int) {
	switch d.Status {
	case models.DriverStatusActive:
		delivered = d.TotalParcels
	case models.DriverStatusOnRoute:
		delivered = d.TotalParcels * 6 / 10
	}
	return delivered, d.TotalParcels - delivered
}
