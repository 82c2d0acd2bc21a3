package api

import (
	"context"
	"fmt"
	"net/http"

	"ecoRouteClient/models"
)

// Drivers lists the driver roster.
func (c *Client) Drivers(ctx context.Context) ([]models.Driver, error) {
	const op = "list drivers"
	var raw []driverWire
	if err := c.call(ctx, op, http.MethodGet, "/drivers", nil, &raw, nil); err != nil {
		return nil, err
	}
	out := make([]models.Driver, 0, len(raw))
	for i, w := range raw {
		d, err := w.toModel()
		if err != nil {
			return nil, malformed(op, http.MethodGet, http.StatusOK, fmt.Errorf("drivers[%d]: %w", i, err))
		}
		out = append(out, d)
	}
	return out, nil
}

// AddDriver appends d to the roster and returns the backend identifier of the new record.
func (c *Client) AddDriver(ctx context.Context, d models.Driver) (string, error) {
	const op = "add driver"
	body := addDriverRequest{
		Name:          d.Name,
		Phone:         d.Phone,
		Email:         d.Email,
		LicenseNumber: d.LicenseNumber,
		VehicleType:   d.VehicleType,
		Vehicle:       d.Vehicle,
		TotalParcels:  d.TotalParcels,
		Status:        string(d.Status),
	}
	var ack messageWire
	if err := c.call(ctx, op, http.MethodPost, "/drivers/add_driver", body, &ack, nil); err != nil {
		return "", err
	}
	id, err := ack.value()
	if err != nil {
		return "", malformed(op, http.MethodPost, http.StatusOK, err)
	}
	return id, nil
}
