package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ecoRouteClient/models"
)

// Orders lists every order known to the backend.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	return c.listOrders(ctx, "list orders", "/orders")
}

// CustomerOrders lists the orders placed by customerID.
func (c *Client) CustomerOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("list customer orders: customer id is required")
	}
	return c.listOrders(ctx, "list customer orders", "/orders/"+url.PathEscape(customerID))
}

func (c *Client) listOrders(ctx context.Context, op, path string) ([]models.Order, error) {
	var raw []orderWire
	if err := c.call(ctx, op, http.MethodGet, path, nil, &raw, nil); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(raw))
	for i, w := range raw {
		o, err := w.toModel()
		if err != nil {
			return nil, malformed(op, http.MethodGet, http.StatusOK, fmt.Errorf("orders[%d]: %w", i, err))
		}
		out = append(out, o)
	}
	return out, nil
}

// PlaceOrder submits o and returns the backend's order identifier. idempotencyKey, when
// not empty, is sent as the Idempotency-Key header; the body contract is unchanged.
func (c *Client) PlaceOrder(ctx context.Context, o models.Order, idempotencyKey string) (string, error) {
	const op = "place order"
	var hdr http.Header
	if idempotencyKey != "" {
		hdr = http.Header{headerIdempotencyKey: []string{idempotencyKey}}
	}
	var ack messageWire
	if err := c.call(ctx, op, http.MethodPost, "/order/place_order", newPlaceOrderRequest(o), &ack, hdr); err != nil {
		return "", err
	}
	id, err := ack.value()
	if err != nil {
		return "", malformed(op, http.MethodPost, http.StatusOK, err)
	}
	return id, nil
}
