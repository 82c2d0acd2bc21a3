package api

import (
	"context"
	"fmt"
	"net/http"
)

// Ping checks that the backend answers its health probe with "healthy".
func (c *Client) Ping(ctx context.Context) error {
	const op = "health check"
	var status string
	if err := c.call(ctx, op, http.MethodGet, "/", nil, &status, nil); err != nil {
		return err
	}
	if status != "healthy" {
		return malformed(op, http.MethodGet, http.StatusOK, fmt.Errorf("unexpected health status %q", status))
	}
	return nil
}
