package api

import (
	"context"
	"fmt"
	"net/http"

	"ecoRouteClient/models"
)

// Catalog fetches the product catalog. Product ids must be unique.
func (c *Client) Catalog(ctx context.Context) ([]models.Product, error) {
	const op = "list catalog"
	var raw []productWire
	if err := c.call(ctx, op, http.MethodGet, "/catalog", nil, &raw, nil); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for i, w := range raw {
		p, err := w.toModel()
		if err != nil {
			return nil, malformed(op, http.MethodGet, http.StatusOK, fmt.Errorf("catalog[%d]: %w", i, err))
		}
		if _, dup := seen[p.ID]; dup {
			return nil, malformed(op, http.MethodGet, http.StatusOK, fmt.Errorf("catalog[%d]: duplicate product id %d", i, p.ID))
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
