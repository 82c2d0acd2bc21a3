package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ecoRouteClient/models"
)

// Balance fetches the asset balances of a ledger address.
func (c *Client) Balance(ctx context.Context, address string) (models.Balance, error) {
	const op = "get balance"
	if address == "" {
		return models.Balance{}, fmt.Errorf("%s: address is required", op)
	}
	var raw balanceWire
	if err := c.call(ctx, op, http.MethodGet, "/ecoCoin/getbalance/"+url.PathEscape(address), nil, &raw, nil); err != nil {
		return models.Balance{}, err
	}
	b, err := raw.toModel()
	if err != nil {
		return models.Balance{}, malformed(op, http.MethodGet, http.StatusOK, err)
	}
	return b, nil
}
