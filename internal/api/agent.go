package api

import (
	"context"
	"errors"
	"net/http"
)

// AskAgent forwards a question to the EcoAgent assistant and returns its reply.
// The reply may be empty; callers decide what to show in that case.
func (c *Client) AskAgent(ctx context.Context, question string) (string, error) {
	const op = "ask agent"
	var raw agentWire
	if err := c.call(ctx, op, http.MethodPost, "/EcoAgent", agentRequest{Question: question}, &raw, nil); err != nil {
		return "", err
	}
	if raw.Response == nil {
		return "", malformed(op, http.MethodPost, http.StatusOK, errors.New(`missing field "response"`))
	}
	return *raw.Response, nil
}
