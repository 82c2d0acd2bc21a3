// Package api is a typed client for the eco-delivery REST backend.
//
// Responses are decoded into explicit wire schemas and validated before they are turned
// into models: a missing required field or an out-of-range value is reported as
// ErrMalformed instead of being defaulted.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"

	maxErrorBody = 4 << 10
)

// Client talks to the backend over HTTP/JSON. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a client for the backend at baseURL. A nil httpClient uses a client with a
// 10 second timeout; pass telemetry.NewHTTPClient to get traced requests.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// call performs one request. body, when non-nil, is sent as JSON; out, when non-nil,
// receives the decoded JSON response. extra headers are added verbatim.
func (c *Client) call(ctx context.Context, op, method, path string, body any, out any, extra http.Header) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	log := c.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("backend request failed", zap.Error(err))
		return &Error{Op: op, Method: method, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("backend returned error status")
		var cause error
		if s := strings.TrimSpace(string(snippet)); s != "" {
			cause = fmt.Errorf("%s", s)
		}
		return &Error{Op: op, Method: method, Status: resp.StatusCode, Kind: ErrStatus, Err: cause}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Warn("backend response not decodable", zap.Error(err))
			return &Error{Op: op, Method: method, Status: resp.StatusCode, Kind: ErrMalformed, Err: err}
		}
	}
	log.Debug("backend request done")
	return nil
}

// malformed wraps a schema violation found after decoding.
func malformed(op, method string, status int, err error) error {
	return &Error{Op: op, Method: method, Status: status, Kind: ErrMalformed, Err: err}
}
