// Package backend talks to the URL-shortening backend over HTTP with JSON bodies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"short-url-client/cache"
	"short-url-client/config"
	"short-url-client/model"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// Client is the HTTP client for the backend collaborator
type Client struct {
	baseURL    string
	httpClient *http.Client
	unknown    *cache.Cache
}

// NewClient creates a backend client.
// unknown may be nil, in which case every lookup reaches the backend.
func NewClient(cfg config.BackendConfig, unknown *cache.Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		unknown: unknown,
	}
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Shorten handles POST /shorten
func (c *Client) Shorten(ctx context.Context, longURL string) (*model.ShortenResponse, error) {
	body, err := json.Marshal(model.ShortenRequest{URL: longURL})
	if err != nil {
		return nil, &TransportError{Op: "shorten", Err: err}
	}

	var out model.ShortenResponse
	if err := c.do(ctx, "shorten", http.MethodPost, "/shorten", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	// The code exists now, whatever an earlier lookup said
	c.unknown.Forget(out.ShortCode)
	return &out, nil
}

// Links handles GET /api/urls
func (c *Client) Links(ctx context.Context) ([]model.LinkRecord, error) {
	var out []model.LinkRecord
	if err := c.do(ctx, "links", http.MethodGet, "/api/urls", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analytics handles GET /api/analytics
func (c *Client) Analytics(ctx context.Context) ([]model.AnalyticsPoint, error) {
	var out []model.AnalyticsPoint
	if err := c.do(ctx, "analytics", http.MethodGet, "/api/analytics", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup handles GET /{code}.
// A 2xx answer without a location is returned as-is; callers decide what that means.
// Every lookup reaches the backend. The unknown-code cache only answers when the backend
// cannot be reached and recently said it does not know code.
func (c *Client) Lookup(ctx context.Context, code string) (*model.LookupResponse, error) {
	var out model.LookupResponse
	err := c.do(ctx, "lookup", http.MethodGet, "/"+url.PathEscape(code), nil, &out)
	switch {
	case err == nil:
		c.unknown.Forget(code)
		return &out, nil
	case IsUnknownCode(err):
		c.unknown.RememberUnknown(code, Detail(err))
	case IsTransport(err):
		if detail, found := c.unknown.Unknown(code); found {
			log.Debug().Err(err).Str("short_code", code).Msg("Backend unreachable, answering from unknown-code cache")
			return nil, &RejectionError{Op: "lookup", StatusCode: http.StatusNotFound, Detail: detail, Cached: true}
		}
	}
	return nil, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		_ = json.Unmarshal(data, &payload)
		return &RejectionError{Op: op, StatusCode: resp.StatusCode, Detail: detailText(payload.Detail)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode %s response: %w", op, err)}
	}
	return nil
}

// detailText flattens a FastAPI-style detail field, which is a string or a list of validation errors
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(raw)
}
