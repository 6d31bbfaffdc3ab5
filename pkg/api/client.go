// Package api is a typed client for the terrarium controller HTTP API. Every
// operation is a single request: no retries, no caching. Non-2xx responses
// surface as *Error.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BasePath is the versioned prefix every endpoint lives under.
const BasePath = "/api/v1"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client talks to one controller instance.
type Client struct {
	http *resty.Client
	log  *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the controller reachable at baseURL, e.g.
// "http://terrarium.local:8080". BasePath is appended unless baseURL
// already ends with it.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, BasePath) {
		base += BasePath
	}

	c := &Client{
		http: resty.New().SetBaseURL(base).SetTimeout(DefaultTimeout),
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.
		SetHeader("Accept", "application/json").
		SetLogger(c.log).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})

	return c
}

// BaseURL returns the resolved endpoint prefix.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// do executes a request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, prep func(*resty.Request), out any) error {
	req := c.http.R().SetContext(ctx)
	if prep != nil {
		prep(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}

	c.log.Debugw("api_request",
		"method", method,
		"path", path,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	if resp.IsError() {
		return newError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("api: %s %s: decode response: %w", method, path, err)
	}

	return nil
}

func timeParam(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
