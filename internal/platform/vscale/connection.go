// Package vscale is the HTTP connection shared by the Vscale compute, SSH key
// and DNS providers. It injects the X-Token header, encodes request bodies,
// and classifies every error response into the domain error taxonomy.
package vscale

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Vscale API endpoint.
	DefaultBaseURL = "https://api.vscale.io"

	// TokenStoreKey is the name under which the API token is kept in the
	// credential store.
	TokenStoreKey = "vscale"

	defaultTimeout = 30 * time.Second
)

// Connection performs authenticated requests against the Vscale API.
// It holds no per-call state and is safe for concurrent use.
type Connection struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	limiter *rate.Limiter
	metrics *Metrics
}

// Option configures a Connection.
type Option func(*Connection)

// WithBaseURL points the connection at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Connection) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connection) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Connection) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Connection) {
		c.metrics = m
	}
}

// NewConnection returns a Connection authenticating with token.
func NewConnection(token string, opts ...Option) *Connection {
	c := &Connection{
		token:   token,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("provider", "vscale")
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Connection) BaseURL() string {
	return c.baseURL
}

// Response is a successful (non-error) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into out. JSON numbers decode to
// float64 when out holds untyped values.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("vscale: failed to decode response: %w", err)
	}
	return nil
}

// NoContent reports whether the API answered 204 No Content.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent
}

// Request sends method to path with body encoded as JSON (nil for no body).
// Error statuses are returned as a classified *domain.ProviderError.
func (c *Connection) Request(ctx context.Context, method, path string, body any) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("vscale: rate limiter: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("vscale: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("vscale: failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Token", c.token)
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.observe(method, "error", time.Since(start))
		c.logger.DebugContext(ctx, "request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("vscale: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.observe(method, strconv.Itoa(resp.StatusCode), elapsed)
	if err != nil {
		return nil, fmt.Errorf("vscale: failed to read response: %w", err)
	}

	c.logger.DebugContext(ctx, "request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", elapsed,
		"request_id", requestID,
	)

	if err := Classify(resp.StatusCode, resp.Header, data); err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
