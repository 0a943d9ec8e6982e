// Package storefront is the HTTP client for the game marketplace API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	storefrontports "github.com/Apurer/gamestore-client/internal/domains/storefront/ports"
)

const (
	// DefaultTimeout bounds a single API call when no http.Client is supplied.
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 8 << 20
	requestIDHeader  = "X-Request-ID"
)

// Client talks to the marketplace REST API. Every failure is returned as a
// *ports.Error classified by kind.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	propagator propagation.TextMapPropagator

	mu     sync.RWMutex
	bearer string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(userAgent)
	}
}

// WithPropagator overrides the trace context propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *Client) {
		if p != nil {
			c.propagator = p
		}
	}
}

// NewClient instantiates the client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("storefront base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storefront base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("storefront base URL must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("storefront base URL must include a host")
	}
	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "gamestore-client",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBearer configures the Authorization header for subsequent calls.
func (c *Client) SetBearer(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = strings.TrimSpace(token)
}

func (c *Client) currentBearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

// doJSON encodes payload (when non-nil) as JSON and performs the call.
func (c *Client) doJSON(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return storefrontports.SetupFailed(op, fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, op, method, path, body, contentType, out)
}

// send performs one request and classifies the outcome.
func (c *Client) send(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return storefrontports.SetupFailed(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if token := c.currentBearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	c.textMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return storefrontports.Unreachable(op, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return storefrontports.Unreachable(op, fmt.Errorf("read response body: %w", err))
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return rejected(op, res, data)
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return storefrontports.Rejected(op, res.StatusCode, storefrontports.MessageBadResponse, nil, errors.New("empty response body"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return storefrontports.Rejected(op, res.StatusCode, storefrontports.MessageBadResponse, rawPayload(data), err)
	}
	return nil
}

func (c *Client) textMapPropagator() propagation.TextMapPropagator {
	if c.propagator != nil {
		return c.propagator
	}
	return otel.GetTextMapPropagator()
}

var _ storefrontports.API = (*Client)(nil)
