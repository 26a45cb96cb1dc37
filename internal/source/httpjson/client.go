// Package httpjson fetches floor records from static JSON resources over HTTP.
package httpjson

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/source"
)

// CollectionPlaceholder is replaced by the collection slug in the URL pattern.
const CollectionPlaceholder = "{collection}"

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Client implements source.Source by GETting a JSON array per collection.
type Client struct {
	urlPattern  string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	logger      *zap.Logger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger used for retry messages.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for urlPattern, e.g.
// "https://example.com/floors/{collection}.json".
func NewClient(urlPattern string, opts ...ClientOption) *Client {
	c := &Client{
		urlPattern:  urlPattern,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements source.Source.
func (c *Client) Name() string {
	return "http"
}

// URL returns the resource URL for collection.
func (c *Client) URL(collection string) string {
	return strings.ReplaceAll(c.urlPattern, CollectionPlaceholder, url.PathEscape(collection))
}

// Fetch retrieves and decodes the records for collection, retrying transient
// failures with exponential backoff. A 404 is not retried.
func (c *Client) Fetch(ctx context.Context, collection string) ([]domain.FloorRecord, error) {
	target := c.URL(collection)
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	records, err := source.DecodeRecords(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, source.ErrEmpty
	}
	return records, nil
}

// get performs a GET with retries and exponential backoff.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying floor fetch",
				zap.String("url", target),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", source.ErrNotFound, target)
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		default:
			// Other client errors will not improve on retry
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

var _ source.Source = (*Client)(nil)
