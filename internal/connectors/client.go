package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// UserAgent is sent with every provider request.
const UserAgent = "nutrisearch/1.0 (+https://github.com/custodia-labs/nutrisearch)"

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client issues rate-limited JSON GET requests for one provider.
type Client struct {
	provider   string
	httpClient *http.Client
	limiter    *RateLimiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRateLimiter replaces the provider's default limiter. nil disables limiting.
func WithRateLimiter(l *RateLimiter) ClientOption {
	return func(cl *Client) { cl.limiter = l }
}

// NewClient creates a client for the named provider.
func NewClient(provider string, opts ...ClientOption) *Client {
	c := &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    NewRateLimiter(provider),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name used in errors.
func (c *Client) Provider() string {
	return c.provider
}

// GetJSON fetches url and decodes the JSON body into out. Numbers are
// decoded as json.Number when out holds interface{} values.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limiter: %w", c.provider, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        req.URL.Redacted(),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			statusErr.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
			if c.limiter != nil {
				c.limiter.RecordRateLimitError(statusErr.RetryAfter)
			}
		}
		return statusErr
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// ParseRetryAfter reads a Retry-After header given either as seconds or as
// an HTTP date. Unparseable or past values return 0.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
