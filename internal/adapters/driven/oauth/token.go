// Package oauth provides a process-wide OAuth client-credentials token cache
// for token-based food providers.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// DefaultRefreshBuffer is how long before expiry a cached token is replaced.
const DefaultRefreshBuffer = 60 * time.Second

// Ensure TokenCache implements the interface.
var _ driven.TokenProvider = (*TokenCache)(nil)

// ClientCredentials identifies an OAuth client-credentials grant.
type ClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// TokenCache fetches bearer tokens with the client-credentials grant and
// keeps the current one until shortly before it expires.
type TokenCache struct {
	mu            sync.Mutex
	cfg           clientcredentials.Config
	token         *oauth2.Token
	httpClient    *http.Client
	now           func() time.Time
	refreshBuffer time.Duration
	fetches       int
}

// Option configures a TokenCache.
type Option func(*TokenCache)

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(c *http.Client) Option {
	return func(t *TokenCache) { t.httpClient = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *TokenCache) { t.now = now }
}

// WithRefreshBuffer overrides DefaultRefreshBuffer.
func WithRefreshBuffer(d time.Duration) Option {
	return func(t *TokenCache) { t.refreshBuffer = d }
}

// NewTokenCache creates a token cache for the given credentials.
func NewTokenCache(creds ClientCredentials, opts ...Option) *TokenCache {
	t := &TokenCache{
		cfg: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			Scopes:       creds.Scopes,
		},
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		now:           time.Now,
		refreshBuffer: DefaultRefreshBuffer,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsConfigured returns true if client id, secret and token URL are all set.
func (t *TokenCache) IsConfigured() bool {
	return t.cfg.ClientID != "" && t.cfg.ClientSecret != "" && t.cfg.TokenURL != ""
}

// GetToken returns the cached access token, fetching a new one when none is
// cached or the cached one expires within the refresh buffer.
// Concurrent callers share a single fetch.
func (t *TokenCache) GetToken(ctx context.Context) (string, error) {
	if !t.IsConfigured() {
		return "", fmt.Errorf("%w: client credentials not configured", domain.ErrSourceUnavailable)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fresh() {
		return t.token.AccessToken, nil
	}

	if t.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	}
	tok, err := t.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	t.fetches++
	t.token = tok
	return tok.AccessToken, nil
}

// Invalidate drops the cached token.
func (t *TokenCache) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = nil
}

// Fetches returns how many tokens have been fetched from the token endpoint.
func (t *TokenCache) Fetches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetches
}

// fresh reports whether the cached token can be used (caller must hold lock).
// A token without an expiry never goes stale.
func (t *TokenCache) fresh() bool {
	if t.token == nil || t.token.AccessToken == "" {
		return false
	}
	if t.token.Expiry.IsZero() {
		return true
	}
	return t.now().Add(t.refreshBuffer).Before(t.token.Expiry)
}
