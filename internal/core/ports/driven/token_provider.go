package driven

import "context"

// TokenProvider provides bearer tokens for OAuth-protected providers.
// Implementations cache the token process-wide and refresh it shortly
// before it expires.
type TokenProvider interface {
	// GetToken returns a valid access token, fetching a new one if the cached
	// token is missing or about to expire.
	GetToken(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next GetToken fetches a new one.
	// Called after the provider rejects a token with 401.
	Invalidate()

	// IsConfigured returns true if client credentials are present.
	IsConfigured() bool
}
