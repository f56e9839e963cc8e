package fatsecret

import "strings"

// Default endpoints.
const (
	DefaultBaseURL  = "https://platform.fatsecret.com/rest/server.api"
	DefaultTokenURL = "https://oauth.fatsecret.com/connect/token"
)

// DefaultMaxResults is the number of foods requested per search.
const DefaultMaxResults = 25

// Environment variables read by ConfigFromEnv.
//
//nolint:gosec // G101: These are environment variable names, not credentials.
const (
	EnvClientID     = "FATSECRET_CLIENT_ID"
	EnvClientSecret = "FATSECRET_CLIENT_SECRET"
	EnvScopes       = "FATSECRET_SCOPES"
	EnvBaseURL      = "FATSECRET_BASE_URL"
	EnvTokenURL     = "FATSECRET_TOKEN_URL"
)

// Config holds the FatSecret connector settings.
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	BaseURL      string
	TokenURL     string
	MaxResults   int
}

// ConfigFromEnv builds a Config from environment lookups.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		ClientID:     strings.TrimSpace(getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(getenv(EnvClientSecret)),
		Scopes:       strings.Fields(getenv(EnvScopes)),
		BaseURL:      strings.TrimSpace(getenv(EnvBaseURL)),
		TokenURL:     strings.TrimSpace(getenv(EnvTokenURL)),
		MaxResults:   DefaultMaxResults,
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"basic"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	return cfg
}
