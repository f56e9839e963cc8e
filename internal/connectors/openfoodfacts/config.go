package openfoodfacts

import (
	"strconv"
	"strings"
)

// DefaultBaseURL is the Open Food Facts world host.
const DefaultBaseURL = "https://world.openfoodfacts.org"

// DefaultPageSize is the number of products requested per search.
const DefaultPageSize = 25

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL  = "OPENFOODFACTS_BASE_URL"
	EnvDisabled = "OPENFOODFACTS_DISABLED"
)

// Config holds the Open Food Facts connector settings.
type Config struct {
	BaseURL  string
	PageSize int
	Disabled bool
}

// ConfigFromEnv builds a Config from environment lookups.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		BaseURL:  strings.TrimSpace(getenv(EnvBaseURL)),
		PageSize: DefaultPageSize,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if disabled, err := strconv.ParseBool(strings.TrimSpace(getenv(EnvDisabled))); err == nil {
		cfg.Disabled = disabled
	}
	return cfg
}
