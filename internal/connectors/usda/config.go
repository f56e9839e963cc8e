package usda

import "strings"

// DefaultBaseURL is the FoodData Central API host.
const DefaultBaseURL = "https://api.nal.usda.gov"

// DefaultPageSize is the number of foods requested per search.
const DefaultPageSize = 25

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIKey  = "USDA_API_KEY"
	EnvBaseURL = "USDA_BASE_URL"
)

// Config holds the USDA connector settings.
type Config struct {
	APIKey   string
	BaseURL  string
	PageSize int
}

// ConfigFromEnv builds a Config from environment lookups.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		APIKey:   strings.TrimSpace(getenv(EnvAPIKey)),
		BaseURL:  strings.TrimSpace(getenv(EnvBaseURL)),
		PageSize: DefaultPageSize,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}
