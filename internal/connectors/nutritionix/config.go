package nutritionix

import "strings"

// DefaultBaseURL is the Nutritionix API host.
const DefaultBaseURL = "https://trackapi.nutritionix.com"

// Environment variables read by ConfigFromEnv.
const (
	EnvAppID   = "NUTRITIONIX_APP_ID"
	EnvAppKey  = "NUTRITIONIX_APP_KEY"
	EnvBaseURL = "NUTRITIONIX_BASE_URL"
)

// Config holds the Nutritionix connector settings.
type Config struct {
	AppID   string
	AppKey  string
	BaseURL string
}

// ConfigFromEnv builds a Config from environment lookups.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		AppID:   strings.TrimSpace(getenv(EnvAppID)),
		AppKey:  strings.TrimSpace(getenv(EnvAppKey)),
		BaseURL: strings.TrimSpace(getenv(EnvBaseURL)),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}
