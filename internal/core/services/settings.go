package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceTimeoutMs = "search.source_timeout_ms"
	keyRetryDelayMs    = "search.retry_delay_ms"
	keyMaxResults      = "search.max_results"
	keyCacheBackend    = "cache.backend"
	keyCacheCapacity   = "cache.capacity"
	keyCacheTTLMinutes = "cache.ttl_minutes"
	keyRedisAddr       = "cache.redis_addr"
	keyRedisPassword   = "cache.redis_password"
	keyRedisDB         = "cache.redis_db"
	keySourcesMock     = "sources.mock"
	keyStorageDataDir  = "storage.data_dir"
)

// EnvMockSources forces mock-source mode when set to a true value.
const EnvMockSources = "NUTRISEARCH_MOCK_SOURCES"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Used by tests.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			SourceTimeout: s.getMillis(keySourceTimeoutMs, defaults.Search.SourceTimeout),
			RetryDelay:    s.getMillis(keyRetryDelayMs, defaults.Search.RetryDelay),
			MaxResults:    s.getInt(keyMaxResults, defaults.Search.MaxResults),
		},
		Cache: domain.CacheSettings{
			Backend:       s.getCacheBackend(defaults.Cache.Backend),
			Capacity:      s.getInt(keyCacheCapacity, defaults.Cache.Capacity),
			TTL:           time.Duration(s.getInt(keyCacheTTLMinutes, int(defaults.Cache.TTL/time.Minute))) * time.Minute,
			RedisAddr:     s.configStore.GetString(keyRedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
		},
		Sources: domain.SourceSettings{
			Mock: s.getBool(keySourcesMock, defaults.Sources.Mock),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}

	if raw, ok := s.lookupEnv(EnvMockSources); ok {
		if mock, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			settings.Sources.Mock = mock
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keySourceTimeoutMs, settings.Search.SourceTimeout.Milliseconds()},
		{keyRetryDelayMs, settings.Search.RetryDelay.Milliseconds()},
		{keyMaxResults, settings.Search.MaxResults},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheCapacity, settings.Cache.Capacity},
		{keyCacheTTLMinutes, int64(settings.Cache.TTL / time.Minute)},
		{keyRedisAddr, settings.Cache.RedisAddr},
		{keyRedisDB, settings.Cache.RedisDB},
		{keySourcesMock, settings.Sources.Mock},
		{keyStorageDataDir, settings.Storage.DataDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Cache.RedisPassword != "" {
		if err := s.configStore.Set(keyRedisPassword, settings.Cache.RedisPassword); err != nil {
			return fmt.Errorf("save %s: %w", keyRedisPassword, err)
		}
	}

	return nil
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if raw := s.configStore.GetString(keyCacheBackend); raw != "" && !domain.CacheBackend(raw).IsValid() {
		return fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, raw)
	}
	if settings.Search.SourceTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keySourceTimeoutMs)
	}
	if settings.Search.RetryDelay >= settings.Search.SourceTimeout {
		return fmt.Errorf("%w: %s must be shorter than %s",
			domain.ErrInvalidInput, keyRetryDelayMs, keySourceTimeoutMs)
	}
	if settings.Search.MaxResults <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, keyMaxResults)
	}
	if settings.Cache.Backend == domain.CacheBackendRedis && settings.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: cache backend %q requires %s",
			domain.ErrInvalidInput, domain.CacheBackendRedis, keyRedisAddr)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Millisecond
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
