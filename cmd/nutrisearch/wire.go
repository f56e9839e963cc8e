package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/oauth"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/nutrisearch/internal/connectors/fatsecret"
	"github.com/custodia-labs/nutrisearch/internal/connectors/mock"
	"github.com/custodia-labs/nutrisearch/internal/connectors/nutritionix"
	"github.com/custodia-labs/nutrisearch/internal/connectors/openfoodfacts"
	"github.com/custodia-labs/nutrisearch/internal/connectors/usda"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
	"github.com/custodia-labs/nutrisearch/internal/core/services"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

// inMemoryDataDir selects the in-memory food store.
const inMemoryDataDir = ":memory:"

// redisPingTimeout bounds the startup reachability check.
const redisPingTimeout = time.Second

// environ abstracts process environment access.
type environ struct {
	getenv func(string) string
	lookup func(string) (string, bool)
}

// buildServices is the composition root: settings, storage, cache and
// sources are assembled into the driving services.
func buildServices(ctx context.Context, opts cli.Options, env environ) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore).WithEnv(env.lookup)

	if err := settingsService.Validate(); err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.Mock {
		settings.Sources.Mock = true
	}

	var closers []func() error

	store, closeStore, err := openFoodStore(settings)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	cache, closeCache := openResultCache(ctx, settings.Cache)
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	sources := buildSources(settings.Sources, env.getenv)
	logger.Debug("sources: %d, cache: %s, mock: %v", len(sources), settings.Cache.Backend, settings.Sources.Mock)

	return &cli.Services{
		Foods:    services.NewFoodSearchService(store, cache, sources, settings.Search),
		Settings: settingsService,
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}

// openFoodStore opens the SQLite store unless mock mode or the in-memory
// data directory is selected.
func openFoodStore(settings *domain.AppSettings) (driven.FoodStore, func() error, error) {
	if settings.Sources.Mock || settings.Storage.DataDir == inMemoryDataDir {
		return memory.NewFoodStore(), nil, nil
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening food store: %w", err)
	}
	logger.Debug("food store: %s", store.Path())
	return store.FoodStore(), store.Close, nil
}

// openResultCache returns the configured cache. An unreachable Redis falls
// back to the in-process cache.
func openResultCache(ctx context.Context, cfg domain.CacheSettings) (driven.ResultCache, func() error) {
	if cfg.Backend == domain.CacheBackendRedis {
		cache := redis.NewResultCache(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		err := cache.Ping(pingCtx)
		if err == nil {
			return cache, cache.Close
		}
		logger.Warn("redis cache unavailable, using in-memory cache: %v", err)
		cache.Close() //nolint:errcheck
	}
	return lru.NewResultCache(cfg.Capacity, cfg.TTL), nil
}

// buildSources returns the sources in text-search priority order.
func buildSources(cfg domain.SourceSettings, getenv func(string) string) []driven.FoodSource {
	if cfg.Mock {
		return mock.Fixtures()
	}

	fs := fatsecret.ConfigFromEnv(getenv)
	tokens := oauth.NewTokenCache(oauth.ClientCredentials{
		TokenURL:     fs.TokenURL,
		ClientID:     fs.ClientID,
		ClientSecret: fs.ClientSecret,
		Scopes:       fs.Scopes,
	})

	return []driven.FoodSource{
		usda.New(usda.ConfigFromEnv(getenv)),
		fatsecret.New(fs, tokens),
		nutritionix.New(nutritionix.ConfigFromEnv(getenv)),
		openfoodfacts.New(openfoodfacts.ConfigFromEnv(getenv)),
	}
}
