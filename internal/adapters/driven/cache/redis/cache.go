// Package redis provides a driven.ResultCache shared across processes.
//
// Entries are JSON-encoded food lists stored with SET ... EX so Redis
// enforces the TTL. Capacity pressure is left to the server's maxmemory
// eviction policy; allkeys-lru matches the in-process cache semantics.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// DefaultPrefix namespaces every key written by nutrisearch.
const DefaultPrefix = "nutrisearch:"

// opTimeout bounds every round trip so a slow server degrades to a miss.
const opTimeout = 250 * time.Millisecond

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// ResultCache stores aggregated results in Redis.
type ResultCache struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewResultCache connects to Redis. The connection is lazy; use Ping to
// verify reachability.
func NewResultCache(cfg Config) *ResultCache {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewResultCacheWithClient(client, cfg.TTL, cfg.Prefix)
}

// NewResultCacheWithClient wraps an existing client.
func NewResultCacheWithClient(client *goredis.Client, ttl time.Duration, prefix string) *ResultCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ResultCache{client: client, ttl: ttl, prefix: prefix}
}

// Ping checks the server is reachable.
func (r *ResultCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the cached foods. Any Redis failure is logged and reported
// as a miss.
func (r *ResultCache) Get(ctx context.Context, key string) ([]domain.Food, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warn("redis cache get %q: %v", key, err)
		}
		return nil, false
	}

	var foods []domain.Food
	if err := json.Unmarshal(data, &foods); err != nil {
		logger.Warn("redis cache decode %q: %v", key, err)
		return nil, false
	}
	return foods, true
}

// Set replaces the entry and resets its TTL. Failures are logged.
func (r *ResultCache) Set(ctx context.Context, key string, foods []domain.Food) {
	if foods == nil {
		foods = []domain.Food{}
	}
	data, err := json.Marshal(foods)
	if err != nil {
		logger.Warn("redis cache encode %q: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		logger.Warn("redis cache set %q: %v", key, err)
	}
}

// Close releases the connection pool.
func (r *ResultCache) Close() error {
	return r.client.Close()
}

func (r *ResultCache) key(k string) string {
	return r.prefix + k
}
