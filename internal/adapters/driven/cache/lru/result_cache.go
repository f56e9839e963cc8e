package lru

import (
	"context"
	"time"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// ResultCache adapts Cache to driven.ResultCache.
type ResultCache struct {
	cache *Cache[string, []domain.Food]
}

// NewResultCache creates an in-process result cache.
func NewResultCache(capacity int, ttl time.Duration, opts ...Option[string, []domain.Food]) *ResultCache {
	return &ResultCache{cache: New[string, []domain.Food](capacity, ttl, opts...)}
}

// Get returns a deep copy of the cached foods.
func (r *ResultCache) Get(_ context.Context, key string) ([]domain.Food, bool) {
	foods, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	return cloneFoods(foods), true
}

// Set stores a deep copy of foods so later caller mutations cannot leak in.
func (r *ResultCache) Set(_ context.Context, key string, foods []domain.Food) {
	r.cache.Set(key, cloneFoods(foods))
}

// Delete evicts key.
func (r *ResultCache) Delete(key string) {
	r.cache.Delete(key)
}

// Len returns the number of cached entries.
func (r *ResultCache) Len() int {
	return r.cache.Len()
}

func cloneFoods(foods []domain.Food) []domain.Food {
	if foods == nil {
		return nil
	}
	out := make([]domain.Food, len(foods))
	for i, f := range foods {
		out[i] = f.Clone()
	}
	return out
}
