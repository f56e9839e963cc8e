package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Ensure FoodStore implements the interface.
var _ driven.FoodStore = (*FoodStore)(nil)

type sourceKey struct {
	source   domain.SourceTag
	sourceID string
}

// FoodStore is an in-memory implementation of driven.FoodStore.
type FoodStore struct {
	mu       sync.RWMutex
	nextID   int64
	foods    map[int64]domain.Food
	bySource map[sourceKey]int64
}

// NewFoodStore creates a new in-memory food store.
func NewFoodStore() *FoodStore {
	return &FoodStore{
		foods:    make(map[int64]domain.Food),
		bySource: make(map[sourceKey]int64),
	}
}

// FindMany returns foods whose name or brand contains pattern, case-insensitively.
func (s *FoodStore) FindMany(_ context.Context, pattern string, limit int) ([]domain.Food, error) {
	if limit <= 0 {
		limit = 25
	}
	needle := strings.ToLower(pattern)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Food, 0)
	for _, food := range s.foods {
		if strings.Contains(strings.ToLower(food.Name), needle) ||
			strings.Contains(strings.ToLower(food.BrandName), needle) {
			result = append(result, food)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if a != b {
			return a < b
		}
		return *result[i].LocalID < *result[j].LocalID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindBySource retrieves a food by its origin identity.
func (s *FoodStore) FindBySource(_ context.Context, source domain.SourceTag, sourceID string) (*domain.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySource[sourceKey{source, sourceID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	food := s.foods[id]
	return &food, nil
}

// FindBySourceID retrieves the oldest food with the given origin id.
func (s *FoodStore) FindBySourceID(_ context.Context, sourceID string) (*domain.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oldest(func(f domain.Food) bool { return f.SourceID == sourceID })
}

// FindByNameBrand retrieves a food by exact, case-insensitive name and brand.
func (s *FoodStore) FindByNameBrand(_ context.Context, name, brand string) (*domain.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oldest(func(f domain.Food) bool {
		return strings.EqualFold(f.Name, name) && strings.EqualFold(f.BrandName, brand)
	})
}

// Insert stores a food. An existing (source, sourceID) pair is returned unchanged.
func (s *FoodStore) Insert(_ context.Context, food domain.Food) (*domain.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sourceKey{food.Source, food.SourceID}
	if id, ok := s.bySource[key]; ok {
		existing := s.foods[id]
		return &existing, nil
	}

	s.nextID++
	stored := food.WithLocalID(s.nextID)
	s.foods[s.nextID] = stored
	s.bySource[key] = s.nextID
	return &stored, nil
}

// Len returns the number of stored foods.
func (s *FoodStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.foods)
}

func (s *FoodStore) oldest(match func(domain.Food) bool) (*domain.Food, error) {
	var found *domain.Food
	for _, food := range s.foods {
		if !match(food) {
			continue
		}
		if found == nil || *food.LocalID < *found.LocalID {
			f := food
			found = &f
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}
