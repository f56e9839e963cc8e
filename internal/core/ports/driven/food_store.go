package driven

import (
	"context"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// FoodStore is the durable catalogue of previously seen and created foods.
// Every record returned carries its LocalID and photo fields.
type FoodStore interface {
	// FindMany returns foods whose name or brand contains pattern,
	// case-insensitively, up to limit records.
	FindMany(ctx context.Context, pattern string, limit int) ([]domain.Food, error)

	// FindBySource returns the food stored under the (source, sourceID) pair.
	// Returns domain.ErrNotFound if absent.
	FindBySource(ctx context.Context, source domain.SourceTag, sourceID string) (*domain.Food, error)

	// FindBySourceID returns any food whose origin id equals sourceID,
	// regardless of source. Used for barcode lookups.
	// Returns domain.ErrNotFound if absent.
	FindBySourceID(ctx context.Context, sourceID string) (*domain.Food, error)

	// FindByNameBrand returns the food whose name and brand match exactly,
	// ignoring case. An empty brand matches foods without a brand.
	// Returns domain.ErrNotFound if absent.
	FindByNameBrand(ctx context.Context, name, brand string) (*domain.Food, error)

	// Insert stores a food without a LocalID and returns it with one.
	// Inserting an existing (source, sourceID) pair returns the stored record.
	Insert(ctx context.Context, food domain.Food) (*domain.Food, error)
}
