package driving

import (
	"context"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// FoodSearchService provides food search capabilities to external actors.
type FoodSearchService interface {
	// Search fans the query out to the local store and every configured
	// source, then merges, deduplicates and ranks the results.
	// Source failures are reported in the result, never returned as errors.
	Search(ctx context.Context, query string) (*domain.SearchResult, error)

	// SearchByBarcode resolves a product barcode, stopping at the first
	// source that knows it.
	SearchByBarcode(ctx context.Context, barcode string) (*domain.SearchResult, error)

	// PersistFood guarantees the food is in the Local Food Store and returns
	// it with its LocalID.
	PersistFood(ctx context.Context, food domain.Food) (*domain.Food, error)
}
