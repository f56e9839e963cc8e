package driven

import (
	"context"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// ResultCache holds aggregated results keyed by normalised query or barcode.
// Entries expire after a fixed TTL and are never mutated in place.
type ResultCache interface {
	// Get returns the cached foods and true on a fresh hit.
	Get(ctx context.Context, key string) ([]domain.Food, bool)

	// Set replaces the entry for key and refreshes its expiry.
	Set(ctx context.Context, key string, foods []domain.Food)
}
