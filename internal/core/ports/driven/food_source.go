package driven

import (
	"context"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// FoodSource wraps one external nutrition data provider.
// Each provider (usda, openfoodfacts, nutritionix, fatsecret) implements this
// interface and maps its native payload into domain.Food.
type FoodSource interface {
	// Name returns the source tag the records are produced under.
	Name() domain.SourceTag

	// IsConfigured reports whether the provider has the credentials it needs.
	// It must be cheap, synchronous and free of side effects. A false result
	// means "skip this source", never an error.
	IsConfigured() bool

	// Search queries the provider and returns canonical records.
	// Records missing both an id and a name are dropped by the adapter.
	Search(ctx context.Context, query string) ([]domain.Food, error)
}

// BarcodeSource is implemented by providers that can resolve product barcodes.
type BarcodeSource interface {
	FoodSource

	// LookupBarcode returns the matching record, or nil with no error when the
	// provider has no match.
	LookupBarcode(ctx context.Context, barcode string) (*domain.Food, error)
}
