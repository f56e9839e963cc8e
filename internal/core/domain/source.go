package domain

// SourceTag identifies where a food record came from.
type SourceTag string

// Known food sources.
const (
	// SourceUSDA is the USDA FoodData Central government database.
	SourceUSDA SourceTag = "usda"

	// SourceFatSecret is the FatSecret commercial database.
	SourceFatSecret SourceTag = "fatsecret"

	// SourceNutritionix is the Nutritionix commercial database.
	SourceNutritionix SourceTag = "nutritionix"

	// SourceOpenFoodFacts is the crowd-sourced Open Food Facts database.
	SourceOpenFoodFacts SourceTag = "openfoodfacts"

	// SourceDatabase marks records that come from the Local Food Store.
	SourceDatabase SourceTag = "database"

	// SourceCache is the pseudo-source reported for cache hits.
	SourceCache SourceTag = "cache"
)

// unknownPriority sorts unrecognised tags after every known source.
const unknownPriority = 99

// searchPriority is the fixed total order used to rank text search results.
// Curated external sources come before organically grown local entries.
var searchPriority = map[SourceTag]int{
	SourceUSDA:          1,
	SourceFatSecret:     2,
	SourceNutritionix:   3,
	SourceOpenFoodFacts: 4,
	SourceDatabase:      5,
}

// barcodeOrder lists barcode-capable sources, UPC-indexed providers first.
var barcodeOrder = []SourceTag{
	SourceOpenFoodFacts,
	SourceNutritionix,
	SourceFatSecret,
}

// Priority returns the text search rank of the tag. Lower ranks first.
func (t SourceTag) Priority() int {
	if p, ok := searchPriority[t]; ok {
		return p
	}
	return unknownPriority
}

// BarcodePriority returns the barcode lookup rank of the tag.
// Sources without barcode coverage rank after all barcode providers.
func (t SourceTag) BarcodePriority() int {
	for i, tag := range barcodeOrder {
		if tag == t {
			return i
		}
	}
	return len(barcodeOrder) + t.Priority()
}

// IsKnown returns true if the tag is one of the recognised sources.
func (t SourceTag) IsKnown() bool {
	_, ok := searchPriority[t]
	return ok
}

// String returns the string representation.
func (t SourceTag) String() string {
	return string(t)
}

// Description returns a human-readable name for the source.
func (t SourceTag) Description() string {
	switch t {
	case SourceUSDA:
		return "USDA FoodData Central"
	case SourceFatSecret:
		return "FatSecret"
	case SourceNutritionix:
		return "Nutritionix"
	case SourceOpenFoodFacts:
		return "Open Food Facts"
	case SourceDatabase:
		return "Local database"
	case SourceCache:
		return "Result cache"
	default:
		return "Unknown"
	}
}
