package mock

import (
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Fixture barcodes answered in mock-source mode.
const (
	BarcodeCheerios = "0016000275123"
	BarcodeNutella  = "3017620422003"
	BarcodeOatly    = "7394376616037"
)

func fixture(source domain.SourceTag, id, name, brand string, kcal, protein, carbs, fat float64) domain.Food {
	return domain.Food{
		SourceID:           id,
		Source:             source,
		Name:               name,
		BrandName:          brand,
		ServingQty:         domain.Float(100),
		ServingUnit:        "g",
		ServingWeightGrams: domain.Float(100),
		Calories:           kcal,
		Protein:            protein,
		Carbs:              carbs,
		Fat:                fat,
	}
}

// Fixtures returns the mock-source adapter set in text-search order.
// Every call returns fresh sources with zeroed call counters.
func Fixtures() []driven.FoodSource {
	usda := New(domain.SourceUSDA, WithFoods(
		withRaw(fixture(domain.SourceUSDA, "171688", "Apples, raw, with skin", "", 52, 0.26, 13.81, 0.17)),
		withRaw(fixture(domain.SourceUSDA, "173944", "Bananas, raw", "", 89, 1.09, 22.84, 0.33)),
		fixture(domain.SourceUSDA, "173904", "Oats", "", 389, 16.89, 66.27, 6.9),
		withRaw(fixture(domain.SourceUSDA, "171077", "Chicken, broiler, breast, meat only, raw", "", 120, 22.5, 0, 2.62)),
		fixture(domain.SourceUSDA, "171284", "Milk, whole, 3.25% milkfat", "", 61, 3.15, 4.8, 3.25),
	))

	fatsecret := NewBarcode(domain.SourceFatSecret,
		WithFoods(
			fixture(domain.SourceFatSecret, "33691", "Apple", "", 52, 0.26, 13.81, 0.17),
			fixture(domain.SourceFatSecret, "4881224", "Apple Juice", "Mott's", 46, 0, 11.3, 0),
			fixture(domain.SourceFatSecret, "1641", "Peanut Butter", "Jif", 588, 25, 20, 50),
		),
		WithBarcode(BarcodeCheerios, fixture(domain.SourceFatSecret, "4336", "Cheerios", "General Mills", 357, 12, 73, 6.4)),
	)

	nutritionix := NewBarcode(domain.SourceNutritionix,
		WithFoods(
			fixture(domain.SourceNutritionix, "384", "apple", "", 52, 0.26, 13.81, 0.17),
			fixture(domain.SourceNutritionix, "5c0f3bd2", "Greek Yogurt, Plain", "Fage", 97, 9, 3.9, 5),
		),
		WithBarcode(BarcodeCheerios, fixture(domain.SourceNutritionix, "51c3a8a197c3e69de4b0a3b9", "Cheerios", "General Mills", 357, 12, 73, 6.4)),
	)

	off := NewBarcode(domain.SourceOpenFoodFacts,
		WithFoods(
			withBarcode(fixture(domain.SourceOpenFoodFacts, BarcodeNutella, "Nutella", "Ferrero", 539, 6.3, 57.5, 30.9)),
			withBarcode(fixture(domain.SourceOpenFoodFacts, BarcodeOatly, "Oat Drink", "Oatly", 46, 1, 6.7, 1.5)),
		),
		WithBarcode(BarcodeNutella, withBarcode(fixture(domain.SourceOpenFoodFacts, BarcodeNutella, "Nutella", "Ferrero", 539, 6.3, 57.5, 30.9))),
		WithBarcode(BarcodeOatly, withBarcode(fixture(domain.SourceOpenFoodFacts, BarcodeOatly, "Oat Drink", "Oatly", 46, 1, 6.7, 1.5))),
	)

	return []driven.FoodSource{usda, fatsecret, nutritionix, off}
}

func withRaw(f domain.Food) domain.Food {
	f.IsRaw = domain.Bool(true)
	return f
}

func withBarcode(f domain.Food) domain.Food {
	f.Barcode = f.SourceID
	return f
}
