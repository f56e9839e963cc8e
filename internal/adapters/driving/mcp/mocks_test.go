package mcp

import (
	"context"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driving"
)

// mockFoodService is a mock implementation of driving.FoodSearchService.
type mockFoodService struct {
	result      *domain.SearchResult
	err         error
	lastQuery   string
	lastBarcode string
}

var _ driving.FoodSearchService = (*mockFoodService)(nil)

func (m *mockFoodService) Search(_ context.Context, query string) (*domain.SearchResult, error) {
	m.lastQuery = query
	return m.resultOrEmpty(), m.err
}

func (m *mockFoodService) SearchByBarcode(_ context.Context, barcode string) (*domain.SearchResult, error) {
	m.lastBarcode = barcode
	return m.resultOrEmpty(), m.err
}

func (m *mockFoodService) PersistFood(_ context.Context, food domain.Food) (*domain.Food, error) {
	return &food, m.err
}

func (m *mockFoodService) resultOrEmpty() *domain.SearchResult {
	if m.err != nil {
		return nil
	}
	if m.result == nil {
		return &domain.SearchResult{Foods: []domain.Food{}}
	}
	return m.result
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func sampleResult() *domain.SearchResult {
	id := int64(7)
	return &domain.SearchResult{
		Foods: []domain.Food{
			{
				LocalID:            &id,
				Source:             domain.SourceUSDA,
				SourceID:           "171688",
				Name:               "Apples, raw, with skin",
				ServingQty:         domain.Float(100),
				ServingUnit:        "g",
				ServingWeightGrams: domain.Float(100),
				Calories:           52,
				Protein:            0.26,
				Carbs:              13.81,
				Fat:                0.17,
				Fiber:              domain.Float(2.4),
			},
			{
				Source:   domain.SourceOpenFoodFacts,
				SourceID: "3017620422003",
				Name:     "Nutella",
				Calories: 539,
				Barcode:  "3017620422003",
				Photo:    &domain.Photo{Thumb: "https://img/thumb.jpg"},
			},
		},
		Sources: []domain.SourceStatus{
			{Name: domain.SourceDatabase, Status: domain.StatusSuccess},
			{Name: domain.SourceUSDA, Status: domain.StatusSuccess, Count: 1, DurationMs: 120},
			{Name: domain.SourceFatSecret, Status: domain.StatusTimeout, DurationMs: 3000, Error: "food source timed out"},
		},
	}
}
