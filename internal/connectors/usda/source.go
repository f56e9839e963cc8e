package usda

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/nutrisearch/internal/connectors"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.FoodSource = (*Source)(nil)

// FoodData Central nutrient ids.
const (
	nutrientEnergy       = 1008
	nutrientEnergyAtwGen = 2047
	nutrientEnergyAtwSpc = 2048
	nutrientProtein      = 1003
	nutrientCarbs        = 1005
	nutrientFat          = 1004
	nutrientFiber        = 1079
	nutrientSugar        = 2000
	nutrientSodium       = 1093
)

// Source searches FoodData Central.
type Source struct {
	cfg    Config
	client *connectors.Client
}

// New creates a USDA source.
func New(cfg Config, opts ...connectors.ClientOption) *Source {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Source{
		cfg:    cfg,
		client: connectors.NewClient(string(domain.SourceUSDA), opts...),
	}
}

// Name returns the source tag.
func (s *Source) Name() domain.SourceTag {
	return domain.SourceUSDA
}

// IsConfigured returns true if an API key is present.
func (s *Source) IsConfigured() bool {
	return s.cfg.APIKey != ""
}

type searchResponse struct {
	Foods []fdcFood `json:"foods"`
}

type fdcFood struct {
	FdcID         any           `json:"fdcId"`
	Description   string        `json:"description"`
	DataType      string        `json:"dataType"`
	BrandName     string        `json:"brandName"`
	BrandOwner    string        `json:"brandOwner"`
	GtinUpc       string        `json:"gtinUpc"`
	FoodNutrients []fdcNutrient `json:"foodNutrients"`
}

type fdcNutrient struct {
	NutrientID any    `json:"nutrientId"`
	UnitName   string `json:"unitName"`
	Value      any    `json:"value"`
}

// Search queries /fdc/v1/foods/search.
func (s *Source) Search(ctx context.Context, query string) ([]domain.Food, error) {
	params := url.Values{}
	params.Set("api_key", s.cfg.APIKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(s.cfg.PageSize))

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/fdc/v1/foods/search?" + params.Encode()

	var resp searchResponse
	if err := s.client.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("usda search: %w", err)
	}

	foods := make([]domain.Food, 0, len(resp.Foods))
	for _, item := range resp.Foods {
		if food, ok := mapFood(item); ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

// mapFood converts a FoodData Central record. Records without id and name are dropped.
func mapFood(item fdcFood) (domain.Food, bool) {
	nutrients := make(map[int]any, len(item.FoodNutrients))
	full := make([]domain.Nutrient, 0, len(item.FoodNutrients))
	for _, n := range item.FoodNutrients {
		id, ok := domain.CoerceNumber(n.NutrientID)
		if !ok {
			continue
		}
		// Energy is reported in both kcal and kJ under different ids.
		if strings.EqualFold(n.UnitName, "kJ") {
			continue
		}
		nutrients[int(id)] = n.Value
		if v, ok := domain.CoerceNumber(n.Value); ok {
			full = append(full, domain.Nutrient{AttrID: int(id), Value: v})
		}
	}

	energy := nutrients[nutrientEnergy]
	if _, ok := domain.CoerceNumber(energy); !ok {
		energy = nutrients[nutrientEnergyAtwGen]
		if _, ok := domain.CoerceNumber(energy); !ok {
			energy = nutrients[nutrientEnergyAtwSpc]
		}
	}

	food := domain.Food{
		SourceID:           connectors.StringValue(item.FdcID),
		Source:             domain.SourceUSDA,
		Name:               strings.TrimSpace(item.Description),
		BrandName:          connectors.FirstNonEmpty(item.BrandName, item.BrandOwner),
		ServingQty:         domain.Float(100),
		ServingUnit:        "g",
		ServingWeightGrams: domain.Float(100),
		Calories:           domain.RequiredNumber(energy),
		Protein:            domain.RequiredNumber(nutrients[nutrientProtein]),
		Carbs:              domain.RequiredNumber(nutrients[nutrientCarbs]),
		Fat:                domain.RequiredNumber(nutrients[nutrientFat]),
		Fiber:              domain.OptionalNumber(nutrients[nutrientFiber]),
		Sugar:              domain.OptionalNumber(nutrients[nutrientSugar]),
		Sodium:             domain.OptionalNumber(nutrients[nutrientSodium]),
		Barcode:            strings.TrimSpace(item.GtinUpc),
		FullNutrients:      full,
	}
	if isRaw(item) {
		food.IsRaw = domain.Bool(true)
	}
	food.Sanitize()

	return food, food.Valid()
}

// isRaw marks whole foods from the reference datasets.
func isRaw(item fdcFood) bool {
	switch item.DataType {
	case "Foundation", "SR Legacy":
		return strings.Contains(strings.ToLower(item.Description), "raw")
	default:
		return false
	}
}
