package nutritionix

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/nutrisearch/internal/connectors"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Ensure Source implements the interfaces.
var (
	_ driven.FoodSource    = (*Source)(nil)
	_ driven.BarcodeSource = (*Source)(nil)
)

// Nutritionix full_nutrients attribute ids.
const (
	attrCalories = 208
	attrProtein  = 203
	attrCarbs    = 205
	attrFat      = 204
	attrFiber    = 291
	attrSugar    = 269
	attrSodium   = 307
)

// Source searches Nutritionix.
type Source struct {
	cfg    Config
	client *connectors.Client
}

// New creates a Nutritionix source.
func New(cfg Config, opts ...connectors.ClientOption) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Source{
		cfg:    cfg,
		client: connectors.NewClient(string(domain.SourceNutritionix), opts...),
	}
}

// Name returns the source tag.
func (s *Source) Name() domain.SourceTag {
	return domain.SourceNutritionix
}

// IsConfigured returns true if both app id and key are present.
func (s *Source) IsConfigured() bool {
	return s.cfg.AppID != "" && s.cfg.AppKey != ""
}

type photo struct {
	Thumb   string `json:"thumb"`
	HighRes string `json:"highres"`
}

type nutrient struct {
	AttrID any `json:"attr_id"`
	Value  any `json:"value"`
}

type item struct {
	FoodName           string     `json:"food_name"`
	BrandName          string     `json:"brand_name"`
	NixItemID          any        `json:"nix_item_id"`
	TagID              any        `json:"tag_id"`
	ServingQty         any        `json:"serving_qty"`
	ServingUnit        string     `json:"serving_unit"`
	ServingWeightGrams any        `json:"serving_weight_grams"`
	Calories           any        `json:"nf_calories"`
	Protein            any        `json:"nf_protein"`
	Carbs              any        `json:"nf_total_carbohydrate"`
	Fat                any        `json:"nf_total_fat"`
	Fiber              any        `json:"nf_dietary_fiber"`
	Sugar              any        `json:"nf_sugars"`
	Sodium             any        `json:"nf_sodium"`
	UPC                any        `json:"upc"`
	Photo              *photo     `json:"photo"`
	FullNutrients      []nutrient `json:"full_nutrients"`
}

type instantResponse struct {
	Common  []item `json:"common"`
	Branded []item `json:"branded"`
}

type itemResponse struct {
	Foods []item `json:"foods"`
}

func (s *Source) header() http.Header {
	h := http.Header{}
	h.Set("x-app-id", s.cfg.AppID)
	h.Set("x-app-key", s.cfg.AppKey)
	return h
}

// Search queries /v2/search/instant for common and branded foods.
func (s *Source) Search(ctx context.Context, query string) ([]domain.Food, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("detailed", "true")
	params.Set("common", "true")
	params.Set("branded", "true")

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/v2/search/instant?" + params.Encode()

	var resp instantResponse
	if err := s.client.GetJSON(ctx, endpoint, s.header(), &resp); err != nil {
		return nil, fmt.Errorf("nutritionix search: %w", err)
	}

	foods := make([]domain.Food, 0, len(resp.Common)+len(resp.Branded))
	for _, it := range resp.Common {
		if food, ok := mapItem(it, true); ok {
			foods = append(foods, food)
		}
	}
	for _, it := range resp.Branded {
		if food, ok := mapItem(it, false); ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

// LookupBarcode queries /v2/search/item by UPC. Unknown codes return nil.
func (s *Source) LookupBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	params := url.Values{}
	params.Set("upc", barcode)
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/v2/search/item?" + params.Encode()

	var resp itemResponse
	if err := s.client.GetJSON(ctx, endpoint, s.header(), &resp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("nutritionix barcode: %w", err)
	}

	for _, it := range resp.Foods {
		if food, ok := mapItem(it, false); ok {
			if food.Barcode == "" {
				food.Barcode = barcode
			}
			return &food, nil
		}
	}
	return nil, nil
}

// mapItem converts a Nutritionix food. Top-level nf_* fields win over
// full_nutrients, which common-food results carry instead.
func mapItem(it item, common bool) (domain.Food, bool) {
	attrs := make(map[int]any, len(it.FullNutrients))
	full := make([]domain.Nutrient, 0, len(it.FullNutrients))
	for _, n := range it.FullNutrients {
		id, ok := domain.CoerceNumber(n.AttrID)
		if !ok {
			continue
		}
		attrs[int(id)] = n.Value
		if v, ok := domain.CoerceNumber(n.Value); ok {
			full = append(full, domain.Nutrient{AttrID: int(id), Value: v})
		}
	}
	pick := func(top any, attr int) any {
		if _, ok := domain.CoerceNumber(top); ok {
			return top
		}
		return attrs[attr]
	}

	id := connectors.StringValue(it.NixItemID)
	if common {
		id = connectors.FirstNonEmpty(connectors.StringValue(it.TagID), it.FoodName)
	}

	food := domain.Food{
		SourceID:           id,
		Source:             domain.SourceNutritionix,
		Name:               strings.TrimSpace(it.FoodName),
		BrandName:          strings.TrimSpace(it.BrandName),
		ServingQty:         domain.OptionalNumber(it.ServingQty),
		ServingUnit:        strings.TrimSpace(it.ServingUnit),
		ServingWeightGrams: domain.OptionalNumber(it.ServingWeightGrams),
		Calories:           domain.RequiredNumber(pick(it.Calories, attrCalories)),
		Protein:            domain.RequiredNumber(pick(it.Protein, attrProtein)),
		Carbs:              domain.RequiredNumber(pick(it.Carbs, attrCarbs)),
		Fat:                domain.RequiredNumber(pick(it.Fat, attrFat)),
		Fiber:              domain.OptionalNumber(pick(it.Fiber, attrFiber)),
		Sugar:              domain.OptionalNumber(pick(it.Sugar, attrSugar)),
		Sodium:             domain.OptionalNumber(pick(it.Sodium, attrSodium)),
		Barcode:            connectors.StringValue(it.UPC),
		FullNutrients:      full,
	}
	if it.Photo != nil {
		food.Photo = &domain.Photo{Thumb: it.Photo.Thumb, HighRes: it.Photo.HighRes}
	}

	food.Sanitize()
	return food, food.Valid()
}
