package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
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

const productFields = "code,product_name,product_name_en,generic_name,brands," +
	"nutriments,image_front_small_url,image_front_url,image_small_url,image_url"

const kjPerKcal = 4.184

// Source searches Open Food Facts.
type Source struct {
	cfg    Config
	client *connectors.Client
}

// New creates an Open Food Facts source.
func New(cfg Config, opts ...connectors.ClientOption) *Source {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Source{
		cfg:    cfg,
		client: connectors.NewClient(string(domain.SourceOpenFoodFacts), opts...),
	}
}

// Name returns the source tag.
func (s *Source) Name() domain.SourceTag {
	return domain.SourceOpenFoodFacts
}

// IsConfigured returns true unless the source was disabled.
func (s *Source) IsConfigured() bool {
	return !s.cfg.Disabled
}

type product struct {
	Code          any            `json:"code"`
	ProductName   string         `json:"product_name"`
	ProductNameEn string         `json:"product_name_en"`
	GenericName   string         `json:"generic_name"`
	Brands        string         `json:"brands"`
	Nutriments    map[string]any `json:"nutriments"`
	FrontSmall    string         `json:"image_front_small_url"`
	Front         string         `json:"image_front_url"`
	Small         string         `json:"image_small_url"`
	Image         string         `json:"image_url"`
}

type searchResponse struct {
	Products []product `json:"products"`
}

type productResponse struct {
	Status  any      `json:"status"`
	Product *product `json:"product"`
}

// Search queries the cgi/search.pl full-text endpoint.
func (s *Source) Search(ctx context.Context, query string) ([]domain.Food, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(s.cfg.PageSize))
	params.Set("fields", productFields)

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/cgi/search.pl?" + params.Encode()

	var resp searchResponse
	if err := s.client.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("openfoodfacts search: %w", err)
	}

	foods := make([]domain.Food, 0, len(resp.Products))
	for _, p := range resp.Products {
		if food, ok := mapProduct(p); ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

// LookupBarcode fetches /api/v2/product/{code}.json. A missing product
// returns nil without error.
func (s *Source) LookupBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	params := url.Values{}
	params.Set("fields", productFields)
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/api/v2/product/" +
		url.PathEscape(barcode) + ".json?" + params.Encode()

	var resp productResponse
	if err := s.client.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("openfoodfacts barcode: %w", err)
	}

	if status, _ := domain.CoerceNumber(resp.Status); status != 1 || resp.Product == nil {
		return nil, nil
	}

	food, ok := mapProduct(*resp.Product)
	if !ok {
		return nil, nil
	}
	if food.SourceID == "" {
		food.SourceID = barcode
	}
	if food.Barcode == "" {
		food.Barcode = barcode
	}
	return &food, nil
}

func mapProduct(p product) (domain.Food, bool) {
	code := connectors.StringValue(p.Code)
	n := p.Nutriments

	calories, ok := domain.CoerceNumber(n["energy-kcal_100g"])
	if !ok {
		if kj, ok := domain.CoerceNumber(n["energy_100g"]); ok {
			calories = kj / kjPerKcal
		}
	}

	food := domain.Food{
		SourceID:           code,
		Source:             domain.SourceOpenFoodFacts,
		Name:               connectors.FirstNonEmpty(p.ProductName, p.ProductNameEn, p.GenericName),
		BrandName:          firstBrand(p.Brands),
		ServingQty:         domain.Float(100),
		ServingUnit:        "g",
		ServingWeightGrams: domain.Float(100),
		Calories:           domain.RequiredNumber(calories),
		Protein:            domain.RequiredNumber(n["proteins_100g"]),
		Carbs:              domain.RequiredNumber(n["carbohydrates_100g"]),
		Fat:                domain.RequiredNumber(n["fat_100g"]),
		Fiber:              domain.OptionalNumber(n["fiber_100g"]),
		Sugar:              domain.OptionalNumber(n["sugars_100g"]),
		Barcode:            code,
	}
	if sodium := domain.OptionalNumber(n["sodium_100g"]); sodium != nil {
		food.Sodium = domain.Float(*sodium * 1000)
	}

	thumb := connectors.FirstNonEmpty(p.FrontSmall, p.Small)
	highres := connectors.FirstNonEmpty(p.Front, p.Image)
	if thumb != "" || highres != "" {
		food.Photo = &domain.Photo{Thumb: thumb, HighRes: highres}
	}

	food.Sanitize()
	return food, food.Valid()
}

// firstBrand picks the first entry of the comma-separated brands field.
func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}
