package fatsecret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
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

// errCodeNoFood is returned by food.find_id_for_barcode for unknown codes.
const errCodeNoFood = 211

// APIError is an error reported inside a FatSecret response body.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fatsecret: error %d: %s", e.Code, e.Message)
}

// Unwrap maps token errors to domain.ErrAuthExpired.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case errCodeInvalidToken, errCodeTokenExpired:
		return domain.ErrAuthExpired
	case errCodeNoFood:
		return domain.ErrNotFound
	default:
		return domain.ErrSourceUnavailable
	}
}

// Source searches FatSecret.
type Source struct {
	cfg    Config
	tokens driven.TokenProvider
	client *connectors.Client
}

// New creates a FatSecret source using tokens for bearer authentication.
func New(cfg Config, tokens driven.TokenProvider, opts ...connectors.ClientOption) *Source {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Source{
		cfg:    cfg,
		tokens: tokens,
		client: connectors.NewClient(string(domain.SourceFatSecret), opts...),
	}
}

// Name returns the source tag.
func (s *Source) Name() domain.SourceTag {
	return domain.SourceFatSecret
}

// IsConfigured returns true if the token provider has client credentials.
func (s *Source) IsConfigured() bool {
	return s.tokens != nil && s.tokens.IsConfigured()
}

// Search calls foods.search.
func (s *Source) Search(ctx context.Context, query string) ([]domain.Food, error) {
	params := url.Values{}
	params.Set("method", "foods.search")
	params.Set("search_expression", query)
	params.Set("max_results", strconv.Itoa(s.cfg.MaxResults))

	var resp searchResponse
	if err := s.call(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("fatsecret search: %w", err)
	}

	foods := make([]domain.Food, 0, len(resp.Foods.Food))
	for _, item := range resp.Foods.Food {
		if food, ok := mapSearchFood(item); ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

// LookupBarcode resolves the barcode to a food id and fetches the food.
// Unknown barcodes return nil.
func (s *Source) LookupBarcode(ctx context.Context, barcode string) (*domain.Food, error) {
	gtin := toGTIN13(barcode)

	params := url.Values{}
	params.Set("method", "food.find_id_for_barcode")
	params.Set("barcode", gtin)

	var idResp barcodeResponse
	if err := s.call(ctx, params, &idResp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fatsecret barcode: %w", err)
	}

	foodID := connectors.StringValue(idResp.FoodID.Value)
	if foodID == "" || foodID == "0" {
		return nil, nil
	}

	params = url.Values{}
	params.Set("method", "food.get.v2")
	params.Set("food_id", foodID)

	var foodResp foodResponse
	if err := s.call(ctx, params, &foodResp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fatsecret food: %w", err)
	}

	food, ok := mapFood(foodResp)
	if !ok {
		return nil, nil
	}
	food.Barcode = gtin
	return &food, nil
}

// call performs one API call, invalidating the token and retrying once
// when the provider rejects it.
func (s *Source) call(ctx context.Context, params url.Values, out any) error {
	err := s.callOnce(ctx, params, out)
	if connectors.IsUnauthorized(err) {
		s.tokens.Invalidate()
		err = s.callOnce(ctx, params, out)
	}
	return err
}

func (s *Source) callOnce(ctx context.Context, params url.Values, out any) error {
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return err
	}

	params.Set("format", "json")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, s.cfg.BaseURL+"?"+params.Encode(), header, &raw); err != nil {
		return err
	}

	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		code, _ := domain.CoerceNumber(envelope.Error.Code)
		return &APIError{Code: int(code), Message: envelope.Error.Message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", params.Get("method"), err)
	}
	return nil
}

func mapSearchFood(item searchFood) (domain.Food, bool) {
	desc := parseDescription(item.FoodDescription)

	food := domain.Food{
		SourceID:    connectors.StringValue(item.FoodID),
		Source:      domain.SourceFatSecret,
		Name:        strings.TrimSpace(item.FoodName),
		BrandName:   strings.TrimSpace(item.BrandName),
		ServingQty:  desc.servingQty,
		ServingUnit: desc.servingUnit,
		Calories:    domain.RequiredNumber(desc.macros["calories"]),
		Protein:     domain.RequiredNumber(desc.macros["protein"]),
		Carbs:       domain.RequiredNumber(desc.macros["carbs"]),
		Fat:         domain.RequiredNumber(desc.macros["fat"]),
	}
	if desc.servingQty != nil && strings.EqualFold(desc.servingUnit, "g") {
		food.ServingWeightGrams = domain.Float(*desc.servingQty)
	}

	food.Sanitize()
	return food, food.Valid()
}

func mapFood(resp foodResponse) (domain.Food, bool) {
	f := resp.Food
	food := domain.Food{
		SourceID:  connectors.StringValue(f.FoodID),
		Source:    domain.SourceFatSecret,
		Name:      strings.TrimSpace(f.FoodName),
		BrandName: strings.TrimSpace(f.BrandName),
	}

	if sv, ok := defaultServing(f.Servings.Serving); ok {
		food.ServingQty = domain.OptionalNumber(sv.NumberOfUnits)
		food.ServingUnit = connectors.FirstNonEmpty(sv.MeasurementDesc, sv.ServingDescription)
		if strings.EqualFold(sv.MetricServingUnit, "g") {
			food.ServingWeightGrams = domain.OptionalNumber(sv.MetricServingAmount)
		}
		food.Calories = domain.RequiredNumber(sv.Calories)
		food.Protein = domain.RequiredNumber(sv.Protein)
		food.Carbs = domain.RequiredNumber(sv.Carbohydrate)
		food.Fat = domain.RequiredNumber(sv.Fat)
		food.Fiber = domain.OptionalNumber(sv.Fiber)
		food.Sugar = domain.OptionalNumber(sv.Sugar)
		food.Sodium = domain.OptionalNumber(sv.Sodium)
	}

	food.Sanitize()
	return food, food.Valid()
}

// defaultServing returns the serving flagged is_default, else the first.
func defaultServing(servings []serving) (serving, bool) {
	if len(servings) == 0 {
		return serving{}, false
	}
	for _, sv := range servings {
		if connectors.StringValue(sv.IsDefault) == "1" {
			return sv, true
		}
	}
	return servings[0], true
}
