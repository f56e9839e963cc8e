package fatsecret

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// oneOrMany decodes a JSON value that is either a single object or an array.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*o = []T{one}
	return nil
}

// apiError is the in-body error envelope returned with HTTP 200.
type apiError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// Token related error codes.
const (
	errCodeInvalidToken = 13
	errCodeTokenExpired = 14
)

type searchResponse struct {
	Foods struct {
		Food oneOrMany[searchFood] `json:"food"`
	} `json:"foods"`
}

type searchFood struct {
	FoodID          any    `json:"food_id"`
	FoodName        string `json:"food_name"`
	FoodType        string `json:"food_type"`
	BrandName       string `json:"brand_name"`
	FoodDescription string `json:"food_description"`
}

type barcodeResponse struct {
	FoodID struct {
		Value any `json:"value"`
	} `json:"food_id"`
}

type foodResponse struct {
	Food struct {
		FoodID    any    `json:"food_id"`
		FoodName  string `json:"food_name"`
		FoodType  string `json:"food_type"`
		BrandName string `json:"brand_name"`
		Servings  struct {
			Serving oneOrMany[serving] `json:"serving"`
		} `json:"servings"`
	} `json:"food"`
}

type serving struct {
	IsDefault           any    `json:"is_default"`
	ServingDescription  string `json:"serving_description"`
	MeasurementDesc     string `json:"measurement_description"`
	NumberOfUnits       any    `json:"number_of_units"`
	MetricServingAmount any    `json:"metric_serving_amount"`
	MetricServingUnit   string `json:"metric_serving_unit"`
	Calories            any    `json:"calories"`
	Protein             any    `json:"protein"`
	Carbohydrate        any    `json:"carbohydrate"`
	Fat                 any    `json:"fat"`
	Fiber               any    `json:"fiber"`
	Sugar               any    `json:"sugar"`
	Sodium              any    `json:"sodium"`
}

var (
	descriptionRe = regexp.MustCompile(`(?i)^Per\s+(.+?)\s+-\s+(.*)$`)
	macroRe       = regexp.MustCompile(`(?i)(Calories|Fat|Carbs|Protein):\s*([0-9]*\.?[0-9]+)`)
	servingRe     = regexp.MustCompile(`^([0-9]*\.?[0-9]+(?:/[0-9]+)?)\s*(.*)$`)
)

// parsedDescription is the content of a search result food_description.
type parsedDescription struct {
	servingQty  *float64
	servingUnit string
	macros      map[string]string
}

// parseDescription reads "Per 100g - Calories: 52kcal | Fat: 0.17g | ...".
// Unparseable parts are left empty.
func parseDescription(desc string) parsedDescription {
	out := parsedDescription{macros: map[string]string{}}
	m := descriptionRe.FindStringSubmatch(strings.TrimSpace(desc))
	if m == nil {
		return out
	}

	out.servingQty, out.servingUnit = parseServing(m[1])
	for _, mm := range macroRe.FindAllStringSubmatch(m[2], -1) {
		out.macros[strings.ToLower(mm[1])] = mm[2]
	}
	return out
}

// parseServing splits "100g" or "1 medium" or "1/2 cup" into quantity and unit.
func parseServing(s string) (*float64, string) {
	s = strings.TrimSpace(s)
	m := servingRe.FindStringSubmatch(s)
	if m == nil {
		return nil, s
	}
	qty := m[1]
	if num, den, ok := strings.Cut(qty, "/"); ok {
		n, okN := domain.CoerceNumber(num)
		d, okD := domain.CoerceNumber(den)
		if !okN || !okD || d == 0 {
			return nil, s
		}
		return domain.Float(n / d), strings.TrimSpace(m[2])
	}
	return domain.OptionalNumber(qty), strings.TrimSpace(m[2])
}

// toGTIN13 left-pads a numeric barcode with zeros to 13 digits. Longer codes
// are returned unchanged.
func toGTIN13(barcode string) string {
	barcode = strings.TrimSpace(barcode)
	if len(barcode) >= 13 {
		return barcode
	}
	return strings.Repeat("0", 13-len(barcode)) + barcode
}
