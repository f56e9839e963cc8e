package domain

import (
	"math"
	"strconv"
	"strings"
)

// Photo holds image URLs for a food.
type Photo struct {
	Thumb   string `json:"thumb,omitempty"`
	HighRes string `json:"highres,omitempty"`
}

// IsEmpty reports whether neither URL is set.
func (p *Photo) IsEmpty() bool {
	return p == nil || (p.Thumb == "" && p.HighRes == "")
}

// Nutrient is one extended nutrient value keyed by provider attribute id.
type Nutrient struct {
	AttrID int     `json:"attr_id"`
	Value  float64 `json:"value"`
}

// Food is the canonical food record flowing through the search pipeline.
//
// Source and SourceID together identify where a record came from and are
// the persistence dedup key. LocalID is set once the record is stored and
// never changes afterwards.
type Food struct {
	// LocalID is the Local Food Store id. Nil until persisted.
	LocalID *int64 `json:"local_id,omitempty"`

	// SourceID is the identifier assigned by the origin.
	SourceID string `json:"source_id"`

	// Source is the origin tag.
	Source SourceTag `json:"source"`

	Name      string `json:"name"`
	BrandName string `json:"brand_name,omitempty"`

	// Reference serving the nutrient values are computed for.
	ServingQty         *float64 `json:"serving_qty,omitempty"`
	ServingUnit        string   `json:"serving_unit,omitempty"`
	ServingWeightGrams *float64 `json:"serving_weight_grams,omitempty"`

	// Required macros, always finite and non-negative.
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`

	// Optional micros.
	Fiber  *float64 `json:"fiber,omitempty"`
	Sugar  *float64 `json:"sugar,omitempty"`
	Sodium *float64 `json:"sodium,omitempty"`

	Photo   *Photo `json:"photo,omitempty"`
	Barcode string `json:"barcode,omitempty"`

	// IsRaw marks minimally processed whole foods.
	IsRaw *bool `json:"is_raw,omitempty"`

	FullNutrients []Nutrient `json:"full_nutrients,omitempty"`
}

// IsPersisted reports whether the food has a Local Food Store id.
func (f *Food) IsPersisted() bool {
	return f.LocalID != nil
}

// Valid reports whether the record carries enough identity to be returned.
// Records missing both a usable id and a usable name are dropped.
func (f *Food) Valid() bool {
	return strings.TrimSpace(f.SourceID) != "" || strings.TrimSpace(f.Name) != ""
}

// Sanitize forces every numeric field to a finite, non-negative value.
// Required macros fall back to 0, optional values are cleared.
func (f *Food) Sanitize() {
	f.Calories = finiteOrZero(f.Calories)
	f.Protein = finiteOrZero(f.Protein)
	f.Carbs = finiteOrZero(f.Carbs)
	f.Fat = finiteOrZero(f.Fat)
	f.Fiber = finiteOrNil(f.Fiber)
	f.Sugar = finiteOrNil(f.Sugar)
	f.Sodium = finiteOrNil(f.Sodium)
	f.ServingQty = finiteOrNil(f.ServingQty)
	f.ServingWeightGrams = finiteOrNil(f.ServingWeightGrams)

	var kept []Nutrient
	for _, n := range f.FullNutrients {
		if isFinite(n.Value) {
			kept = append(kept, n)
		}
	}
	f.FullNutrients = kept

	if f.Photo.IsEmpty() {
		f.Photo = nil
	}
}

// ServingLabel formats the reference serving, e.g. "1 cup (240 g)".
// It returns "" when no serving information is present.
func (f *Food) ServingLabel() string {
	var parts []string
	if f.ServingQty != nil {
		parts = append(parts, strconv.FormatFloat(*f.ServingQty, 'f', -1, 64))
	}
	if f.ServingUnit != "" {
		parts = append(parts, f.ServingUnit)
	}
	label := strings.Join(parts, " ")

	if f.ServingWeightGrams == nil {
		return label
	}
	grams := strconv.FormatFloat(*f.ServingWeightGrams, 'f', -1, 64) + " g"
	if label == "" || label == grams {
		return grams
	}
	return label + " (" + grams + ")"
}

// Clone returns a deep copy of the food. Pointer fields and the nutrient
// list are not shared with the receiver.
func (f Food) Clone() Food {
	f.LocalID = clonePtr(f.LocalID)
	f.ServingQty = clonePtr(f.ServingQty)
	f.ServingWeightGrams = clonePtr(f.ServingWeightGrams)
	f.Fiber = clonePtr(f.Fiber)
	f.Sugar = clonePtr(f.Sugar)
	f.Sodium = clonePtr(f.Sodium)
	f.IsRaw = clonePtr(f.IsRaw)
	f.Photo = clonePtr(f.Photo)
	if f.FullNutrients != nil {
		f.FullNutrients = append([]Nutrient(nil), f.FullNutrients...)
	}
	return f
}

// WithLocalID returns a copy of the food carrying the given store id.
func (f Food) WithLocalID(id int64) Food {
	f.LocalID = &id
	return f
}

// AsLocal returns the record as seen from the Local Food Store search:
// tagged with SourceDatabase and identified by its stringified local id.
func (f Food) AsLocal() Food {
	f.Source = SourceDatabase
	if f.LocalID != nil {
		f.SourceID = strconv.FormatInt(*f.LocalID, 10)
	}
	return f
}

// CoerceNumber converts a loosely typed provider value into a finite float.
// Strings are parsed, numbers are passed through, anything else (including
// NaN and infinities) reports false.
func CoerceNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case int32:
		n = float64(x)
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if !isFinite(n) {
		return 0, false
	}
	return n, true
}

// RequiredNumber coerces v for a required field, defaulting to 0.
// Negative values are clamped to 0.
func RequiredNumber(v any) float64 {
	n, ok := CoerceNumber(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// OptionalNumber coerces v for an optional field, returning nil when the
// value is absent or unusable.
func OptionalNumber(v any) *float64 {
	n, ok := CoerceNumber(v)
	if !ok || n < 0 {
		return nil
	}
	return &n
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func finiteOrZero(n float64) float64 {
	if !isFinite(n) || n < 0 {
		return 0
	}
	return n
}

func finiteOrNil(n *float64) *float64 {
	if n == nil || !isFinite(*n) || *n < 0 {
		return nil
	}
	return n
}
