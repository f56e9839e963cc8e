package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/connectors"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

const searchFixture = `{
  "count": 2,
  "products": [
    {
      "code": "3017620422003",
      "product_name": "Nutella",
      "brands": "Ferrero, Nutella",
      "nutriments": {
        "energy-kcal_100g": 539,
        "proteins_100g": 6.3,
        "carbohydrates_100g": "57.5",
        "fat_100g": 30.9,
        "sugars_100g": 56.3,
        "sodium_100g": 0.0428
      },
      "image_front_small_url": "https://images.openfoodfacts.org/small.jpg",
      "image_front_url": "https://images.openfoodfacts.org/front.jpg"
    },
    {
      "code": "5449000000996",
      "product_name_en": "Coca-Cola",
      "nutriments": {"energy_100g": 180}
    },
    {
      "nutriments": {"energy-kcal_100g": 10}
    }
  ]
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL},
		connectors.WithHTTPClient(srv.Client()), connectors.WithRateLimiter(nil))
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(func(key string) string {
		if key == EnvDisabled {
			return "true"
		}
		return ""
	})
	assert.True(t, cfg.Disabled)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)

	assert.True(t, New(ConfigFromEnv(func(string) string { return "" })).IsConfigured())
	assert.False(t, New(cfg).IsConfigured())
}

func TestSource_Search(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		assert.Equal(t, "nutella", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "1", r.URL.Query().Get("json"))
		_, _ = w.Write([]byte(searchFixture))
	})

	foods, err := source.Search(context.Background(), "nutella")
	require.NoError(t, err)
	require.Len(t, foods, 2)

	nutella := foods[0]
	assert.Equal(t, "3017620422003", nutella.SourceID)
	assert.Equal(t, "3017620422003", nutella.Barcode)
	assert.Equal(t, domain.SourceOpenFoodFacts, nutella.Source)
	assert.Equal(t, "Ferrero", nutella.BrandName)
	assert.InDelta(t, 539.0, nutella.Calories, 0.001)
	assert.InDelta(t, 57.5, nutella.Carbs, 0.001)
	require.NotNil(t, nutella.Sodium)
	assert.InDelta(t, 42.8, *nutella.Sodium, 0.001)
	assert.Nil(t, nutella.Fiber)
	require.NotNil(t, nutella.Photo)
	assert.Equal(t, "https://images.openfoodfacts.org/small.jpg", nutella.Photo.Thumb)
	assert.Equal(t, "https://images.openfoodfacts.org/front.jpg", nutella.Photo.HighRes)

	cola := foods[1]
	assert.Equal(t, "Coca-Cola", cola.Name)
	assert.InDelta(t, 180/kjPerKcal, cola.Calories, 0.001)
	assert.Nil(t, cola.Photo)
}

func TestSource_LookupBarcode(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/product/0016000275123.json":
			_, _ = w.Write([]byte(`{"status":1,"product":{"code":"0016000275123","product_name":"Cheerios","brands":"General Mills","nutriments":{"energy-kcal_100g":"367"}}}`))
		case "/api/v2/product/0000000000000.json":
			_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	food, err := source.LookupBarcode(ctx, "0016000275123")
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "Cheerios", food.Name)
	assert.Equal(t, "General Mills", food.BrandName)
	assert.Equal(t, 367.0, food.Calories)
	assert.Equal(t, "0016000275123", food.Barcode)

	food, err = source.LookupBarcode(ctx, "0000000000000")
	require.NoError(t, err)
	assert.Nil(t, food)

	food, err = source.LookupBarcode(ctx, "404")
	require.NoError(t, err)
	assert.Nil(t, food)
}

func TestSource_LookupBarcode_ServerError(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	food, err := source.LookupBarcode(context.Background(), "123")
	require.Error(t, err)
	assert.Nil(t, food)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
