package usda

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
  "totalHits": 3,
  "foods": [
    {
      "fdcId": 171688,
      "description": "Apples, raw, with skin",
      "dataType": "SR Legacy",
      "foodNutrients": [
        {"nutrientId": 1008, "unitName": "KCAL", "value": 52},
        {"nutrientId": 1062, "unitName": "kJ", "value": 218},
        {"nutrientId": 1003, "unitName": "G", "value": 0.26},
        {"nutrientId": 1005, "unitName": "G", "value": 13.8},
        {"nutrientId": 1004, "unitName": "G", "value": 0.17},
        {"nutrientId": 1079, "unitName": "G", "value": 2.4},
        {"nutrientId": 2000, "unitName": "G", "value": 10.4},
        {"nutrientId": 1093, "unitName": "MG", "value": 1}
      ]
    },
    {
      "fdcId": "2345678",
      "description": "APPLE CHIPS",
      "dataType": "Branded",
      "brandOwner": "Bare Snacks",
      "gtinUpc": "0859610002079",
      "foodNutrients": [
        {"nutrientId": 2047, "unitName": "KCAL", "value": "95.0"},
        {"nutrientId": 1003, "unitName": "G", "value": "not-a-number"}
      ]
    },
    {
      "description": "   ",
      "foodNutrients": []
    }
  ]
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "key", BaseURL: srv.URL},
		connectors.WithHTTPClient(srv.Client()), connectors.WithRateLimiter(nil))
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(func(key string) string {
		if key == EnvAPIKey {
			return " abc "
		}
		return ""
	})
	assert.Equal(t, "abc", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
}

func TestSource_IsConfigured(t *testing.T) {
	assert.False(t, New(Config{}).IsConfigured())
	assert.True(t, New(Config{APIKey: "k"}).IsConfigured())
	assert.Equal(t, domain.SourceUSDA, New(Config{}).Name())
}

func TestSource_Search(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fdc/v1/foods/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("query"))
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(searchFixture))
	})

	foods, err := source.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, foods, 2)

	apple := foods[0]
	assert.Equal(t, "171688", apple.SourceID)
	assert.Equal(t, domain.SourceUSDA, apple.Source)
	assert.Equal(t, "Apples, raw, with skin", apple.Name)
	assert.InDelta(t, 52.0, apple.Calories, 0.001)
	assert.InDelta(t, 0.26, apple.Protein, 0.001)
	assert.InDelta(t, 13.8, apple.Carbs, 0.001)
	assert.InDelta(t, 0.17, apple.Fat, 0.001)
	require.NotNil(t, apple.Fiber)
	assert.InDelta(t, 2.4, *apple.Fiber, 0.001)
	require.NotNil(t, apple.Sodium)
	assert.InDelta(t, 1.0, *apple.Sodium, 0.001)
	require.NotNil(t, apple.IsRaw)
	assert.True(t, *apple.IsRaw)
	assert.Equal(t, "g", apple.ServingUnit)
	assert.Len(t, apple.FullNutrients, 7)

	chips := foods[1]
	assert.Equal(t, "2345678", chips.SourceID)
	assert.Equal(t, "Bare Snacks", chips.BrandName)
	assert.Equal(t, "0859610002079", chips.Barcode)
	assert.Equal(t, 95.0, chips.Calories)
	assert.Equal(t, 0.0, chips.Protein)
	assert.Nil(t, chips.Fiber)
	assert.Nil(t, chips.IsRaw)
}

func TestSource_Search_UpstreamError(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID"}}`))
	})

	_, err := source.Search(context.Background(), "apple")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "usda search")
}
