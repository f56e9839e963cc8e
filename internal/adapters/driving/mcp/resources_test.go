package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleSourcesResource(t *testing.T) {
	server, err := NewServer(&Ports{Foods: &mockFoodService{}})
	require.NoError(t, err)

	result, err := server.handleSourcesResource(context.Background(), readRequest(uriScheme+"sources"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var infos []struct {
		Name     string `json:"name"`
		Priority int    `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 5)
	assert.Equal(t, "usda", infos[0].Name)
	assert.Equal(t, 1, infos[0].Priority)
	assert.Equal(t, "database", infos[4].Name)
}

func TestServer_handleSettingsResource(t *testing.T) {
	t.Run("missing settings port is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Foods: &mockFoodService{}})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(context.Background(), readRequest(uriScheme+"settings"))
		assert.Error(t, err)
	})

	t.Run("secrets are left out", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Cache.RedisPassword = "hunter2"
		server, err := NewServer(&Ports{
			Foods:    &mockFoodService{},
			Settings: &mockSettingsService{settings: settings},
		})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(context.Background(), readRequest(uriScheme+"settings"))
		require.NoError(t, err)

		text := result.Contents[0].Text
		assert.Contains(t, text, `"source_timeout_ms": 3000`)
		assert.Contains(t, text, `"max_results": 25`)
		assert.NotContains(t, text, "hunter2")
	})
}

func TestServer_handleBarcodeResource(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		foods := &mockFoodService{result: sampleResult()}
		server, err := NewServer(&Ports{Foods: foods})
		require.NoError(t, err)

		result, err := server.handleBarcodeResource(context.Background(), readRequest(uriScheme+"barcode/3017620422003"))
		require.NoError(t, err)
		assert.Equal(t, "3017620422003", foods.lastBarcode)
		assert.Contains(t, result.Contents[0].Text, "Apples, raw, with skin")
	})

	t.Run("not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Foods: &mockFoodService{}})
		require.NoError(t, err)

		_, err = server.handleBarcodeResource(context.Background(), readRequest(uriScheme+"barcode/000"))
		assert.Error(t, err)
	})
}

func TestExtractBarcode(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uriScheme + "barcode/0016000275123", "0016000275123"},
		{uriScheme + "barcode/", ""},
		{uriScheme + "barcode/1/2", ""},
		{"other://barcode/1", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractBarcode(tt.uri), tt.uri)
	}
}
