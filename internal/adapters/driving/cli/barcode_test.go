package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/connectors/mock"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

func TestBarcodeCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "barcode")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestBarcodeCmd_Found(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "barcode", "--json", mock.BarcodeNutella)
	require.NoError(t, err)

	var result domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Foods, 1)
	assert.Equal(t, "Nutella", result.Foods[0].Name)
	assert.Equal(t, mock.BarcodeNutella, result.Foods[0].Barcode)
}

func TestBarcodeCmd_TextOutput(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "barcode", "--json=false", mock.BarcodeCheerios)

	require.NoError(t, err)
	assert.Contains(t, out, "Cheerios")
	assert.Contains(t, out, "General Mills")
	assert.Contains(t, out, "barcode "+mock.BarcodeCheerios)
	assert.Contains(t, out, "usda skipped")
}

func TestBarcodeCmd_NotFound(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "barcode", "--json=false", "0000000000000")

	require.NoError(t, err)
	assert.Contains(t, out, "No foods found.")
}
