package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// SearchFoodsInput is the input schema for the search_foods tool.
type SearchFoodsInput struct {
	Query string `json:"query" jsonschema:"food name or brand to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of foods to return (default all)"`
}

// LookupBarcodeInput is the input schema for the lookup_barcode tool.
type LookupBarcodeInput struct {
	Barcode string `json:"barcode" jsonschema:"UPC or EAN barcode digits"`
}

// SearchOutput is the output schema shared by both tools.
type SearchOutput struct {
	Foods     []FoodOutput   `json:"foods"`
	Sources   []SourceOutput `json:"sources"`
	Count     int            `json:"count"`
	FromCache bool           `json:"from_cache"`
}

// FoodOutput is a single food with nutrients for its reference serving.
type FoodOutput struct {
	Name       string   `json:"name"`
	Brand      string   `json:"brand,omitempty"`
	Source     string   `json:"source"`
	SourceID   string   `json:"source_id"`
	LocalID    *int64   `json:"local_id,omitempty"`
	Serving    string   `json:"serving,omitempty"`
	Calories   float64  `json:"calories"`
	Protein    float64  `json:"protein_g"`
	Carbs      float64  `json:"carbs_g"`
	Fat        float64  `json:"fat_g"`
	Fiber      *float64 `json:"fiber_g,omitempty"`
	Sugar      *float64 `json:"sugar_g,omitempty"`
	Sodium     *float64 `json:"sodium_mg,omitempty"`
	Barcode    string   `json:"barcode,omitempty"`
	PhotoThumb string   `json:"photo_thumb,omitempty"`
	IsRaw      *bool    `json:"is_raw,omitempty"`
}

// SourceOutput reports how one source fared.
type SourceOutput struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Count      int    `json:"count"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_foods",
		Description: "Search foods by name across the local database and nutrition providers",
	}, s.handleSearchFoods)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_barcode",
		Description: "Look up a packaged food by its UPC/EAN barcode",
	}, s.handleLookupBarcode)
}

// handleSearchFoods handles the search_foods tool invocation.
func (s *Server) handleSearchFoods(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchFoodsInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Foods.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(result, input.Limit), nil
}

// handleLookupBarcode handles the lookup_barcode tool invocation.
func (s *Server) handleLookupBarcode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupBarcodeInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Foods.SearchByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(result, 0), nil
}

func toSearchOutput(result *domain.SearchResult, limit int) SearchOutput {
	foods := result.Foods
	if limit > 0 && len(foods) > limit {
		foods = foods[:limit]
	}

	out := SearchOutput{
		Foods:     make([]FoodOutput, len(foods)),
		Sources:   make([]SourceOutput, len(result.Sources)),
		Count:     len(foods),
		FromCache: result.FromCache,
	}
	for i := range foods {
		out.Foods[i] = toFoodOutput(foods[i])
	}
	for i, st := range result.Sources {
		out.Sources[i] = SourceOutput{
			Name:       st.Name.String(),
			Status:     string(st.Status),
			Count:      st.Count,
			DurationMs: st.DurationMs,
			Error:      st.Error,
		}
	}
	return out
}

func toFoodOutput(f domain.Food) FoodOutput {
	out := FoodOutput{
		Name:     f.Name,
		Brand:    f.BrandName,
		Source:   f.Source.String(),
		SourceID: f.SourceID,
		LocalID:  f.LocalID,
		Serving:  f.ServingLabel(),
		Calories: f.Calories,
		Protein:  f.Protein,
		Carbs:    f.Carbs,
		Fat:      f.Fat,
		Fiber:    f.Fiber,
		Sugar:    f.Sugar,
		Sodium:   f.Sodium,
		Barcode:  f.Barcode,
		IsRaw:    f.IsRaw,
	}
	if f.Photo != nil {
		out.PhotoThumb = f.Photo.Thumb
	}
	return out
}
