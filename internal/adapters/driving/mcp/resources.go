package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

const uriScheme = "nutrisearch://"

var knownSources = []domain.SourceTag{
	domain.SourceUSDA,
	domain.SourceFatSecret,
	domain.SourceNutritionix,
	domain.SourceOpenFoodFacts,
	domain.SourceDatabase,
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Food sources and their ranking priority",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective search and cache settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "barcode/{code}",
		Name:        "barcode",
		Description: "Food identified by a UPC/EAN barcode",
		MIMEType:    "application/json",
	}, s.handleBarcodeResource)
}

// handleSourcesResource lists the known sources.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Priority    int    `json:"priority"`
	}

	infos := make([]sourceInfo, len(knownSources))
	for i, tag := range knownSources {
		infos[i] = sourceInfo{
			Name:        tag.String(),
			Description: tag.Description(),
			Priority:    tag.Priority(),
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleSettingsResource returns the settings with secrets left out.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	view := struct {
		SourceTimeoutMs int64  `json:"source_timeout_ms"`
		RetryDelayMs    int64  `json:"retry_delay_ms"`
		MaxResults      int    `json:"max_results"`
		CacheBackend    string `json:"cache_backend"`
		CacheCapacity   int    `json:"cache_capacity"`
		CacheTTLMinutes int64  `json:"cache_ttl_minutes"`
		MockSources     bool   `json:"mock_sources"`
	}{
		SourceTimeoutMs: settings.Search.SourceTimeout.Milliseconds(),
		RetryDelayMs:    settings.Search.RetryDelay.Milliseconds(),
		MaxResults:      settings.Search.MaxResults,
		CacheBackend:    settings.Cache.Backend.String(),
		CacheCapacity:   settings.Cache.Capacity,
		CacheTTLMinutes: int64(settings.Cache.TTL.Minutes()),
		MockSources:     settings.Sources.Mock,
	}
	return jsonResource(req.Params.URI, view)
}

// handleBarcodeResource resolves nutrisearch://barcode/{code}.
func (s *Server) handleBarcodeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	code := extractBarcode(req.Params.URI)
	if code == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Foods.SearchByBarcode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("looking up barcode: %w", err)
	}
	if len(result.Foods) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, toFoodOutput(result.Foods[0]))
}

// extractBarcode extracts the code from nutrisearch://barcode/{code}.
func extractBarcode(uri string) string {
	const prefix = uriScheme + "barcode/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	code := strings.TrimPrefix(uri, prefix)
	if strings.Contains(code, "/") {
		return ""
	}
	return code
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
