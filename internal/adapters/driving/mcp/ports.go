package mcp

import (
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Foods answers text and barcode searches.
	Foods driving.FoodSearchService

	// Settings exposes the effective configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Foods == nil {
		return ErrMissingFoodService
	}
	return nil
}
