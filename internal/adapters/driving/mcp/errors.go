// Package mcp exposes food search over the Model Context Protocol so AI
// assistants can look up nutrition data.
package mcp

import "errors"

// ErrMissingFoodService is returned when the food search service is not provided.
var ErrMissingFoodService = errors.New("mcp: food search service is required")
