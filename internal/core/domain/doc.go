// Package domain defines the core business entities for nutrisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Food: The canonical, source-agnostic food record
//   - SourceTag: The origin of a food record and its ranking priority
//   - SourceStatus: Per-source outcome of one aggregation round
//   - SearchResult: Foods plus source statuses returned to callers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
