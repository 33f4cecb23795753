// Package domain defines the core business entities for knots.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Knot: The persisted connector descriptor (knot.json)
//   - TapConfigField: A configuration field a tap exposes
//   - Catalog: The opaque schema catalog produced by discovery
//   - DiscoveryRun: A recorded discovery attempt
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
