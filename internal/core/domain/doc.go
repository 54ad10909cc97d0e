// Package domain defines the core entities for headgen.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Mesh: Geometry produced by evaluating a morphable model
//   - Coefficients: Identity and expression vectors fed to the model
//   - MaterialAsset: A material file with its texture and displacement maps
//   - GenerationRequest: Everything needed to produce a range of identities
//   - Run / IdentityResult: What a generation run produced
//   - Manifest: Identity index to displacement map mapping
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
