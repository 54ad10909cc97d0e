// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ModelLoader / MorphableModel: Loads and evaluates the bilinear model
//   - MeshWriter: Persists mesh geometry
//   - MaterialCatalog: Enumerates material assets
//   - MaterialWriter: Copies and rewrites material assets per identity
//   - ManifestWriter: Persists the run manifest
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run ledger. Without it runs are not recorded.
//   - ArtifactSink: Remote upload. Without it nothing leaves the machine.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
