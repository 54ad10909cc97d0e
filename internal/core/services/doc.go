// Package services implements the driving port interfaces.
// Services contain the generation logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch file formats directly: model archives, meshes,
// materials and manifests are all reached through driven ports.
package services
