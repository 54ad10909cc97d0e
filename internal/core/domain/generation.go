package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// ExpressionMode controls how expression vectors are built for an identity.
type ExpressionMode string

// Available expression modes.
const (
	// ExpressionModeRandom activates the neutral blendshape plus one
	// uniformly chosen blendshape.
	ExpressionModeRandom ExpressionMode = "random"

	// ExpressionModeNeutral activates the neutral blendshape only.
	ExpressionModeNeutral ExpressionMode = "neutral"

	// ExpressionModeSweep produces one mesh per blendshape, each one-hot.
	ExpressionModeSweep ExpressionMode = "sweep"
)

// IsValid returns true if the expression mode is recognised.
func (m ExpressionMode) IsValid() bool {
	switch m {
	case ExpressionModeRandom, ExpressionModeNeutral, ExpressionModeSweep:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ExpressionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ExpressionMode) Description() string {
	switch m {
	case ExpressionModeRandom:
		return "Random (neutral + one random expression)"
	case ExpressionModeNeutral:
		return "Neutral (neutral expression only)"
	case ExpressionModeSweep:
		return "Sweep (one mesh per expression)"
	default:
		return unknownDescription
	}
}

// TextureLayout controls how texture assets are attached to a mesh.
type TextureLayout string

// Available texture layouts.
const (
	// TextureLayoutReference points map_Kd at the source texture path.
	TextureLayoutReference TextureLayout = "reference"

	// TextureLayoutBundled copies texture and displacement images next to
	// the mesh and references them by file name.
	TextureLayoutBundled TextureLayout = "bundled"
)

// IsValid returns true if the layout is recognised.
func (l TextureLayout) IsValid() bool {
	switch l {
	case TextureLayoutReference, TextureLayoutBundled:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l TextureLayout) String() string {
	return string(l)
}

// Description returns a human-readable description of the layout.
func (l TextureLayout) Description() string {
	switch l {
	case TextureLayoutReference:
		return "Reference (material points at source texture)"
	case TextureLayoutBundled:
		return "Bundled (texture and displacement copied per identity)"
	default:
		return unknownDescription
	}
}

// GenerationRequest describes a range of identities to generate.
type GenerationRequest struct {
	// ModelPath is the bilinear model archive.
	ModelPath string

	// OutputPath is the dataset root. Each identity gets a subdirectory.
	OutputPath string

	// MaterialDir is searched recursively for .mtl files.
	MaterialDir string

	// StartIdx is the first identity index (inclusive).
	StartIdx int

	// EndIdx is the last identity index (exclusive).
	EndIdx int

	// ManifestPath is where the JSON manifest is written. Empty disables it.
	ManifestPath string

	// Seed makes a run reproducible.
	Seed uint64

	// Workers bounds how many identities are generated concurrently.
	Workers int

	// ExpressionMode selects how expression vectors are built.
	ExpressionMode ExpressionMode

	// Layout selects how textures are attached.
	Layout TextureLayout

	// FailFast aborts the run on the first failed identity.
	FailFast bool

	// SkipExisting leaves identities that already have a mesh untouched.
	SkipExisting bool

	// Upload sends each finished identity to the configured artifact sink.
	Upload bool
}

// Count returns the number of identities in the request range.
func (r GenerationRequest) Count() int {
	if r.EndIdx <= r.StartIdx {
		return 0
	}
	return r.EndIdx - r.StartIdx
}

// Validate checks the request for obvious mistakes.
func (r GenerationRequest) Validate() error {
	switch {
	case r.ModelPath == "":
		return fmt.Errorf("%w: model path is required", ErrInvalidInput)
	case r.OutputPath == "":
		return fmt.Errorf("%w: output path is required", ErrInvalidInput)
	case r.MaterialDir == "":
		return fmt.Errorf("%w: material directory is required", ErrInvalidInput)
	case r.StartIdx < 0:
		return fmt.Errorf("%w: start index must not be negative", ErrInvalidInput)
	case r.EndIdx <= r.StartIdx:
		return fmt.Errorf("%w: end index %d must be greater than start index %d",
			ErrInvalidInput, r.EndIdx, r.StartIdx)
	case r.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	case !r.ExpressionMode.IsValid():
		return fmt.Errorf("%w: expression mode %q", ErrInvalidInput, r.ExpressionMode)
	case !r.Layout.IsValid():
		return fmt.Errorf("%w: texture layout %q", ErrInvalidInput, r.Layout)
	}
	return nil
}

// IdentityStatus is the outcome of generating one identity.
type IdentityStatus string

// Identity outcomes.
const (
	IdentitySucceeded IdentityStatus = "succeeded"
	IdentityFailed    IdentityStatus = "failed"
	IdentitySkipped   IdentityStatus = "skipped"
)

// IdentityResult records what happened to one identity.
type IdentityResult struct {
	// RunID is the run that produced the identity.
	RunID string

	// Index is the identity index, also its directory name.
	Index int

	// Status is the outcome.
	Status IdentityStatus

	// MaterialPath is the chosen source material.
	MaterialPath string

	// DisplacementPath is the displacement map matching the material.
	DisplacementPath string

	// Files lists the files written for this identity.
	Files []string

	// Error holds the failure message, if any.
	Error string

	// Duration is how long the identity took.
	Duration time.Duration
}

// Run is a single invocation of the generator.
type Run struct {
	ID             string
	ModelPath      string
	OutputPath     string
	MaterialDir    string
	ManifestPath   string
	StartIdx       int
	EndIdx         int
	Seed           uint64
	Workers        int
	ExpressionMode ExpressionMode
	Layout         TextureLayout
	StartedAt      time.Time
	EndedAt        *time.Time
	Succeeded      int
	Failed         int
	Skipped        int
}

// NewRun creates a run record for a request.
func NewRun(id string, req GenerationRequest, startedAt time.Time) Run {
	return Run{
		ID:             id,
		ModelPath:      req.ModelPath,
		OutputPath:     req.OutputPath,
		MaterialDir:    req.MaterialDir,
		ManifestPath:   req.ManifestPath,
		StartIdx:       req.StartIdx,
		EndIdx:         req.EndIdx,
		Seed:           req.Seed,
		Workers:        req.Workers,
		ExpressionMode: req.ExpressionMode,
		Layout:         req.Layout,
		StartedAt:      startedAt,
	}
}

// Finished reports whether the run has ended.
func (r Run) Finished() bool {
	return r.EndedAt != nil
}

// Total returns the number of identities accounted for.
func (r Run) Total() int {
	return r.Succeeded + r.Failed + r.Skipped
}
