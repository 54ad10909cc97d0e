package driven

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// ModelLoader opens a morphable model from storage.
type ModelLoader interface {
	// Load reads the model at path.
	Load(ctx context.Context, path string) (MorphableModel, error)
}

// MorphableModel maps coefficient vectors to a mesh.
// Implementations must be safe for concurrent Generate calls.
type MorphableModel interface {
	// Info describes the model dimensions.
	Info() domain.ModelInfo

	// IdentityMean is the per-component mean of the identity prior.
	IdentityMean() []float64

	// IdentityVariance is the per-component variance of the identity prior.
	IdentityVariance() []float64

	// Generate evaluates the model for the given coefficients.
	Generate(coeffs domain.Coefficients) (*domain.Mesh, error)
}
