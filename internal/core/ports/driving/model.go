package driving

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// ModelInspector reports the dimensions of a morphable model.
type ModelInspector interface {
	// Inspect loads the model at path and describes it.
	Inspect(ctx context.Context, path string) (*domain.ModelInfo, error)
}
