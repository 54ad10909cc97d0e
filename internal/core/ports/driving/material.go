package driving

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// MaterialService lists material assets available for generation.
type MaterialService interface {
	// List returns every material under dir with companion file status.
	List(ctx context.Context, dir string) ([]domain.MaterialStatus, error)
}
