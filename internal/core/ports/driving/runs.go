package driving

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// RunService exposes the run ledger.
type RunService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)

	// Get returns a run with its identity results.
	Get(ctx context.Context, id string) (*domain.Run, []domain.IdentityResult, error)
}
