package driven

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// RunStore persists the run ledger.
type RunStore interface {
	// SaveRun creates or updates a run.
	SaveRun(ctx context.Context, run domain.Run) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// RecordIdentity stores the outcome of one identity.
	RecordIdentity(ctx context.Context, result domain.IdentityResult) error

	// ListIdentities returns the identities of a run ordered by index.
	ListIdentities(ctx context.Context, runID string) ([]domain.IdentityResult, error)
}
