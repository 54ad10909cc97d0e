package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// DefaultRunListLimit caps run listings when no limit is given.
const DefaultRunListLimit = 20

// errLedgerDisabled is returned when no run store is configured.
var errLedgerDisabled = errors.New("run ledger not configured")

// RunService exposes the run ledger.
type RunService struct {
	store driven.RunStore
}

// NewRunService creates a new run service. store may be nil.
func NewRunService(store driven.RunStore) *RunService {
	return &RunService{store: store}
}

// List returns recent runs, newest first.
func (s *RunService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.store == nil {
		return nil, errLedgerDisabled
	}
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns a run with its identity results.
func (s *RunService) Get(ctx context.Context, id string) (*domain.Run, []domain.IdentityResult, error) {
	if s.store == nil {
		return nil, nil, errLedgerDisabled
	}
	if id == "" {
		return nil, nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}
	identities, err := s.store.ListIdentities(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list identities: %w", err)
	}
	return run, identities, nil
}
