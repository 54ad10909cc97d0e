package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu         sync.RWMutex
	runs       map[string]domain.Run
	identities map[string]map[int]domain.IdentityResult
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs:       make(map[string]domain.Run),
		identities: make(map[string]map[int]domain.IdentityResult),
	}
}

// SaveRun creates or updates a run.
func (s *RunStore) SaveRun(_ context.Context, run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// ListRuns returns the most recent runs first.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RecordIdentity stores the outcome of one identity.
func (s *RunStore) RecordIdentity(_ context.Context, result domain.IdentityResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byIndex, ok := s.identities[result.RunID]
	if !ok {
		byIndex = make(map[int]domain.IdentityResult)
		s.identities[result.RunID] = byIndex
	}
	byIndex[result.Index] = result
	return nil
}

// ListIdentities returns the identities of a run ordered by index.
func (s *RunStore) ListIdentities(_ context.Context, runID string) ([]domain.IdentityResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byIndex := s.identities[runID]
	results := make([]domain.IdentityResult, 0, len(byIndex))
	for _, res := range byIndex {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results, nil
}
