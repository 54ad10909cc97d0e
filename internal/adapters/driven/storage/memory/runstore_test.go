package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, domain.Run{ID: "r1", Seed: 9}))

	run, err := store.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), run.Seed)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListRuns(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveRun(ctx, domain.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	runs, err := store.ListRuns(ctx, 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunStore_Identities(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	require.NoError(t, store.RecordIdentity(ctx, domain.IdentityResult{RunID: "r1", Index: 4, Status: domain.IdentityFailed}))
	require.NoError(t, store.RecordIdentity(ctx, domain.IdentityResult{RunID: "r1", Index: 2}))
	require.NoError(t, store.RecordIdentity(ctx, domain.IdentityResult{RunID: "r1", Index: 4, Status: domain.IdentitySucceeded}))
	require.NoError(t, store.RecordIdentity(ctx, domain.IdentityResult{RunID: "r2", Index: 0}))

	results, err := store.ListIdentities(ctx, "r1")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Index)
	assert.Equal(t, domain.IdentitySucceeded, results[1].Status)

	none, err := store.ListIdentities(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
