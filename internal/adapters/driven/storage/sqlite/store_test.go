package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeCongThuong/facescape/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRun(id string, started time.Time) domain.Run {
	return domain.Run{
		ID:             id,
		ModelPath:      "/data/model.npz",
		OutputPath:     "/data/out",
		MaterialDir:    "/data/tu_models",
		StartIdx:       0,
		EndIdx:         10,
		Seed:           18446744073709551615, // max uint64 survives the round trip
		Workers:        4,
		ExpressionMode: domain.ExpressionModeSweep,
		Layout:         domain.TextureLayoutBundled,
		StartedAt:      started,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "runs.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(ctx, testRun("r1", time.Now())))
	require.NoError(t, store.Close())

	// Migrations are not re-applied on reopen
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", run.ID)
}

func TestStore_Migrate_Idempotent(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.migrate(migrations.FS))
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	run := testRun("r1", started)

	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, run.Seed, got.Seed)
	assert.Equal(t, domain.ExpressionModeSweep, got.ExpressionMode)
	assert.Equal(t, domain.TextureLayoutBundled, got.Layout)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Empty(t, got.ManifestPath)
	assert.Nil(t, got.EndedAt)
}

func TestStore_SaveRun_UpdatesOutcome(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := testRun("r1", started)
	run.ManifestPath = "/data/out/meta.json"
	require.NoError(t, store.SaveRun(ctx, run))

	ended := started.Add(90 * time.Second)
	run.EndedAt = &ended
	run.Succeeded, run.Failed, run.Skipped = 7, 2, 1
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
	assert.True(t, ended.Equal(*got.EndedAt))
	assert.Equal(t, 7, got.Succeeded)
	assert.Equal(t, 2, got.Failed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, "/data/out/meta.json", got.ManifestPath)
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 59, 59, 900000000, time.UTC)

	// Fractional seconds of different widths still order correctly
	require.NoError(t, store.SaveRun(ctx, testRun("a", base)))
	require.NoError(t, store.SaveRun(ctx, testRun("b", base.Add(100*time.Millisecond))))
	require.NoError(t, store.SaveRun(ctx, testRun("c", base.Add(2*time.Hour))))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].ID)
}

func TestStore_RecordAndListIdentities(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, testRun("r1", time.Now())))

	ok := domain.IdentityResult{
		RunID:            "r1",
		Index:            3,
		Status:           domain.IdentitySucceeded,
		MaterialPath:     "/m/1/a.jpg.mtl",
		DisplacementPath: "/m/dpmap/a.png",
		Files:            []string{"/out/3/3.obj", "/out/3/3.mtl"},
		Duration:         1500 * time.Millisecond,
	}
	failed := domain.IdentityResult{
		RunID:  "r1",
		Index:  1,
		Status: domain.IdentityFailed,
		Error:  "write mesh 1: disk full",
	}
	require.NoError(t, store.RecordIdentity(ctx, ok))
	require.NoError(t, store.RecordIdentity(ctx, failed))

	results, err := store.ListIdentities(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, domain.IdentityFailed, results[0].Status)
	assert.Equal(t, "write mesh 1: disk full", results[0].Error)
	assert.Empty(t, results[0].Files)

	assert.Equal(t, ok, results[1])
}

func TestStore_RecordIdentity_Upserts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, testRun("r1", time.Now())))

	res := domain.IdentityResult{RunID: "r1", Index: 0, Status: domain.IdentityFailed, Error: "boom"}
	require.NoError(t, store.RecordIdentity(ctx, res))
	res.Status, res.Error = domain.IdentitySucceeded, ""
	require.NoError(t, store.RecordIdentity(ctx, res))

	results, err := store.ListIdentities(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.IdentitySucceeded, results[0].Status)
	assert.Empty(t, results[0].Error)
}

func TestStore_RecordIdentity_UnknownRun(t *testing.T) {
	store := setupTestStore(t)

	err := store.RecordIdentity(context.Background(), domain.IdentityResult{RunID: "nope", Status: domain.IdentityFailed})

	assert.Error(t, err)
}

func TestTimeFormat_SortsChronologically(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 900000000, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)

	assert.Less(t, formatTime(a), formatTime(b))
	assert.True(t, a.Equal(parseTime(formatTime(a))))
	assert.True(t, parseTime("garbage").IsZero())
}
