package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

type mockRunService struct {
	limit      int
	runs       []domain.Run
	identities []domain.IdentityResult
	err        error
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.Run, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.Run, []domain.IdentityResult, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], m.identities, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

var runStarted = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testRuns() []domain.Run {
	ended := runStarted.Add(2500 * time.Millisecond)
	return []domain.Run{
		{
			ID:             "run-b",
			ModelPath:      "/data/model.npz",
			OutputPath:     "/data/out",
			MaterialDir:    "/data/m",
			ManifestPath:   "/data/out/meta.json",
			StartIdx:       0,
			EndIdx:         3,
			Seed:           99,
			Workers:        2,
			ExpressionMode: domain.ExpressionModeRandom,
			Layout:         domain.TextureLayoutReference,
			StartedAt:      runStarted,
			EndedAt:        &ended,
			Succeeded:      2,
			Failed:         1,
		},
		{
			ID:        "run-a",
			StartIdx:  10,
			EndIdx:    20,
			StartedAt: runStarted.Add(-time.Hour),
		},
	}
}

func TestRunsCmd_NotConfigured(t *testing.T) {
	_, err := executeCommand(t, "runs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run service not configured")
}

func TestRunsList(t *testing.T) {
	svc := &mockRunService{runs: testRuns()}
	SetServices(Services{Runs: svc})

	out, err := executeCommand(t, "runs", "list", "--limit", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, svc.limit)
	assert.Contains(t, out, "Runs:")
	assert.Contains(t, out, "  run-b  "+runStarted.Local().Format(time.DateTime)+"  [0, 3)  2 ok / 1 failed / 0 skipped\n")
	assert.Contains(t, out, "  run-a  ")
	assert.Contains(t, out, "[10, 20)  0 ok / 0 failed / 0 skipped  (unfinished)")
}

func TestRunsList_Default(t *testing.T) {
	svc := &mockRunService{runs: testRuns()}
	SetServices(Services{Runs: svc})

	out, err := executeCommand(t, "runs")

	require.NoError(t, err)
	assert.Zero(t, svc.limit)
	assert.Contains(t, out, "run-b")
}

func TestRunsList_Empty(t *testing.T) {
	SetServices(Services{Runs: &mockRunService{}})

	out, err := executeCommand(t, "runs", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestRunsShow(t *testing.T) {
	svc := &mockRunService{
		runs: testRuns(),
		identities: []domain.IdentityResult{
			{RunID: "run-b", Index: 0, Status: domain.IdentitySucceeded, MaterialPath: "/data/m/1/a.jpg.mtl"},
			{RunID: "run-b", Index: 1, Status: domain.IdentityFailed, Error: "write mesh 1: disk full"},
		},
	}
	SetServices(Services{Runs: svc})

	out, err := executeCommand(t, "runs", "show", "run-b")

	require.NoError(t, err)
	assert.Contains(t, out, "Run: run-b")
	assert.Contains(t, out, "  Duration:    2.5s")
	assert.Contains(t, out, "  Model:       /data/model.npz")
	assert.Contains(t, out, "  Manifest:    /data/out/meta.json")
	assert.Contains(t, out, "  Range:       [0, 3)")
	assert.Contains(t, out, "  Seed:        99")
	assert.Contains(t, out, "  Expressions: random")
	assert.Contains(t, out, "  Result:      2 ok / 1 failed / 0 skipped\n")
	assert.Contains(t, out, "  0  succeeded  /data/m/1/a.jpg.mtl\n")
	assert.Contains(t, out, "  1  failed  error: write mesh 1: disk full\n")
}

func TestRunsShow_Unfinished(t *testing.T) {
	SetServices(Services{Runs: &mockRunService{runs: testRuns()}})

	out, err := executeCommand(t, "runs", "show", "run-a")

	require.NoError(t, err)
	assert.NotContains(t, out, "Duration:")
	assert.NotContains(t, out, "Manifest:")
	assert.NotContains(t, out, "Identities:")
	assert.Contains(t, out, "(unfinished)")
}

func TestRunsShow_NotFound(t *testing.T) {
	SetServices(Services{Runs: &mockRunService{}})

	_, err := executeCommand(t, "runs", "show", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunsShow_RequiresID(t *testing.T) {
	SetServices(Services{Runs: &mockRunService{}})

	_, err := executeCommand(t, "runs", "show")

	assert.Error(t, err)
}
