package driving

import (
	"context"
	"time"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// DatasetGenerator produces synthetic head meshes.
type DatasetGenerator interface {
	// Generate produces every identity in the request range.
	// progress may be nil.
	Generate(ctx context.Context, req domain.GenerationRequest, progress ProgressFunc) (*RunReport, error)
}

// ProgressFunc is called after each identity completes.
type ProgressFunc func(p Progress)

// Progress is a snapshot of a running generation.
type Progress struct {
	// Done is the number of identities finished so far.
	Done int

	// Total is the number of identities in the run.
	Total int

	// Last is the result that triggered this update.
	Last domain.IdentityResult
}

// Fraction returns completion in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// RunReport summarises a completed run.
type RunReport struct {
	// Run is the final run record.
	Run domain.Run

	// Results holds one entry per identity, ordered by index.
	Results []domain.IdentityResult

	// ManifestPath is where the manifest was written, empty if none.
	ManifestPath string

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Failures returns the failed identities.
func (r *RunReport) Failures() []domain.IdentityResult {
	var out []domain.IdentityResult
	for _, res := range r.Results {
		if res.Status == domain.IdentityFailed {
			out = append(out, res)
		}
	}
	return out
}
