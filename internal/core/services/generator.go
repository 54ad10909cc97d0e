package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// Ensure Generator implements the interface.
var _ driving.DatasetGenerator = (*Generator)(nil)

// Generator coordinates dataset generation.
type Generator struct {
	loader         driven.ModelLoader
	catalog        driven.MaterialCatalog
	meshWriter     driven.MeshWriter
	materialWriter driven.MaterialWriter
	manifestWriter driven.ManifestWriter
	runStore       driven.RunStore
	sink           driven.ArtifactSink

	now   func() time.Time
	newID func() string
}

// NewGenerator creates a new dataset generator.
// runStore and sink are optional - if nil, runs are not recorded and
// uploads are unavailable.
func NewGenerator(
	loader driven.ModelLoader,
	catalog driven.MaterialCatalog,
	meshWriter driven.MeshWriter,
	materialWriter driven.MaterialWriter,
	manifestWriter driven.ManifestWriter,
	runStore driven.RunStore,
	sink driven.ArtifactSink,
) *Generator {
	return &Generator{
		loader:         loader,
		catalog:        catalog,
		meshWriter:     meshWriter,
		materialWriter: materialWriter,
		manifestWriter: manifestWriter,
		runStore:       runStore,
		sink:           sink,
		now:            time.Now,
		newID:          func() string { return uuid.New().String() },
	}
}

// Generate produces every identity in [StartIdx, EndIdx).
//
// A failed identity has its directory removed and the run continues,
// unless FailFast is set. The manifest lists succeeded identities only.
//
//nolint:gocognit // Orchestration function coordinating the worker pool
func (g *Generator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	progress driving.ProgressFunc,
) (*driving.RunReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Upload && g.sink == nil {
		return nil, domain.ErrUploadUnavailable
	}

	// 1. Load the model
	logger.Section("Model")
	model, err := g.loader.Load(ctx, req.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	info := model.Info()
	logger.Info("Loaded %s: %d vertices, %d faces, %d identity dims, %d expression dims",
		info.Path, info.Vertices, info.Faces, info.IdentityDims, info.ExpressionDims)

	// 2. Enumerate materials
	assets, err := g.catalog.Discover(ctx, req.MaterialDir)
	if err != nil {
		return nil, fmt.Errorf("discover materials: %w", err)
	}
	logger.Info("Found %d materials under %s", len(assets), req.MaterialDir)

	// 3. Open the run
	started := g.now()
	run := domain.NewRun(g.newID(), req, started)
	if g.runStore != nil {
		if err := g.runStore.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	if err := os.MkdirAll(req.OutputPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// 4. Generate identities on a bounded pool
	logger.Section("Generate")
	sampler := NewSampler(req.Seed)
	results := make([]domain.IdentityResult, req.Count())

	var mu sync.Mutex
	done := 0
	report := func(res domain.IdentityResult) {
		if g.runStore != nil {
			if err := g.runStore.RecordIdentity(ctx, res); err != nil {
				logger.Warn("Failed to record identity %d: %v", res.Index, err)
			}
		}
		mu.Lock()
		defer mu.Unlock()
		results[res.Index-req.StartIdx] = res
		done++
		if progress != nil {
			progress(driving.Progress{Done: done, Total: len(results), Last: res})
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(req.Workers)
	for idx := req.StartIdx; idx < req.EndIdx; idx++ {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			// Slots freed by a failing identity must not start new work.
			if egCtx.Err() != nil {
				return nil
			}
			res := g.generateIdentity(egCtx, model, assets, sampler, req, run.ID, idx)
			report(res)
			if res.Status == domain.IdentityFailed && req.FailFast {
				return fmt.Errorf("%w: identity %d: %s", domain.ErrGenerationFailed, idx, res.Error)
			}
			return nil
		})
	}
	runErr := eg.Wait()
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}

	// 5. Close the run
	finished := make([]domain.IdentityResult, 0, len(results))
	manifest := &domain.Manifest{}
	for _, res := range results {
		switch res.Status {
		case domain.IdentitySucceeded:
			run.Succeeded++
			manifest.Add(res.Index, res.DisplacementPath)
		case domain.IdentityFailed:
			run.Failed++
		case domain.IdentitySkipped:
			run.Skipped++
		default:
			// never started
			continue
		}
		finished = append(finished, res)
	}
	ended := g.now()
	run.EndedAt = &ended

	out := &driving.RunReport{
		Run:     run,
		Results: finished,
		Elapsed: ended.Sub(started),
	}

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}

	if req.ManifestPath != "" {
		if err := g.manifestWriter.Write(req.ManifestPath, manifest); err != nil {
			errs = append(errs, fmt.Errorf("write manifest: %w", err))
		} else {
			out.ManifestPath = req.ManifestPath
			logger.Info("Wrote manifest with %d entries to %s", manifest.Len(), req.ManifestPath)
		}
	}

	if g.runStore != nil {
		// The caller's context may already be cancelled; the ledger should
		// still see the final counts.
		if err := g.runStore.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			errs = append(errs, fmt.Errorf("save run: %w", err))
		}
	}

	logger.Info("Run %s complete: %d succeeded, %d failed, %d skipped",
		run.ID, run.Succeeded, run.Failed, run.Skipped)

	return out, errors.Join(errs...)
}

// generateIdentity produces a single identity. It never returns an error;
// failures are captured in the result.
func (g *Generator) generateIdentity(
	ctx context.Context,
	model driven.MorphableModel,
	assets []domain.MaterialAsset,
	sampler *Sampler,
	req domain.GenerationRequest,
	runID string,
	idx int,
) domain.IdentityResult {
	start := g.now()
	name := strconv.Itoa(idx)
	dir := filepath.Join(req.OutputPath, name)
	res := domain.IdentityResult{RunID: runID, Index: idx}

	if req.SkipExisting && meshExists(dir) {
		logger.Debug("Identity %d already exists, skipping", idx)
		res.Status = domain.IdentitySkipped
		return res
	}

	rng := sampler.Rand(idx)
	asset, err := PickMaterial(rng, assets)
	if err != nil {
		res.Status = domain.IdentityFailed
		res.Error = err.Error()
		return res
	}
	res.MaterialPath = asset.MaterialPath
	res.DisplacementPath = asset.DisplacementPath

	files, err := g.produce(model, rng, req, dir, name, asset)
	if err != nil {
		// Partial identities are never left behind.
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("Failed to remove %s: %v", dir, rmErr)
		}
		logger.Warn("Identity %d failed: %v", idx, err)
		res.Status = domain.IdentityFailed
		res.Error = err.Error()
		res.Duration = g.now().Sub(start)
		return res
	}

	res.Status = domain.IdentitySucceeded
	res.Files = files

	if req.Upload {
		if err := g.sink.Upload(ctx, name, files); err != nil {
			logger.Warn("Identity %d upload failed: %v", idx, err)
			res.Error = fmt.Sprintf("upload: %v", err)
		}
	}

	res.Duration = g.now().Sub(start)
	logger.Debug("Identity %d done in %s with material %s", idx, res.Duration, asset.Name)
	return res
}

// produce writes every mesh and material file for an identity.
func (g *Generator) produce(
	model driven.MorphableModel,
	rng *rand.Rand,
	req domain.GenerationRequest,
	dir, name string,
	asset domain.MaterialAsset,
) ([]string, error) {
	identity, err := SampleIdentity(rng, model.IdentityMean(), model.IdentityVariance())
	if err != nil {
		return nil, fmt.Errorf("sample identity: %w", err)
	}
	expressions, err := ExpressionVectors(rng, req.ExpressionMode, model.Info().ExpressionDims)
	if err != nil {
		return nil, fmt.Errorf("build expressions: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create identity directory: %w", err)
	}

	var files []string
	for _, exp := range expressions {
		meshName := name + exp.Suffix

		mesh, err := model.Generate(domain.Coefficients{Identity: identity, Expression: exp.Weights})
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", meshName, err)
		}

		meshPath, err := g.meshWriter.Write(dir, meshName, mesh)
		if err != nil {
			return nil, fmt.Errorf("write mesh %s: %w", meshName, err)
		}
		files = append(files, meshPath)

		written, err := g.materialWriter.Attach(dir, meshName, asset, req.Layout)
		if err != nil {
			return nil, fmt.Errorf("attach material %s: %w", meshName, err)
		}
		files = append(files, written...)
	}
	return files, nil
}

// meshExists reports whether dir already holds a mesh. Sweep runs name
// meshes <idx>_<e>.obj, so any OBJ file counts.
func meshExists(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "*.obj"))
	return err == nil && len(matches) > 0
}
