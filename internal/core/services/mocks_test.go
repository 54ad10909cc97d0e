package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
)

// mockModel is a linear stand-in for a bilinear model. Its single vertex
// carries the first three identity weights so tests can observe sampling.
type mockModel struct {
	idDims  int
	expDims int
}

func (m *mockModel) Info() domain.ModelInfo {
	return domain.ModelInfo{
		Path:           "model.npz",
		Vertices:       3,
		Faces:          1,
		FaceArity:      3,
		IdentityDims:   m.idDims,
		ExpressionDims: m.expDims,
		DType:          "<f4",
	}
}

func (m *mockModel) IdentityMean() []float64 {
	return make([]float64, m.idDims)
}

func (m *mockModel) IdentityVariance() []float64 {
	v := make([]float64, m.idDims)
	for i := range v {
		v[i] = 1
	}
	return v
}

func (m *mockModel) Generate(coeffs domain.Coefficients) (*domain.Mesh, error) {
	if len(coeffs.Identity) != m.idDims || len(coeffs.Expression) != m.expDims {
		return nil, domain.ErrDimensionMismatch
	}
	id := coeffs.Identity
	return &domain.Mesh{
		Vertices: [][3]float64{{id[0], id[1], id[2]}, {1, 0, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}},
	}, nil
}

type mockLoader struct {
	model driven.MorphableModel
	err   error
	calls int
}

func (l *mockLoader) Load(_ context.Context, _ string) (driven.MorphableModel, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}

type mockCatalog struct {
	assets []domain.MaterialAsset
	err    error
}

func (c *mockCatalog) Discover(_ context.Context, _ string) ([]domain.MaterialAsset, error) {
	return c.assets, c.err
}

func (c *mockCatalog) Inspect(asset domain.MaterialAsset) domain.MaterialStatus {
	return domain.MaterialStatus{Asset: asset, TextureExists: true, DisplacementExists: asset.Name != "broken"}
}

// mockMeshWriter writes a placeholder file and remembers the first vertex
// of every mesh by name.
type mockMeshWriter struct {
	mu     sync.Mutex
	failOn map[string]bool
	first  map[string][3]float64
}

func newMockMeshWriter(failOn ...string) *mockMeshWriter {
	w := &mockMeshWriter{failOn: make(map[string]bool), first: make(map[string][3]float64)}
	for _, name := range failOn {
		w.failOn[name] = true
	}
	return w
}

func (w *mockMeshWriter) Write(dir, name string, mesh *domain.Mesh) (string, error) {
	if w.failOn[name] {
		return "", errors.New("disk full")
	}
	path := filepath.Join(dir, name+".obj")
	if err := os.WriteFile(path, []byte("# mesh\n"), 0o644); err != nil {
		return "", err
	}
	w.mu.Lock()
	w.first[name] = mesh.Vertices[0]
	w.mu.Unlock()
	return path, nil
}

func (w *mockMeshWriter) vertex(name string) [3]float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.first[name]
}

type mockMaterialWriter struct {
	mu       sync.Mutex
	attached map[string]string
}

func newMockMaterialWriter() *mockMaterialWriter {
	return &mockMaterialWriter{attached: make(map[string]string)}
}

func (w *mockMaterialWriter) Attach(dir, name string, asset domain.MaterialAsset, _ domain.TextureLayout) ([]string, error) {
	path := filepath.Join(dir, name+".mtl")
	if err := os.WriteFile(path, []byte("map_Kd "+asset.TexturePath+"\n"), 0o644); err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.attached[name] = asset.Name
	w.mu.Unlock()
	return []string{path}, nil
}

func (w *mockMaterialWriter) material(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attached[name]
}

type mockManifestWriter struct {
	path     string
	manifest *domain.Manifest
	err      error
}

func (w *mockManifestWriter) Write(path string, manifest *domain.Manifest) error {
	w.path = path
	w.manifest = manifest
	return w.err
}

type mockSink struct {
	mu       sync.Mutex
	prefixes []string
	err      error
}

func (s *mockSink) Upload(_ context.Context, prefix string, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files for %s", prefix)
	}
	s.prefixes = append(s.prefixes, prefix)
	return nil
}
