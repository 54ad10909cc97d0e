package bilinear

import (
	"context"
	"fmt"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// Array names inside the model archive.
const (
	keyCore      = "shape_bm_core"
	keyIDMean    = "id_mean"
	keyIDVar     = "id_var"
	keyFaces     = "fv_indices"
	keyTexCoords = "vt_list"
	keyTexFaces  = "ft_indices"

	// keyTexCoordsAlt is the name used by the FaceScape toolkit.
	keyTexCoordsAlt = "texcoords"
)

// Ensure Loader implements the interface.
var _ driven.ModelLoader = (*Loader)(nil)

// Loader opens bilinear models from .npz archives.
type Loader struct{}

// NewLoader creates a new model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the model archive at path.
func (l *Loader) Load(ctx context.Context, path string) (driven.MorphableModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model archive: %w", err)
	}
	defer r.Close()

	m, err := read(newArchive(r))
	if err != nil {
		return nil, err
	}
	m.info.Path = path
	return m, nil
}

// Ensure Model implements the interface.
var _ driven.MorphableModel = (*Model)(nil)

// Model is an in-memory bilinear model. It is immutable after loading and
// safe for concurrent use.
type Model struct {
	info domain.ModelInfo

	// core is the (rows, middle, last) tensor in row-major order. idLast
	// selects the (3V, E, I) layout over (3V, I, E).
	core    []float32
	rows    int
	idDims  int
	expDims int
	idLast  bool

	idMean []float64
	idVar  []float64

	faces     [][]int
	texCoords [][2]float64
	texFaces  [][]int
}

// read builds a model from an opened archive.
//
//nolint:gocyclo // Sequential validation of every array in the archive
func read(a *archive) (*Model, error) {
	core, shape, dtype, err := a.float32s(keyCore)
	if err != nil {
		return nil, err
	}
	if len(shape) != 3 || shape[0]%3 != 0 {
		return nil, fmt.Errorf("%w: %s has shape %v, want (3V, E, I) or (3V, I, E)", domain.ErrModelFormat, keyCore, shape)
	}
	if len(core) != shape[0]*shape[1]*shape[2] {
		return nil, fmt.Errorf("%w: %s holds %d values for shape %v", domain.ErrModelFormat, keyCore, len(core), shape)
	}
	m := &Model{
		core: core,
		rows: shape[0],
	}

	if m.idMean, _, err = a.float64s(keyIDMean); err != nil {
		return nil, err
	}
	if m.idVar, _, err = a.float64s(keyIDVar); err != nil {
		return nil, err
	}
	if len(m.idMean) != len(m.idVar) {
		return nil, fmt.Errorf("%w: identity mean has %d components, variance has %d",
			domain.ErrDimensionMismatch, len(m.idMean), len(m.idVar))
	}

	// The identity axis is the one matching the prior. FaceScape stores
	// (3V, E, I); when both axes match that layout wins.
	switch n := len(m.idMean); {
	case shape[2] == n:
		m.idDims, m.expDims, m.idLast = shape[2], shape[1], true
	case shape[1] == n:
		m.idDims, m.expDims = shape[1], shape[2]
	default:
		return nil, fmt.Errorf("%w: identity prior has %d components, core shape is %v",
			domain.ErrDimensionMismatch, n, shape)
	}
	logger.Debug("Core layout %v, identity axis last: %t", shape, m.idLast)

	fv, fvShape, err := a.ints(keyFaces)
	if err != nil {
		return nil, err
	}
	if m.faces, err = reshapeFaces(keyFaces, fv, fvShape, m.rows/3); err != nil {
		return nil, err
	}

	texKey := keyTexCoords
	if !a.has(texKey) {
		texKey = keyTexCoordsAlt
	}
	if a.has(texKey) && a.has(keyTexFaces) {
		vt, vtShape, err := a.float64s(texKey)
		if err != nil {
			return nil, err
		}
		if len(vtShape) != 2 || vtShape[1] != 2 {
			return nil, fmt.Errorf("%w: %s has shape %v, want (T, 2)", domain.ErrModelFormat, texKey, vtShape)
		}
		m.texCoords = make([][2]float64, vtShape[0])
		for i := range m.texCoords {
			m.texCoords[i] = [2]float64{vt[2*i], vt[2*i+1]}
		}

		ft, ftShape, err := a.ints(keyTexFaces)
		if err != nil {
			return nil, err
		}
		if m.texFaces, err = reshapeFaces(keyTexFaces, ft, ftShape, len(m.texCoords)); err != nil {
			return nil, err
		}
	} else {
		logger.Debug("Model has no texture layout, meshes will be written without uv coordinates")
	}

	// Validate topology once against an empty vertex buffer of the right size.
	template := &domain.Mesh{
		Vertices:      make([][3]float64, m.rows/3),
		TexCoords:     m.texCoords,
		Faces:         m.faces,
		FaceTexCoords: m.texFaces,
	}
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("model topology: %w", err)
	}

	arity := 0
	if len(m.faces) > 0 {
		arity = len(m.faces[0])
	}
	m.info = domain.ModelInfo{
		Vertices:       m.rows / 3,
		Faces:          len(m.faces),
		FaceArity:      arity,
		TexCoords:      len(m.texCoords),
		IdentityDims:   m.idDims,
		ExpressionDims: m.expDims,
		DType:          dtype,
	}
	return m, nil
}

// reshapeFaces splits a flat (F, k) index array into faces and makes the
// indices zero-based. count is the number of elements the indices refer to.
//
// Indices that all fit below count are zero-based. Indices reaching count
// are one-based, which requires that none of them is 0.
func reshapeFaces(name string, flat, shape []int, count int) ([][]int, error) {
	if len(shape) != 2 || shape[1] < 3 {
		return nil, fmt.Errorf("%w: %s has shape %v, want (F, k>=3)", domain.ErrModelFormat, name, shape)
	}
	if len(flat) == 0 {
		return nil, nil
	}

	lowest, highest := flat[0], flat[0]
	for _, v := range flat {
		lowest = min(lowest, v)
		highest = max(highest, v)
	}
	var offset int
	switch {
	case lowest < 0:
		return nil, fmt.Errorf("%w: %s has negative index %d", domain.ErrModelFormat, name, lowest)
	case highest < count:
		offset = 0
	case highest == count && lowest >= 1:
		offset = 1
	default:
		return nil, fmt.Errorf("%w: %s indices span [%d, %d] for %d elements",
			domain.ErrModelFormat, name, lowest, highest, count)
	}

	k := shape[1]
	faces := make([][]int, shape[0])
	for i := range faces {
		face := make([]int, k)
		for j := range face {
			face[j] = flat[i*k+j] - offset
		}
		faces[i] = face
	}
	return faces, nil
}

// Info describes the model dimensions.
func (m *Model) Info() domain.ModelInfo {
	return m.info
}

// IdentityMean is the per-component mean of the identity prior.
func (m *Model) IdentityMean() []float64 {
	return m.idMean
}

// IdentityVariance is the per-component variance of the identity prior.
func (m *Model) IdentityVariance() []float64 {
	return m.idVar
}

// Generate contracts the core tensor with the coefficient vector of its
// last axis, then with the vector of its middle axis. For the FaceScape
// layout that is verts = (core x_I id) x_E exp.
//
// The returned mesh shares its topology slices with the model; callers
// must not modify Faces, TexCoords or FaceTexCoords.
func (m *Model) Generate(coeffs domain.Coefficients) (*domain.Mesh, error) {
	if len(coeffs.Identity) != m.idDims {
		return nil, fmt.Errorf("%w: identity vector has %d components, model expects %d",
			domain.ErrDimensionMismatch, len(coeffs.Identity), m.idDims)
	}
	if len(coeffs.Expression) != m.expDims {
		return nil, fmt.Errorf("%w: expression vector has %d components, model expects %d",
			domain.ErrDimensionMismatch, len(coeffs.Expression), m.expDims)
	}

	middle, last := coeffs.Identity, coeffs.Expression
	if m.idLast {
		middle, last = coeffs.Expression, coeffs.Identity
	}

	// (rows*middle, last) x last -> (rows*middle)
	partial := make([]float32, m.rows*len(middle))
	blas32.Gemv(blas.NoTrans, 1,
		blas32.General{Rows: m.rows * len(middle), Cols: len(last), Stride: len(last), Data: m.core},
		vector(toFloat32(last)),
		0,
		vector(partial),
	)

	// (rows, middle) x middle -> (rows)
	flat := make([]float32, m.rows)
	blas32.Gemv(blas.NoTrans, 1,
		blas32.General{Rows: m.rows, Cols: len(middle), Stride: len(middle), Data: partial},
		vector(toFloat32(middle)),
		0,
		vector(flat),
	)

	verts := make([][3]float64, m.rows/3)
	for i := range verts {
		verts[i] = [3]float64{float64(flat[3*i]), float64(flat[3*i+1]), float64(flat[3*i+2])}
	}

	return &domain.Mesh{
		Vertices:      verts,
		TexCoords:     m.texCoords,
		Faces:         m.faces,
		FaceTexCoords: m.texFaces,
	}, nil
}

func vector(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
