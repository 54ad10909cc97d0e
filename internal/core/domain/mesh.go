package domain

import "fmt"

// Mesh is a polygonal surface produced by the morphable model.
// Face indices are zero-based.
type Mesh struct {
	// Vertices are xyz positions.
	Vertices [][3]float64

	// TexCoords are uv coordinates. May be empty.
	TexCoords [][2]float64

	// Faces index into Vertices.
	Faces [][]int

	// FaceTexCoords index into TexCoords and run parallel to Faces.
	// Empty when the model carries no texture layout.
	FaceTexCoords [][]int
}

// HasTexCoords reports whether faces carry texture coordinate indices.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0 && len(m.FaceTexCoords) == len(m.Faces)
}

// Validate checks that every face references existing vertices and
// texture coordinates.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("%w: mesh has no vertices", ErrInvalidInput)
	}
	if len(m.FaceTexCoords) > 0 && len(m.FaceTexCoords) != len(m.Faces) {
		return fmt.Errorf("%w: %d texture faces for %d faces",
			ErrDimensionMismatch, len(m.FaceTexCoords), len(m.Faces))
	}
	for i, face := range m.Faces {
		if len(face) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidInput, i, len(face))
		}
		for _, v := range face {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d",
					ErrInvalidInput, i, v, len(m.Vertices))
			}
		}
		if len(m.FaceTexCoords) == 0 {
			continue
		}
		ft := m.FaceTexCoords[i]
		if len(ft) != len(face) {
			return fmt.Errorf("%w: face %d has %d texture indices for %d vertices",
				ErrDimensionMismatch, i, len(ft), len(face))
		}
		for _, t := range ft {
			if t < 0 || t >= len(m.TexCoords) {
				return fmt.Errorf("%w: face %d references texture coordinate %d of %d",
					ErrInvalidInput, i, t, len(m.TexCoords))
			}
		}
	}
	return nil
}

// Coefficients are the inputs of a bilinear model evaluation.
type Coefficients struct {
	// Identity weights, one per identity basis.
	Identity []float64

	// Expression weights, one per expression blendshape.
	Expression []float64
}

// ModelInfo describes a loaded morphable model.
type ModelInfo struct {
	// Path is where the model was loaded from.
	Path string

	// Vertices is the number of mesh vertices.
	Vertices int

	// Faces is the number of faces in the topology.
	Faces int

	// FaceArity is the number of vertices per face.
	FaceArity int

	// TexCoords is the number of uv coordinates, 0 if absent.
	TexCoords int

	// IdentityDims is the length of an identity vector.
	IdentityDims int

	// ExpressionDims is the length of an expression vector.
	ExpressionDims int

	// DType is the numpy dtype of the core tensor.
	DType string
}
