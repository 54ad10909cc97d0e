package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// Sampler draws coefficient vectors and material choices.
// Every identity index gets its own random stream derived from the seed,
// so output does not depend on the order identities are generated in.
type Sampler struct {
	seed uint64
}

// NewSampler creates a sampler for a run seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{seed: seed}
}

// Rand returns the random stream for an identity.
func (s *Sampler) Rand(index int) *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, uint64(index)))
}

// SampleIdentity draws each identity component from Normal(mean, sqrt(variance)).
// The vector is negated when its first component is positive, which keeps
// samples on the same side of the principal identity axis.
func SampleIdentity(rng *rand.Rand, mean, variance []float64) ([]float64, error) {
	if len(mean) != len(variance) {
		return nil, fmt.Errorf("%w: identity mean has %d components, variance has %d",
			domain.ErrDimensionMismatch, len(mean), len(variance))
	}
	if len(mean) == 0 {
		return nil, fmt.Errorf("%w: empty identity prior", domain.ErrModelFormat)
	}

	vec := make([]float64, len(mean))
	for i := range mean {
		if variance[i] < 0 || math.IsNaN(variance[i]) {
			return nil, fmt.Errorf("%w: identity variance %d is %v", domain.ErrModelFormat, i, variance[i])
		}
		n := distuv.Normal{Mu: mean[i], Sigma: math.Sqrt(variance[i]), Src: rng}
		vec[i] = n.Rand()
	}

	if vec[0] > 0 {
		for i := range vec {
			vec[i] = -vec[i]
		}
	}
	return vec, nil
}

// Expression is a named expression vector.
type Expression struct {
	// Suffix is appended to the identity name, empty for single-mesh modes.
	Suffix string

	// Weights has one entry per blendshape.
	Weights []float64
}

// ExpressionVectors builds the expression vectors for one identity.
// Blendshape 0 is the neutral face.
func ExpressionVectors(rng *rand.Rand, mode domain.ExpressionMode, dims int) ([]Expression, error) {
	if dims < 1 {
		return nil, fmt.Errorf("%w: model has no expression blendshapes", domain.ErrModelFormat)
	}

	switch mode {
	case domain.ExpressionModeRandom:
		w := make([]float64, dims)
		w[0] = 1
		w[rng.IntN(dims)] = 1
		return []Expression{{Weights: w}}, nil
	case domain.ExpressionModeNeutral:
		w := make([]float64, dims)
		w[0] = 1
		return []Expression{{Weights: w}}, nil
	case domain.ExpressionModeSweep:
		out := make([]Expression, dims)
		for e := range dims {
			w := make([]float64, dims)
			w[e] = 1
			out[e] = Expression{Suffix: "_" + strconv.Itoa(e), Weights: w}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expression mode %q", domain.ErrInvalidInput, mode)
	}
}

// PickMaterial chooses a material uniformly.
func PickMaterial(rng *rand.Rand, assets []domain.MaterialAsset) (domain.MaterialAsset, error) {
	if len(assets) == 0 {
		return domain.MaterialAsset{}, domain.ErrNoMaterials
	}
	return assets[rng.IntN(len(assets))], nil
}
