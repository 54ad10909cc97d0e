package bilinear

import (
	"fmt"
	"strings"

	"github.com/sbinet/npyio/npy"
	"github.com/sbinet/npyio/npz"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// archive wraps an npz reader with dtype-aware accessors.
type archive struct {
	r    *npz.Reader
	keys map[string]string
}

func newArchive(r *npz.Reader) *archive {
	keys := make(map[string]string)
	for _, k := range r.Keys() {
		keys[strings.TrimSuffix(k, ".npy")] = k
	}
	return &archive{r: r, keys: keys}
}

func (a *archive) has(name string) bool {
	_, ok := a.keys[name]
	return ok
}

// header returns the array header and its dtype without byte order marker.
func (a *archive) header(name string) (*npy.Header, string, error) {
	key, ok := a.keys[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: missing array %q", domain.ErrModelFormat, name)
	}
	hdr := a.r.Header(key)
	if hdr == nil {
		return nil, "", fmt.Errorf("%w: unreadable header for %q", domain.ErrModelFormat, name)
	}
	if hdr.Descr.Fortran {
		return nil, "", fmt.Errorf("%w: %q is stored in Fortran order", domain.ErrModelFormat, name)
	}
	return hdr, strings.TrimLeft(hdr.Descr.Type, "<|="), nil
}

// float32s reads a floating point array, narrowing float64 data.
func (a *archive) float32s(name string) ([]float32, []int, string, error) {
	hdr, dtype, err := a.header(name)
	if err != nil {
		return nil, nil, "", err
	}
	key := a.keys[name]

	switch dtype {
	case "f4":
		var out []float32
		if err := a.r.Read(key, &out); err != nil {
			return nil, nil, "", fmt.Errorf("read %s: %w", name, err)
		}
		return out, hdr.Descr.Shape, hdr.Descr.Type, nil
	case "f8":
		var raw []float64
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, "", fmt.Errorf("read %s: %w", name, err)
		}
		out := make([]float32, len(raw))
		for i, v := range raw {
			out[i] = float32(v)
		}
		return out, hdr.Descr.Shape, hdr.Descr.Type, nil
	default:
		return nil, nil, "", fmt.Errorf("%w: %q has dtype %s, want float", domain.ErrModelFormat, name, hdr.Descr.Type)
	}
}

// float64s reads a floating point array, widening float32 data.
func (a *archive) float64s(name string) ([]float64, []int, error) {
	hdr, dtype, err := a.header(name)
	if err != nil {
		return nil, nil, err
	}
	key := a.keys[name]

	switch dtype {
	case "f8":
		var out []float64
		if err := a.r.Read(key, &out); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		return out, hdr.Descr.Shape, nil
	case "f4":
		var raw []float32
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, hdr.Descr.Shape, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q has dtype %s, want float", domain.ErrModelFormat, name, hdr.Descr.Type)
	}
}

// ints reads an integer array of any width.
func (a *archive) ints(name string) ([]int, []int, error) {
	hdr, dtype, err := a.header(name)
	if err != nil {
		return nil, nil, err
	}
	key := a.keys[name]

	var out []int
	switch dtype {
	case "i4":
		var raw []int32
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = widen(raw)
	case "i8":
		var raw []int64
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = widen(raw)
	case "u4":
		var raw []uint32
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = widen(raw)
	case "u8":
		var raw []uint64
		if err := a.r.Read(key, &raw); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = widen(raw)
	default:
		return nil, nil, fmt.Errorf("%w: %q has dtype %s, want integer", domain.ErrModelFormat, name, hdr.Descr.Type)
	}
	return out, hdr.Descr.Shape, nil
}

func widen[T int32 | int64 | uint32 | uint64](in []T) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
