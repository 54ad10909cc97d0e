package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoMaterials", ErrNoMaterials},
		{"ErrModelFormat", ErrModelFormat},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrGenerationFailed", ErrGenerationFailed},
		{"ErrUploadUnavailable", ErrUploadUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrNoMaterials, ErrModelFormat,
		ErrDimensionMismatch, ErrGenerationFailed, ErrUploadUnavailable,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("load model: %w", fmt.Errorf("%w: core has shape [2 3]", ErrModelFormat))

	assert.True(t, errors.Is(wrapped, ErrModelFormat))
	assert.False(t, errors.Is(wrapped, ErrDimensionMismatch))
	assert.Contains(t, wrapped.Error(), "unsupported model format")
}
