package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

// Ensure ModelInspector implements the interface.
var _ driving.ModelInspector = (*ModelInspector)(nil)

// ModelInspector loads models to report their dimensions.
type ModelInspector struct {
	loader driven.ModelLoader
}

// NewModelInspector creates a new model inspector.
func NewModelInspector(loader driven.ModelLoader) *ModelInspector {
	return &ModelInspector{loader: loader}
}

// Inspect loads the model at path and describes it.
func (s *ModelInspector) Inspect(ctx context.Context, path string) (*domain.ModelInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: model path is required", domain.ErrInvalidInput)
	}
	if s.loader == nil {
		return nil, errors.New("model loader not configured")
	}

	model, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	info := model.Info()
	return &info, nil
}
