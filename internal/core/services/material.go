package services

import (
	"context"
	"fmt"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

// Ensure MaterialService implements the interface.
var _ driving.MaterialService = (*MaterialService)(nil)

// MaterialService lists material assets.
type MaterialService struct {
	catalog driven.MaterialCatalog
}

// NewMaterialService creates a new material service.
func NewMaterialService(catalog driven.MaterialCatalog) *MaterialService {
	return &MaterialService{catalog: catalog}
}

// List returns every material under dir with companion file status.
func (s *MaterialService) List(ctx context.Context, dir string) ([]domain.MaterialStatus, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: material directory is required", domain.ErrInvalidInput)
	}

	assets, err := s.catalog.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.MaterialStatus, 0, len(assets))
	for _, asset := range assets {
		statuses = append(statuses, s.catalog.Inspect(asset))
	}
	return statuses, nil
}
