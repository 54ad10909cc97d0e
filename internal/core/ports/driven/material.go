package driven

import (
	"context"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

// MaterialCatalog enumerates material assets.
type MaterialCatalog interface {
	// Discover returns every material under dir in a stable order.
	// Returns domain.ErrNoMaterials if none are found.
	Discover(ctx context.Context, dir string) ([]domain.MaterialAsset, error)

	// Inspect reports which companion files of an asset exist.
	Inspect(asset domain.MaterialAsset) domain.MaterialStatus
}

// MaterialWriter attaches a material asset to a generated mesh.
type MaterialWriter interface {
	// Attach writes <dir>/<name>.mtl from asset, plus any images the
	// layout requires. Returns the written paths.
	Attach(dir, name string, asset domain.MaterialAsset, layout domain.TextureLayout) ([]string, error)
}
