package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// materialExt is the extension of material files.
const materialExt = ".mtl"

// Ensure Catalog implements the interface.
var _ driven.MaterialCatalog = (*Catalog)(nil)

// Catalog discovers material assets by walking a directory tree.
type Catalog struct{}

// NewCatalog creates a new material catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Discover returns every .mtl file under dir, sorted by path.
func (c *Catalog) Discover(ctx context.Context, dir string) ([]domain.MaterialAsset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading material directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != materialExt {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking material directory: %w", err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", domain.ErrNoMaterials, dir)
	}
	sort.Strings(paths)

	assets := make([]domain.MaterialAsset, len(paths))
	for i, p := range paths {
		assets[i] = domain.NewMaterialAsset(p)
	}
	logger.Debug("Discovered %d materials under %s", len(assets), dir)
	return assets, nil
}

// Inspect reports which companion files of an asset exist.
func (c *Catalog) Inspect(asset domain.MaterialAsset) domain.MaterialStatus {
	return domain.MaterialStatus{
		Asset:              asset,
		TextureExists:      fileExists(asset.TexturePath),
		DisplacementExists: fileExists(asset.DisplacementPath),
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
