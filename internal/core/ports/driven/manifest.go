package driven

import "github.com/LeCongThuong/facescape/internal/core/domain"

// ManifestWriter persists a run manifest.
type ManifestWriter interface {
	// Write stores the manifest at path, replacing any existing file.
	Write(path string, manifest *domain.Manifest) error
}
