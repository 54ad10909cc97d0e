package driven

import "github.com/LeCongThuong/facescape/internal/core/domain"

// MaterialName is the material every exported mesh binds to.
const MaterialName = "material_0"

// MeshWriter persists mesh geometry.
type MeshWriter interface {
	// Write stores mesh as <dir>/<name>.<ext> referencing the material
	// file <name>.mtl. Returns the written path.
	Write(dir, name string, mesh *domain.Mesh) (string, error)
}
