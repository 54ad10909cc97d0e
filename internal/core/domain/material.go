package domain

import (
	"path/filepath"
	"strings"
)

// DisplacementDirName is the sibling directory holding displacement maps.
const DisplacementDirName = "dpmap"

// MaterialAsset is a material file plus the images it is paired with.
//
// Assets are laid out as:
//
//	<root>/<group>/<name>.mtl
//	<root>/<group>/<name>.jpg
//	<root>/dpmap/<name>.png
type MaterialAsset struct {
	// MaterialPath is the .mtl file.
	MaterialPath string

	// Name is the material file name up to its first dot.
	Name string

	// TexturePath is the diffuse texture image.
	TexturePath string

	// DisplacementPath is the displacement map.
	DisplacementPath string
}

// NewMaterialAsset derives texture and displacement paths from a material file.
func NewMaterialAsset(mtlPath string) MaterialAsset {
	dir := filepath.Dir(mtlPath)
	name := filepath.Base(mtlPath)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return MaterialAsset{
		MaterialPath:     mtlPath,
		Name:             name,
		TexturePath:      filepath.Join(dir, name+".jpg"),
		DisplacementPath: filepath.Join(filepath.Dir(dir), DisplacementDirName, name+".png"),
	}
}

// MaterialStatus reports whether an asset's companion files exist.
type MaterialStatus struct {
	Asset              MaterialAsset
	TextureExists      bool
	DisplacementExists bool
}

// Complete returns true if all companion files are present.
func (s MaterialStatus) Complete() bool {
	return s.TextureExists && s.DisplacementExists
}
