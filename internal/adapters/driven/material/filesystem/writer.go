package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/logger"
)

// diffuseMapDirective is the material statement naming the diffuse texture.
const diffuseMapDirective = "map_Kd"

// Ensure Writer implements the interface.
var _ driven.MaterialWriter = (*Writer)(nil)

// Writer copies material assets next to generated meshes.
type Writer struct{}

// NewWriter creates a new material writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Attach writes <dir>/<name>.mtl with its diffuse map pointing at the
// asset's texture. With the bundled layout the texture and displacement
// map are copied to <name>.jpg and <name>.png and referenced locally.
func (w *Writer) Attach(dir, name string, asset domain.MaterialAsset, layout domain.TextureLayout) ([]string, error) {
	var ref string
	switch layout {
	case domain.TextureLayoutReference:
		ref = asset.TexturePath
	case domain.TextureLayoutBundled:
		ref = name + ".jpg"
	default:
		return nil, fmt.Errorf("%w: texture layout %q", domain.ErrInvalidInput, layout)
	}

	src, err := os.ReadFile(asset.MaterialPath)
	if err != nil {
		return nil, fmt.Errorf("reading material: %w", err)
	}
	rewritten, replaced := RewriteDiffuseMap(string(src), ref)
	if !replaced {
		logger.Warn("Material %s has no %s line, copied unchanged", asset.MaterialPath, diffuseMapDirective)
	}

	mtlPath := filepath.Join(dir, name+".mtl")
	if err := os.WriteFile(mtlPath, []byte(rewritten), 0o644); err != nil {
		return nil, fmt.Errorf("writing material: %w", err)
	}
	written := []string{mtlPath}

	if layout == domain.TextureLayoutBundled {
		copies := []struct{ src, dst string }{
			{asset.TexturePath, filepath.Join(dir, name+".jpg")},
			{asset.DisplacementPath, filepath.Join(dir, name+".png")},
		}
		for _, c := range copies {
			if err := copyFile(c.src, c.dst); err != nil {
				return written, err
			}
			written = append(written, c.dst)
		}
	}

	return written, nil
}

// RewriteDiffuseMap replaces the first line starting with map_Kd by
// "map_Kd <ref>". Other lines, including their endings, are preserved.
func RewriteDiffuseMap(content, ref string) (string, bool) {
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, diffuseMapDirective) {
			lines[i] = diffuseMapDirective + " " + ref + "\n"
			return strings.Join(lines, ""), true
		}
	}
	return content, false
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
