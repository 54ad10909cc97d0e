// Package obj writes meshes as Wavefront OBJ files.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.MeshWriter = (*Writer)(nil)

// Writer writes <name>.obj files that bind every face to driven.MaterialName
// from <name>.mtl.
type Writer struct{}

// NewWriter creates a new OBJ writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores mesh as <dir>/<name>.obj. The file is written to a temporary
// name first and renamed, so a crash never leaves a truncated mesh.
func (w *Writer) Write(dir, name string, mesh *domain.Mesh) (string, error) {
	if mesh == nil {
		return "", fmt.Errorf("%w: nil mesh", domain.ErrInvalidInput)
	}

	path := filepath.Join(dir, name+".obj")
	tmp, err := os.CreateTemp(dir, "."+name+".*.obj")
	if err != nil {
		return "", fmt.Errorf("creating mesh file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("setting mesh permissions: %w", err)
	}
	if err := Encode(tmp, name+".mtl", mesh); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing mesh: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing mesh file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming mesh file: %w", err)
	}
	return path, nil
}

// Encode writes mesh in OBJ format. Indices are written one-based.
func Encode(out io.Writer, mtlFile string, mesh *domain.Mesh) error {
	bw := bufio.NewWriterSize(out, 1<<16)
	withUV := mesh.HasTexCoords()

	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(mesh.Vertices), len(mesh.Faces))
	fmt.Fprintf(bw, "mtllib %s\n", mtlFile)

	buf := make([]byte, 0, 64)
	for _, v := range mesh.Vertices {
		buf = append(buf[:0], "v "...)
		buf = appendFloat(buf, v[0])
		buf = append(buf, ' ')
		buf = appendFloat(buf, v[1])
		buf = append(buf, ' ')
		buf = appendFloat(buf, v[2])
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	if withUV {
		for _, t := range mesh.TexCoords {
			buf = append(buf[:0], "vt "...)
			buf = appendFloat(buf, t[0])
			buf = append(buf, ' ')
			buf = appendFloat(buf, t[1])
			buf = append(buf, '\n')
			bw.Write(buf)
		}
	}

	fmt.Fprintf(bw, "usemtl %s\n", driven.MaterialName)

	for i, face := range mesh.Faces {
		buf = append(buf[:0], 'f')
		for j, v := range face {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(v+1), 10)
			if withUV {
				buf = append(buf, '/')
				buf = strconv.AppendInt(buf, int64(mesh.FaceTexCoords[i][j]+1), 10)
			}
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	// bufio keeps the first write error and reports it on Flush.
	return bw.Flush()
}

func appendFloat(buf []byte, f float64) []byte {
	return strconv.AppendFloat(buf, f, 'f', 6, 64)
}
