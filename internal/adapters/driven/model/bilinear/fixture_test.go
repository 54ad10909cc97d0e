package bilinear

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// array is one .npy member of a test archive.
type array struct {
	descr   string
	fortran bool
	shape   []int
	data    any
}

// encodeNPY renders a version 1.0 .npy file.
func encodeNPY(t *testing.T, a array) []byte {
	t.Helper()

	dims := make([]string, len(a.shape))
	for i, d := range a.shape {
		dims[i] = fmt.Sprint(d)
	}
	shape := "(" + strings.Join(dims, ", ")
	if len(a.shape) == 1 {
		shape += ","
	}
	shape += ")"

	order := "False"
	if a.fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", a.descr, order, shape)
	// Pad so the data starts on a 64-byte boundary.
	pad := 64 - (10+len(header)+1)%64
	header += strings.Repeat(" ", pad%64) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY\x01\x00")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, a.data))
	return buf.Bytes()
}

// writeNPZ writes arrays as an uncompressed .npz archive.
func writeNPZ(t *testing.T, arrays map[string]array) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.npz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, a := range arrays {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name + ".npy", Method: zip.Store})
		require.NoError(t, err)
		_, err = w.Write(encodeNPY(t, a))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// Fixture dimensions: 3 vertices, 2 identity and 3 expression components.
const (
	fixtureVertices = 3
	fixtureID       = 2
	fixtureExp      = 3
)

// fixtureCore fills core[r][i][e] = 100r + 10i + e.
func fixtureCore() []float32 {
	rows := 3 * fixtureVertices
	core := make([]float32, 0, rows*fixtureID*fixtureExp)
	for r := range rows {
		for i := range fixtureID {
			for e := range fixtureExp {
				core = append(core, float32(100*r+10*i+e))
			}
		}
	}
	return core
}

// fixtureCoreExpFirst holds the same values as fixtureCore in the
// (3V, E, I) layout: core[r][e][i] = 100r + 10i + e.
func fixtureCoreExpFirst() []float32 {
	rows := 3 * fixtureVertices
	core := make([]float32, 0, rows*fixtureID*fixtureExp)
	for r := range rows {
		for e := range fixtureExp {
			for i := range fixtureID {
				core = append(core, float32(100*r+10*i+e))
			}
		}
	}
	return core
}

func fixtureArrays() map[string]array {
	return map[string]array{
		keyCore:      {descr: "<f4", shape: []int{3 * fixtureVertices, fixtureID, fixtureExp}, data: fixtureCore()},
		keyIDMean:    {descr: "<f8", shape: []int{fixtureID}, data: []float64{0.5, -0.25}},
		keyIDVar:     {descr: "<f4", shape: []int{fixtureID}, data: []float32{4, 1}},
		keyFaces:     {descr: "<i4", shape: []int{1, 3}, data: []int32{1, 2, 3}},
		keyTexCoords: {descr: "<f8", shape: []int{3, 2}, data: []float64{0, 0, 1, 0, 0.5, 1}},
		keyTexFaces:  {descr: "<i8", shape: []int{1, 3}, data: []int64{0, 1, 2}},
	}
}
