// Package manifest writes run manifests as JSON.
//
// The manifest is an object keyed by identity index, in ascending index
// order:
//
//	{
//	    "0": {
//	        "displacement_image": "/assets/dpmap/m01.png"
//	    }
//	}
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
)

// indent matches the layout downstream tooling already reads.
const indent = "    "

// Ensure Writer implements the interface.
var _ driven.ManifestWriter = (*Writer)(nil)

// Writer writes manifests to JSON files.
type Writer struct{}

// NewWriter creates a new manifest writer.
func NewWriter() *Writer {
	return &Writer{}
}

// entry is the JSON value stored per identity.
type entry struct {
	DisplacementImage string `json:"displacement_image"`
}

// ordered marshals entries as an object without re-sorting keys.
type ordered []domain.ManifestEntry

// MarshalJSON implements json.Marshaler.
func (o ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(e.Index)))
		buf.WriteByte(':')
		val, err := encode(entry{DisplacementImage: e.DisplacementImage}, "")
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal renders a manifest.
func Marshal(m *domain.Manifest) ([]byte, error) {
	return encode(ordered(m.Sorted()), indent)
}

// encode marshals v leaving HTML characters and non-ASCII text unescaped.
func encode(v any, ind string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if ind != "" {
		enc.SetIndent("", ind)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write stores the manifest at path, creating parent directories.
func (w *Writer) Write(path string, m *domain.Manifest) error {
	if m == nil {
		m = &domain.Manifest{}
	}
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("creating manifest file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting manifest permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing manifest: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
