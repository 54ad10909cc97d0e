package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMaterialAsset(t *testing.T) {
	mtl := filepath.Join("data", "tu_models", "1", "1_neutral.jpg.mtl")

	asset := NewMaterialAsset(mtl)

	assert.Equal(t, mtl, asset.MaterialPath)
	assert.Equal(t, "1_neutral", asset.Name)
	assert.Equal(t, filepath.Join("data", "tu_models", "1", "1_neutral.jpg"), asset.TexturePath)
	assert.Equal(t, filepath.Join("data", "tu_models", "dpmap", "1_neutral.png"), asset.DisplacementPath)
}

func TestNewMaterialAsset_NameStopsAtFirstDot(t *testing.T) {
	asset := NewMaterialAsset(filepath.Join("m", "a.b.c.mtl"))

	assert.Equal(t, "a", asset.Name)
	assert.Equal(t, filepath.Join("m", "a.jpg"), asset.TexturePath)
}

func TestMaterialStatus_Complete(t *testing.T) {
	assert.True(t, MaterialStatus{TextureExists: true, DisplacementExists: true}.Complete())
	assert.False(t, MaterialStatus{TextureExists: true}.Complete())
	assert.False(t, MaterialStatus{DisplacementExists: true}.Complete())
}
