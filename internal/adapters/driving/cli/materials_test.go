package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

type mockMaterialService struct {
	dir      string
	statuses []domain.MaterialStatus
	err      error
}

func (m *mockMaterialService) List(_ context.Context, dir string) ([]domain.MaterialStatus, error) {
	m.dir = dir
	return m.statuses, m.err
}

func testStatuses() []domain.MaterialStatus {
	return []domain.MaterialStatus{
		{Asset: domain.NewMaterialAsset("/m/1/1_neutral.jpg.mtl"), TextureExists: true, DisplacementExists: true},
		{Asset: domain.NewMaterialAsset("/m/1/2_smile.jpg.mtl"), TextureExists: false, DisplacementExists: true},
		{Asset: domain.NewMaterialAsset("/m/2/3_brow.jpg.mtl"), TextureExists: false, DisplacementExists: false},
	}
}

func TestMaterialsCmd_NotConfigured(t *testing.T) {
	_, err := executeCommand(t, "materials", "--material_dir", "/m")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "material service not configured")
}

func TestMaterialsCmd_Lists(t *testing.T) {
	svc := &mockMaterialService{statuses: testStatuses()}
	SetServices(Services{Materials: svc})

	out, err := executeCommand(t, "materials", "--material_dir", "/m")

	require.NoError(t, err)
	assert.Equal(t, "/m", svc.dir)
	assert.Contains(t, out, "  1_neutral  /m/1/1_neutral.jpg.mtl\n")
	assert.Contains(t, out, "  2_smile  /m/1/2_smile.jpg.mtl  [missing texture]")
	assert.Contains(t, out, "  3_brow  /m/2/3_brow.jpg.mtl  [missing texture, displacement]")
	assert.Contains(t, out, "3 materials, 1 complete")
}

func TestMaterialsCmd_MissingOnly(t *testing.T) {
	SetServices(Services{Materials: &mockMaterialService{statuses: testStatuses()}})

	out, err := executeCommand(t, "materials", "--material_dir", "/m", "--missing")

	require.NoError(t, err)
	assert.NotContains(t, out, "1_neutral")
	assert.Contains(t, out, "2_smile")
	assert.Contains(t, out, "3 materials, 1 complete")
}

func TestMaterialsCmd_FallsBackToSettings(t *testing.T) {
	svc := &mockMaterialService{}
	SetServices(Services{
		Materials: svc,
		Settings:  newSettings(t, map[string]string{"generate.material_dir": "/settings/m"}),
	})

	out, err := executeCommand(t, "materials")

	require.NoError(t, err)
	assert.Equal(t, "/settings/m", svc.dir)
	assert.Contains(t, out, "0 materials, 0 complete")
}

func TestMaterialsCmd_NoDirectory(t *testing.T) {
	SetServices(Services{Materials: &mockMaterialService{}})

	_, err := executeCommand(t, "materials")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no material directory given")
}

func TestMaterialsCmd_Error(t *testing.T) {
	SetServices(Services{Materials: &mockMaterialService{err: domain.ErrNoMaterials}})

	_, err := executeCommand(t, "materials", "--material_dir", "/m")

	assert.ErrorIs(t, err, domain.ErrNoMaterials)
}
