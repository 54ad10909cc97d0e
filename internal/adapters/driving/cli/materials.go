package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	materialsDir         string
	materialsMissingOnly bool
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List material assets",
	Long: `List every .mtl file under the material directory together with the
texture and displacement images generate will pair it with. Assets with
missing images are flagged.`,
	Args: cobra.NoArgs,
	RunE: runMaterials,
}

func init() {
	materialsCmd.Flags().StringVar(&materialsDir, "material_dir", "", "material directory (default from settings)")
	materialsCmd.Flags().BoolVar(&materialsMissingOnly, "missing", false, "only list assets with missing images")
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, _ []string) error {
	if materialService == nil {
		return errors.New("material service not configured")
	}

	dir := materialsDir
	if dir == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			dir = settings.Generate.MaterialDir
		}
	}
	if dir == "" {
		return errors.New("no material directory given: pass --material_dir or set generate.material_dir")
	}

	statuses, err := materialService.List(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("failed to list materials: %w", err)
	}

	complete := 0
	for i := range statuses {
		st := statuses[i]
		if st.Complete() {
			complete++
			if materialsMissingOnly {
				continue
			}
		}

		var missing []string
		if !st.TextureExists {
			missing = append(missing, "texture")
		}
		if !st.DisplacementExists {
			missing = append(missing, "displacement")
		}

		line := fmt.Sprintf("  %s  %s", st.Asset.Name, st.Asset.MaterialPath)
		if len(missing) > 0 {
			line += "  [missing " + strings.Join(missing, ", ") + "]"
		}
		cmd.Println(line)
	}

	cmd.Printf("\n%d materials, %d complete\n", len(statuses), complete)
	return nil
}
