package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectModelPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe a bilinear model",
	Long: `Inspect loads a bilinear model archive and prints its dimensions:
vertex and face counts, texture coordinates and the identity and
expression coefficient sizes.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectModelPath, "model_path", "", "path to the model archive (default from settings)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	if modelInspector == nil {
		return errors.New("model inspector not configured")
	}

	path := inspectModelPath
	if path == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			path = settings.Generate.ModelPath
		}
	}
	if path == "" {
		return errors.New("no model given: pass --model_path or set generate.model_path")
	}

	info, err := modelInspector.Inspect(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to inspect model: %w", err)
	}

	cmd.Printf("Model: %s\n", info.Path)
	cmd.Printf("  Vertices:        %d\n", info.Vertices)
	cmd.Printf("  Faces:           %d (%d-gons)\n", info.Faces, info.FaceArity)
	if info.TexCoords > 0 {
		cmd.Printf("  UV coordinates:  %d\n", info.TexCoords)
	} else {
		cmd.Println("  UV coordinates:  none")
	}
	cmd.Printf("  Identity dims:   %d\n", info.IdentityDims)
	cmd.Printf("  Expression dims: %d\n", info.ExpressionDims)
	cmd.Printf("  Core dtype:      %s\n", info.DType)
	return nil
}
