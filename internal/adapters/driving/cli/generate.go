package cli

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

var (
	genModelPath      string
	genOutputPath     string
	genMaterialDir    string
	genStartIdx       int
	genEndIdx         int
	genOutputJSON     string
	genSeed           uint64
	genWorkers        int
	genExpressionMode string
	genLayout         string
	genFailFast       bool
	genSkipExisting   bool
	genUpload         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic head meshes",
	Long: `Generate samples identities [start_idx, end_idx) from the bilinear model.
Each identity is written to <output_path>/<idx>/ as an OBJ mesh with a
material file copied from a randomly chosen asset under material_dir.

Paths not given on the command line are taken from the saved settings
(see "headgen config show"). Without --seed a random seed is drawn and
printed so the run can be reproduced.

With --expression-mode sweep every identity gets one mesh per expression,
written as <output_path>/<idx>/<idx>_<e>.obj. All of them share one
identity vector and one material. Older dataset scripts instead wrote
<output_path>/<idx>_<e>/ directories with a fresh identity and material
per expression.`,
	Example: `  headgen generate --model_path model.npz --material_dir tu_models \
      --output_path out --start_idx 0 --end_idx 100 --output_json out/meta.json`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genModelPath, "model_path", "", "path to the bilinear model archive (.npz)")
	f.StringVar(&genOutputPath, "output_path", "", "directory that receives one subdirectory per identity")
	f.StringVar(&genMaterialDir, "material_dir", "", "directory searched recursively for .mtl files")
	f.IntVar(&genStartIdx, "start_idx", 0, "first identity index (inclusive)")
	f.IntVar(&genEndIdx, "end_idx", 10, "last identity index (exclusive)")
	f.StringVar(&genOutputJSON, "output_json", "", "write a JSON manifest of generated identities to this path")
	f.Uint64Var(&genSeed, "seed", 0, "random seed (default: drawn at random)")
	f.IntVar(&genWorkers, "workers", 0, "number of identities generated concurrently (default from settings)")
	f.StringVar(&genExpressionMode, "expression-mode", "", "expression vectors: random, neutral or sweep")
	f.StringVar(&genLayout, "layout", "", "texture layout: reference or bundled")
	f.BoolVar(&genFailFast, "fail-fast", false, "abort the run on the first failed identity")
	f.BoolVar(&genSkipExisting, "skip-existing", false, "skip identities whose mesh already exists")
	f.BoolVar(&genUpload, "upload", false, "upload generated files to the configured bucket")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generator == nil {
		return errors.New("generator service not configured")
	}

	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cmd.Printf("Generating identities %d..%d into %s (seed %d, %d workers)\n",
		req.StartIdx, req.EndIdx-1, req.OutputPath, req.Seed, req.Workers)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	bar := newProgressBar(cmd.ErrOrStderr())
	report, err := generator.Generate(ctx, req, bar.Update)
	bar.Done()

	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	return nil
}

// buildRequest merges flags with saved settings. Flags win when set.
func buildRequest(cmd *cobra.Command) (domain.GenerationRequest, error) {
	defaults := domain.DefaultAppSettings()
	settings := &defaults
	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return domain.GenerationRequest{}, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = s
	}
	gen := settings.Generate
	flags := cmd.Flags()

	req := domain.GenerationRequest{
		ModelPath:      pick(flags.Changed("model_path"), genModelPath, gen.ModelPath),
		OutputPath:     pick(flags.Changed("output_path"), genOutputPath, gen.OutputPath),
		MaterialDir:    pick(flags.Changed("material_dir"), genMaterialDir, gen.MaterialDir),
		StartIdx:       genStartIdx,
		EndIdx:         genEndIdx,
		ManifestPath:   genOutputJSON,
		Seed:           genSeed,
		Workers:        pick(flags.Changed("workers"), genWorkers, gen.Workers),
		ExpressionMode: pick(flags.Changed("expression-mode"), domain.ExpressionMode(genExpressionMode), gen.ExpressionMode),
		Layout:         pick(flags.Changed("layout"), domain.TextureLayout(genLayout), gen.Layout),
		FailFast:       genFailFast,
		SkipExisting:   genSkipExisting,
		Upload:         genUpload,
	}
	if !flags.Changed("seed") {
		req.Seed = rand.Uint64() //nolint:gosec // seeds need not be cryptographic
	}
	return req, nil
}

func pick[T any](changed bool, flag, setting T) T {
	if changed {
		return flag
	}
	return setting
}

func printReport(cmd *cobra.Command, report *driving.RunReport) {
	run := report.Run
	cmd.Printf("\nRun %s finished in %s\n", run.ID, report.Elapsed.Round(time.Millisecond))
	cmd.Printf("  Succeeded: %d\n", run.Succeeded)
	cmd.Printf("  Failed:    %d\n", run.Failed)
	cmd.Printf("  Skipped:   %d\n", run.Skipped)
	if report.ManifestPath != "" {
		cmd.Printf("  Manifest:  %s\n", report.ManifestPath)
	}

	failures := report.Failures()
	if len(failures) == 0 {
		return
	}
	cmd.Println("\nFailed identities:")
	for _, res := range failures {
		cmd.Printf("  %d: %s\n", res.Index, res.Error)
	}
}
