// Package cli provides the headgen command-line interface.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
	"github.com/LeCongThuong/facescape/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string
)

// Bootstrap builds the services for a config directory. An empty dir
// selects the default location. The returned cleanup runs after the
// command finishes.
type Bootstrap func(configDir string) (Services, func(), error)

var (
	bootstrap Bootstrap
	cleanup   func()
)

// Services injected by main. Commands report "not configured" when nil.
var (
	generator       driving.DatasetGenerator
	modelInspector  driving.ModelInspector
	materialService driving.MaterialService
	runService      driving.RunService
	settingsService driving.SettingsService
)

// Services groups the driving ports the CLI calls into.
type Services struct {
	Generator driving.DatasetGenerator
	Inspector driving.ModelInspector
	Materials driving.MaterialService
	Runs      driving.RunService
	Settings  driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "headgen",
	Short: "Generate synthetic 3D head-mesh datasets",
	Long: `headgen samples a bilinear face/head morphable model to produce
synthetic head meshes, attaches a randomly chosen material and texture to
each one, and records a manifest of the generated identities.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if bootstrap == nil {
			return nil
		}
		services, done, err := bootstrap(configDir)
		if err != nil {
			return err
		}
		SetServices(services)
		cleanup = done
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.headgen)")
	// Accept both --model_path and --model-path.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// SetServices injects the core services.
func SetServices(s Services) {
	generator = s.Generator
	modelInspector = s.Inspector
	materialService = s.Materials
	runService = s.Runs
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services once flags
// are parsed.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.Execute()
}
