package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change the defaults used by generate and the optional
run ledger and upload target.

Settings are stored in a TOML file; use "config keys" to list the keys
accepted by "config set".`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set a setting",
	Example: "  headgen config set generate.model_path ~/facescape/model.npz",
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Generate settings
	gen := settings.Generate
	cmd.Println("[Generate]")
	cmd.Printf("  Model: %s\n", orUnset(gen.ModelPath))
	cmd.Printf("  Materials: %s\n", orUnset(gen.MaterialDir))
	cmd.Printf("  Output: %s\n", orUnset(gen.OutputPath))
	cmd.Printf("  Workers: %d\n", gen.Workers)
	cmd.Printf("  Expressions: %s\n", gen.ExpressionMode.Description())
	cmd.Printf("  Layout: %s\n", gen.Layout.Description())
	cmd.Println()

	// Ledger settings
	cmd.Println("[Ledger]")
	status := "enabled"
	if !settings.Ledger.Enabled {
		status = "disabled"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Upload settings
	up := settings.Upload
	cmd.Println("[Upload]")
	cmd.Printf("  Bucket: %s\n", orUnset(up.Bucket))
	if up.Prefix != "" {
		cmd.Printf("  Prefix: %s\n", up.Prefix)
	}
	cmd.Printf("  Region: %s\n", orUnset(up.Region))
	if up.Endpoint != "" {
		cmd.Printf("  Endpoint: %s\n", up.Endpoint)
	}
	if up.AccessKeyID != "" {
		cmd.Printf("  Access Key: %s\n", maskAPIKey(up.AccessKeyID))
	}
	if up.SecretAccessKey != "" {
		cmd.Printf("  Secret Key: %s\n", maskAPIKey(up.SecretAccessKey))
	}
	if up.RatePerSecond > 0 {
		cmd.Printf("  Rate: %.1f files/s\n", up.RatePerSecond)
	}
	status = "configured"
	if !up.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s updated\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskAPIKey masks a secret for display, showing only first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
