package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetCommandState(rootCmd)
	t.Cleanup(func() {
		resetCommandState(rootCmd)
		SetServices(Services{})
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetCommandState restores every flag to its default. Flag values live
// in package variables and survive between Execute calls.
func resetCommandState(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommandState(sub)
	}
}
