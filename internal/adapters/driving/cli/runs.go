package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeCongThuong/facescape/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
	Long: `Every generate invocation is recorded in a local ledger with the
parameters it used and the outcome of each identity.`,
	RunE: runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its identities",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().IntVar(&runsLimit, "limit", 0, "maximum number of runs to list (default 20)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	runs, err := runService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Println("Runs:")
	for i := range runs {
		r := &runs[i]
		cmd.Printf("  %s  %s  [%d, %d)  %d ok / %d failed / %d skipped%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.StartIdx, r.EndIdx,
			r.Succeeded, r.Failed, r.Skipped, unfinished(r))
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	run, identities, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	cmd.Printf("Run: %s\n", run.ID)
	cmd.Printf("  Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.EndedAt != nil {
		cmd.Printf("  Duration:    %s\n", run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	cmd.Printf("  Model:       %s\n", run.ModelPath)
	cmd.Printf("  Materials:   %s\n", run.MaterialDir)
	cmd.Printf("  Output:      %s\n", run.OutputPath)
	if run.ManifestPath != "" {
		cmd.Printf("  Manifest:    %s\n", run.ManifestPath)
	}
	cmd.Printf("  Range:       [%d, %d)\n", run.StartIdx, run.EndIdx)
	cmd.Printf("  Seed:        %d\n", run.Seed)
	cmd.Printf("  Workers:     %d\n", run.Workers)
	cmd.Printf("  Expressions: %s\n", run.ExpressionMode)
	cmd.Printf("  Layout:      %s\n", run.Layout)
	cmd.Printf("  Result:      %d ok / %d failed / %d skipped%s\n",
		run.Succeeded, run.Failed, run.Skipped, unfinished(run))

	if len(identities) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Identities:")
	for i := range identities {
		res := &identities[i]
		cmd.Printf("  %d  %s", res.Index, res.Status)
		if res.MaterialPath != "" {
			cmd.Printf("  %s", res.MaterialPath)
		}
		if res.Error != "" {
			cmd.Printf("  error: %s", res.Error)
		}
		cmd.Println()
	}
	return nil
}

func unfinished(r *domain.Run) string {
	if r.Finished() {
		return ""
	}
	return "  (unfinished)"
}
