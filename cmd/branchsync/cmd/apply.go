package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/dakkemarket/branchsync/pkg/ledger"
)

// newApplyCommand creates the apply command.
func newApplyCommand() *cobra.Command {
	var (
		changesFile string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Dispatch approved changes back to their branches",
		Long: `Apply reads approved corrections from a YAML change file, groups them
by branch, and dispatches one batched update per branch. Branches that are
not CONNECTED at dispatch time have their whole group counted as failed
without any network call.

Change file format:

  - code: "1001"
    branch: "central"
    field: price        # one of: name, price, group
    old: "95,000"
    new: "100000"

The ledger is cleared after the cycle whether or not every item succeeded;
failed items must be reviewed against a fresh diff and re-entered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := application.Syncer()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(changesFile)
			if err != nil {
				return err
			}
			var changes []ledger.Change
			if err := yaml.Unmarshal(raw, &changes); err != nil {
				return fmt.Errorf("parsing %s: %w", changesFile, err)
			}
			if len(changes) == 0 {
				fmt.Println("No changes to apply.")
				return nil
			}

			for _, c := range changes {
				if err := s.Ledger().Add(c); err != nil {
					return fmt.Errorf("invalid change for code %q: %w", c.Code, err)
				}
			}

			ctx := cmd.Context()
			s.CheckAll(ctx)
			connected := connectedBranches(s.Registry().All())

			if !yes {
				fmt.Printf("About to apply %d change(s) across %d connected branch(es). Re-run with --yes to confirm.\n",
					len(changes), connected)
				s.Ledger().Clear()
				return nil
			}

			tally := s.Apply(ctx)
			fmt.Printf("Applied: %d succeeded, %d failed\n", tally.Successes, tally.Failures)
			for _, name := range tally.SkippedBranches {
				fmt.Printf("  skipped %s (not connected)\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&changesFile, "changes", "c", "changes.yaml", "YAML change file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm dispatch")
	return cmd
}
