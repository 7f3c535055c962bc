package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dakkemarket/branchsync"
	"github.com/dakkemarket/branchsync/internal/cmd/output"
	"github.com/dakkemarket/branchsync/pkg/constants"
	"github.com/dakkemarket/branchsync/pkg/reconcile"
)

// fetchFlags are shared between the fetch and diff commands.
type fetchFlags struct {
	dimension string
	diffOnly  bool
	page      int
	pageSize  int
	search    string
	limit     int
	reference string
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dimension, "dimension", "d", "name",
		"comparison dimension: name, price, group, stock")
	cmd.Flags().BoolVar(&f.diffOnly, "diff-only", false, "only rows with discrepancies")
	cmd.Flags().IntVar(&f.page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", constants.DefaultPageSize, "rows per page, 0 for all")
	cmd.Flags().StringVar(&f.search, "search", "", "server-side search filter")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "max articles per branch, 0 for default")
	cmd.Flags().StringVar(&f.reference, "reference", "", "reference branch name")
}

// newFetchCommand creates the fetch command.
func newFetchCommand() *cobra.Command {
	flags := &fetchFlags{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch snapshots from all branches and show the reconciled view",
		Long: `Fetch checks branch health, pulls each enabled branch's article
snapshot, and renders the reconciled cross-branch view for one comparison
dimension. Rows carrying a discrepancy are marked in the diff column.`,
		Example: `  branchsync fetch --dimension price
  branchsync fetch --dimension group --diff-only --page 2 --page-size 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// newDiffCommand creates the diff command: fetch with diff-only defaulted on.
func newDiffCommand() *cobra.Command {
	flags := &fetchFlags{}
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show only articles that disagree across branches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.diffOnly = true
			return runFetch(cmd, flags)
		},
	}
	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("diff-only")
	return cmd
}

func runFetch(cmd *cobra.Command, flags *fetchFlags) error {
	dimension, err := reconcile.ParseDimension(flags.dimension)
	if err != nil {
		return err
	}

	s, err := application.Syncer()
	if err != nil {
		return err
	}

	if flags.reference != "" {
		if !s.Registry().SetReference(flags.reference) {
			return fmt.Errorf("unknown reference branch %q", flags.reference)
		}
	}

	ctx := cmd.Context()
	s.CheckAll(ctx)
	summary := s.FetchAll(ctx, flags.search, flags.limit)
	for _, name := range summary.Failed {
		fmt.Fprintf(os.Stderr, "warning: fetch from %s failed; treating as empty\n", name)
	}

	result := s.Reconcile(
		reconcile.WithDimension(dimension),
		reconcile.WithDiffOnly(flags.diffOnly),
		reconcile.WithPage(flags.page, flags.pageSize),
	)
	return renderResult(s, result)
}

// renderResult renders a reconciliation result in the configured format.
func renderResult(s branchsync.Syncer, result *reconcile.Result) error {
	format := output.DetectFormat(application.Config().Output)
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(os.Stdout, result)
	}

	refName := "Name"
	if ref, ok := s.Registry().Reference(); ok {
		refName = fmt.Sprintf("Name (%s)", ref.Name)
	}

	data := output.Data{Headers: []string{"Code", "Diff", refName}}
	for _, branch := range result.Branches {
		data.Headers = append(data.Headers, branch)
	}

	for _, row := range result.Rows {
		cells := []string{row.Code, diffMark(row.HasDiff), row.ReferenceName}
		cells = append(cells, row.Values...)
		data.Rows = append(data.Rows, cells)
	}

	if err := output.NewFormatter(format).Format(os.Stdout, data); err != nil {
		return err
	}
	fmt.Printf("%d rows (%s), page %d/%d\n",
		result.Total, result.Dimension, result.Page, result.TotalPages)
	return nil
}

func diffMark(hasDiff bool) string {
	if hasDiff {
		return "*"
	}
	return ""
}
