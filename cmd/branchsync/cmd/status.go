package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dakkemarket/branchsync/internal/cmd/output"
	"github.com/dakkemarket/branchsync/pkg/branches"
)

// newStatusCommand creates the status command.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every branch and report its health",
		Long: `Status probes each configured branch: first the unauthenticated
liveness endpoint, then the authenticated database connectivity check.

Health states: UNKNOWN, OFFLINE, API_DOWN, AUTH_ERROR, CONNECTED.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := application.Syncer()
			if err != nil {
				return err
			}

			s.CheckAll(cmd.Context())

			type branchStatus struct {
				Name      string `json:"name"`
				Address   string `json:"address"`
				Database  string `json:"database"`
				Status    string `json:"status"`
				Enabled   bool   `json:"enabled"`
				Reference bool   `json:"reference"`
			}

			var report []branchStatus
			data := output.Data{
				Headers: []string{"Branch", "Address", "Database", "Status", "Enabled", "Reference"},
			}
			for _, b := range s.Registry().All() {
				report = append(report, branchStatus{
					Name:      b.Name,
					Address:   b.BaseURL(),
					Database:  b.Database,
					Status:    b.Status.String(),
					Enabled:   b.Enabled,
					Reference: b.IsReference,
				})
				data.Rows = append(data.Rows, []string{
					b.Name, b.BaseURL(), b.Database, b.Status.String(),
					boolMark(b.Enabled), boolMark(b.IsReference),
				})
			}

			format := output.DetectFormat(application.Config().Output)
			if format == output.FormatTable {
				return output.NewFormatter(format).Format(os.Stdout, data)
			}
			return output.NewFormatter(format).Format(os.Stdout, report)
		},
	}
}

// connectedBranches counts branches currently in the CONNECTED state.
func connectedBranches(list []*branches.Branch) int {
	n := 0
	for _, b := range list {
		if b.Status == branches.StatusConnected {
			n++
		}
	}
	return n
}

func boolMark(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
