package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dakkemarket/branchsync/internal/cmd/output"
)

// newGroupsCommand creates the groups command.
func newGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <branch>",
		Short: "List one branch's product groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := application.Syncer()
			if err != nil {
				return err
			}

			groups, err := s.Groups(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format := output.DetectFormat(application.Config().Output)
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(os.Stdout, groups)
			}

			data := output.Data{Headers: []string{"Code", "Name"}}
			for _, g := range groups {
				data.Rows = append(data.Rows, []string{g.Code, g.Name})
			}
			return output.NewFormatter(format).Format(os.Stdout, data)
		},
	}
}
