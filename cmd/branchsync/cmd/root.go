// Package cmd implements the branchsync command tree.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dakkemarket/branchsync/cmd/branchsync/app"
	"github.com/dakkemarket/branchsync/pkg/logging"
)

var (
	configFile string

	// application is built once in the persistent pre-run and shared by all
	// subcommands.
	application *app.App

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "branchsync",
	Short: "Cross-branch product catalog reconciliation",
	Long: `Branchsync synchronizes product-catalog data across retail branches,
each reachable through its own middleware service.

It fetches per-branch article snapshots, merges them into a single view keyed
by product code, highlights discrepancies against a reference branch, and
pushes approved corrections back to the owning branch.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	// Graceful shutdown on interrupt; in-flight branch calls observe the
	// canceled context at their next call boundary.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default branches.toml in . or ~/.branchsync)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "warnings and errors only")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "explicit log level")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newGroupsCommand())
	rootCmd.AddCommand(newApplyCommand())
}

// setupCommand builds the shared application once flags are parsed.
func setupCommand(cmd *cobra.Command, _ []string) error {
	a, err := app.New(Version, Commit, Date)
	if err != nil {
		return err
	}
	application = a
	logging.Default().Debug().
		Str("config", a.Config().ConfigFile).
		Int("branches", len(a.Config().Branches)).
		Msg("Configuration loaded")
	return nil
}
