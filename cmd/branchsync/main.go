// Command branchsync reconciles product catalogs across retail branches.
package main

import "github.com/dakkemarket/branchsync/cmd/branchsync/cmd"

// Build-time variables set by ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
