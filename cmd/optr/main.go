// Package main is the entry point for the optr CLI.
//
// The binary tracks task-to-worktree assignments and provides the
// surrounding plan tooling (analysis, tool discovery, plugin matching,
// documentation sync). All functionality lives in the internal/cli
// package, which defines cobra commands.
package main

import (
	"github.com/mmr-tortoise/optr/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This keeps
	// main.go minimal and decouples the build system from cobra.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
