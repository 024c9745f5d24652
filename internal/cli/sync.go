// Package cli — sync.go implements the "optr sync" command.
//
// The sync command updates a project's documentation after completed
// work: completion markers and a freshness timestamp in PLAN.md, an
// optional changelog entry in README.md, and a patch version bump of
// the plugin manifest. With --dry-run it prints unified diffs of what
// would change and writes nothing.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/docs"
	"github.com/mmr-tortoise/optr/internal/model"
)

// syncFlags holds the flag values for the sync command.
type syncFlags struct {
	dryRun  bool     // --dry-run: report diffs without writing
	changes []string // --change: changelog entries for README.md
}

// NewSyncCommand creates the "sync" cobra command.
func NewSyncCommand() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync [directory]",
		Short: "Synchronize project documentation after completed work",
		Long: `Update PLAN.md, README.md, and .claude-plugin/plugin.json in the given
directory (default: the current directory). Missing files are skipped.

Examples:
  optr sync
  optr sync --dry-run path/to/project
  optr sync --change "added worktree registry"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runSync(dir, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show diffs without writing files")
	cmd.Flags().StringArrayVar(&flags.changes, "change", nil, "Changelog entry for README.md (repeatable)")

	return cmd
}

func runSync(dir string, flags *syncFlags) error {
	if _, err := os.Stat(dir); err != nil {
		return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("cannot sync %s", dir), err)
	}

	report, err := docs.Sync(dir, flags.changes, flags.dryRun, time.Now())
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "documentation sync failed", err)
	}

	if IsJSONOutput() {
		return printJSON(report)
	}
	printSyncText(report)
	return nil
}

func printSyncText(report docs.Report) {
	if len(report.Changes) == 0 {
		fmt.Println("Nothing to sync")
		return
	}

	for _, change := range report.Changes {
		switch {
		case !change.Changed:
			fmt.Printf("  %s: up to date\n", change.Path)
		case change.Note != "":
			color.Green("  %s: %s", change.Path, change.Note)
		default:
			color.Green("  %s: updated", change.Path)
		}

		if change.Diff != "" {
			fmt.Print(change.Diff)
		}
	}

	if report.DryRun {
		fmt.Println("\nDry run: no files were written")
	}
}
