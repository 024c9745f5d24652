// Package cli — list.go implements the "optr list" command.
//
// The list command shows every tracked task assignment together with
// the worktrees Git itself reports for the repository. A tracked
// assignment whose worktree Git no longer knows about is marked stale.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/git"
	"github.com/mmr-tortoise/optr/internal/model"
)

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked task assignments and Git worktrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context())
		},
	}
}

// listResult is the JSON payload of the list command.
type listResult struct {
	Assignments []model.Assignment `json:"assignments"`
	Worktrees   []git.Worktree     `json:"worktrees"`
}

func runList(ctx context.Context) error {
	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	result := listResult{
		Assignments: reg.Assignments(),
		Worktrees:   reg.ListWorktrees(ctx),
	}

	if IsJSONOutput() {
		return printJSON(result)
	}
	printListText(result)
	return nil
}

func printListText(result listResult) {
	bold := color.New(color.Bold)

	bold.Printf("Task assignments (%d)\n", len(result.Assignments))
	if len(result.Assignments) == 0 {
		fmt.Println("  none")
	}

	// Index git worktrees by path to flag assignments git forgot about.
	known := make(map[string]bool, len(result.Worktrees))
	for _, wt := range result.Worktrees {
		known[wt.Path] = true
	}

	for _, a := range result.Assignments {
		fmt.Printf("  %-12s %s\n", a.TaskID, a.TaskName)
		fmt.Printf("               branch: %s\n", a.Branch)
		fmt.Printf("               path:   %s\n", a.Path)
		if !known[a.Path] {
			color.Yellow("               stale: worktree not reported by git")
		}
	}

	bold.Printf("\nGit worktrees (%d)\n", len(result.Worktrees))
	for _, wt := range result.Worktrees {
		branch := wt.Branch
		if branch == "" {
			branch = "(detached)"
		}
		fmt.Printf("  %-24s %s\n", branch, wt.Path)
	}
}
