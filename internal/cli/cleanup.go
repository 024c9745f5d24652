// Package cli — cleanup.go implements the "optr cleanup" command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCleanupCommand creates the "cleanup" cobra command.
func NewCleanupCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove all tracked worktrees and assignments",
		Long: `Remove every tracked worktree and its assignment.

Removal continues past individual failures: each worktree is attempted,
failed ones keep their assignment, and the command reports how many
were removed before surfacing the collected errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove worktrees even if they have local changes")

	return cmd
}

func runCleanup(ctx context.Context, force bool) error {
	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	removed, err := reg.CleanupAll(ctx, force)

	if IsJSONOutput() {
		if jsonErr := printJSON(map[string]int{"removed": removed}); jsonErr != nil {
			return jsonErr
		}
	} else {
		fmt.Printf("Removed %d worktree(s)\n", removed)
	}
	return err
}
