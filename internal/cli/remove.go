// Package cli — remove.go implements the "optr remove" command.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <task-id>",
		Short: "Remove a task's worktree and its assignment",
		Long: `Remove the Git worktree assigned to a task and drop the assignment
from the state file.

The worktree is removed through Git first; the assignment is only
dropped once Git succeeds, so a failed removal (for example, a dirty
worktree without --force) leaves the state untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args[0], force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove the worktree even if it has local changes")

	return cmd
}

func runRemove(ctx context.Context, taskID string, force bool) error {
	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	if err := reg.Remove(ctx, taskID, force); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(map[string]string{"removed": taskID})
	}
	fmt.Printf("Removed worktree for task %q\n", taskID)
	return nil
}
