// Package cli — create.go implements the "optr create" command.
//
// The create command assigns a worktree to a task: it reuses or creates
// the optr/task-<id> branch, adds a .optr-worktree-<id> worktree under
// the repository root, and records the assignment in the state file.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/registry"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	branch string   // --branch: base branch for a newly created task branch
	files  []string // --files: files the task expects to touch
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <task-id> <task-name>",
		Short: "Create a worktree assignment for a task",
		Long: `Create a Git worktree for a task and record the assignment.

The task branch is named optr/task-<task-id> and is created from the
base branch unless it already exists. The worktree directory is
.optr-worktree-<task-id> under the repository root.

Examples:
  optr create T-42 "implement login flow"
  optr create --branch develop T-42 "implement login flow"
  optr create --files auth.go,session.go T-42 "implement login flow"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.branch, "branch", "", "Base branch for the task branch (default: main)")
	cmd.Flags().StringSliceVar(&flags.files, "files", nil, "Files the task will touch, for overlap detection")

	return cmd
}

func runCreate(ctx context.Context, taskID, taskName string, flags *createFlags) error {
	reg, env, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	base := flags.branch
	if base == "" {
		base = env.BaseBranch
	}

	VerboseLog("Creating worktree for task %s (base branch %s)", taskID, base)
	assignment, err := reg.Create(ctx, registry.CreateRequest{
		TaskID:     taskID,
		TaskName:   taskName,
		BaseBranch: base,
		Files:      flags.files,
	})
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(assignment)
	}

	fmt.Printf("Created worktree for task %q\n", assignment.TaskID)
	fmt.Printf("  Name:   %s\n", assignment.TaskName)
	fmt.Printf("  Branch: %s\n", assignment.Branch)
	fmt.Printf("  Path:   %s\n", assignment.Path)
	return nil
}
