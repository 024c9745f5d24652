// Package cli — shoulduse.go implements the "optr should-use" command.
//
// The command takes a task descriptor as a JSON argument and reports
// whether the task warrants its own worktree. The decision consults the
// tracked assignments (for file overlap) but never mutates state.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/model"
)

// NewShouldUseCommand creates the "should-use" cobra command.
func NewShouldUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "should-use <task-json>",
		Short: "Decide whether a task should run in its own worktree",
		Long: `Decide whether a task should run in an isolated worktree.

The task descriptor is a JSON object:

  {"id": "T-42", "name": "login flow", "requires_isolation": false,
   "estimated_hours": 2, "files": ["auth.go"]}

Rules are evaluated in order: an explicit isolation request, an
estimated duration above one hour, then file overlap with another
tracked task. The first matching rule wins.

Example:
  optr should-use --json '{"id":"T-42","estimated_hours":2}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShouldUse(cmd.Context(), args[0])
		},
	}
}

// shouldUseResult is the JSON payload of the should-use command.
type shouldUseResult struct {
	UseWorktree bool   `json:"use_worktree"`
	Reason      string `json:"reason"`
}

func runShouldUse(ctx context.Context, taskJSON string) error {
	var task model.Task
	if err := json.Unmarshal([]byte(taskJSON), &task); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid task descriptor", err)
	}

	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	use, reason := reg.ShouldUseWorktree(task)

	if IsJSONOutput() {
		return printJSON(shouldUseResult{UseWorktree: use, Reason: reason})
	}

	if use {
		color.Yellow("Use a worktree: %s", reason)
	} else {
		fmt.Printf("No worktree needed: %s\n", reason)
	}
	return nil
}
