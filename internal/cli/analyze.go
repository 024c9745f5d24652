// Package cli — analyze.go implements the "optr analyze" command.
//
// The analyze command reads a plan document and reports whether its
// task load warrants worktree isolation. The recommendation is also
// signalled through the exit status so callers can branch on it:
// exit 0 means a single worktree is fine, exit 6 means isolation is
// recommended.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/model"
	"github.com/mmr-tortoise/optr/internal/plan"
)

// NewAnalyzeCommand creates the "analyze" cobra command.
func NewAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <plan-file>",
		Short: "Analyze a plan's complexity and recommend worktree usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0])
		},
	}
}

func runAnalyze(planFile string) error {
	content, err := os.ReadFile(planFile)
	if err != nil {
		return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("failed to read plan %s", planFile), err)
	}

	analysis := plan.Analyze(string(content))

	if IsJSONOutput() {
		if err := printJSON(analysis); err != nil {
			return err
		}
	} else {
		printAnalysisText(analysis)
	}

	// The recommendation doubles as the exit status. The message is
	// already printed, so the error carries no text of its own.
	if analysis.RecommendWorktree {
		return &model.CLIError{Code: model.ExitIsolationRecommended}
	}
	return nil
}

func printAnalysisText(analysis model.PlanAnalysis) {
	fmt.Printf("Tasks:         %d\n", analysis.TaskCount)
	fmt.Printf("Modules:       %v\n", analysis.HasModules)
	fmt.Printf("Parallel work: %v\n", analysis.HasParallelWork)
	fmt.Println()

	if analysis.RecommendWorktree {
		color.Yellow("Recommend worktrees: %s", analysis.Reason)
	} else {
		color.Green("%s", analysis.Reason)
	}
}
