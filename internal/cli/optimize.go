// Package cli — optimize.go implements the "optr optimize" command.
//
// The optimize command critiques a plan's task items and suggests
// structural improvements: vague wording, oversized tasks, and tasks
// without acceptance criteria.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/model"
	"github.com/mmr-tortoise/optr/internal/plan"
)

// NewOptimizeCommand creates the "optimize" cobra command.
func NewOptimizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [plan-file]",
		Short: "Suggest structural improvements for a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planFile := "PLAN.md"
			if len(args) == 1 {
				planFile = args[0]
			}
			return runOptimize(planFile)
		},
	}
}

func runOptimize(planFile string) error {
	content, err := os.ReadFile(planFile)
	if err != nil {
		return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("failed to read plan %s", planFile), err)
	}

	result := plan.Critique(string(content))

	if IsJSONOutput() {
		return printJSON(result)
	}
	printCritiqueText(result)
	return nil
}

func printCritiqueText(result plan.CritiqueResult) {
	bold := color.New(color.Bold)
	bold.Println("Plan analysis")
	fmt.Printf("  Tasks found: %d\n", result.TotalTasks)
	fmt.Printf("  Suggestions: %d\n\n", len(result.Suggestions))

	if len(result.Suggestions) == 0 {
		color.Green("No issues found. The plan looks well-structured.")
		return
	}

	for _, s := range result.Suggestions {
		color.Yellow("Line %d [%s]: %s", s.Line, s.Kind, s.Message)
		fmt.Printf("  Task: %q\n", s.Task)
	}
}
