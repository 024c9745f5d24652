// Package cli — discover.go implements the "optr discover" command.
//
// The discover command scans for reusable skills, agents, and commands
// in the project and in the user's global plugin directory, ranks them
// against the plan's keywords, and prints a discovery report.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/model"
	"github.com/mmr-tortoise/optr/internal/plan"
	"github.com/mmr-tortoise/optr/internal/tools"
)

// maxDiscoverRows caps the recommended-tools section of the report.
const maxDiscoverRows = 10

// NewDiscoverCommand creates the "discover" cobra command.
func NewDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover [plan-file]",
		Short: "Discover skills, agents, and commands relevant to a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planFile := "PLAN.md"
			if len(args) == 1 {
				planFile = args[0]
			}
			return runDiscover(cmd.Context(), planFile)
		},
	}
}

// discoverResult is the JSON payload of the discover command.
type discoverResult struct {
	Keywords []string     `json:"keywords"`
	Tools    []tools.Tool `json:"tools"`
}

func runDiscover(ctx context.Context, planFile string) error {
	content, err := os.ReadFile(planFile)
	if err != nil {
		return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("failed to read plan %s", planFile), err)
	}
	keywords := plan.Keywords(string(content))
	VerboseLog("Plan keywords: %v", keywords)

	env, err := loadEnv()
	if err != nil {
		return err
	}
	root, err := resolveRepoRoot(ctx, env)
	if err != nil {
		return err
	}

	project := tools.ScanProject(root)
	VerboseLog("Project tools: %d", len(project))

	var global []tools.Tool
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		global = tools.ScanGlobal(home)
	}
	VerboseLog("Global tools: %d", len(global))

	ranked := tools.MergeAndScore(project, global, keywords)

	if IsJSONOutput() {
		return printJSON(discoverResult{Keywords: keywords, Tools: ranked})
	}
	printDiscoverText(ranked)
	return nil
}

func printDiscoverText(ranked []tools.Tool) {
	bold := color.New(color.Bold)
	bold.Println("Tool discovery")

	if len(ranked) == 0 {
		fmt.Println("  no matching tools found")
		return
	}

	shown := ranked
	if len(shown) > maxDiscoverRows {
		shown = shown[:maxDiscoverRows]
	}

	for i, tool := range shown {
		fmt.Printf("  %2d. [%s] %s (%s, score %d)\n",
			i+1, tool.Source, tool.Name, tool.Kind, tool.Score)
		if tool.Description != "" {
			fmt.Printf("      %s\n", truncate(tool.Description, 70))
		}
	}

	if len(ranked) > len(shown) {
		fmt.Printf("  ... and %d more\n", len(ranked)-len(shown))
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
