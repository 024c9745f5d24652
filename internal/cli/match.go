// Package cli — match.go implements the "optr match" command.
//
// The match command lists available marketplace plugins through the
// claude CLI, scores their keyword overlap with the plan, and prints
// matches at or above the relevance threshold with install commands.
// A missing or failing marketplace CLI degrades to an empty listing.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/marketplace"
	"github.com/mmr-tortoise/optr/internal/model"
	"github.com/mmr-tortoise/optr/internal/plan"
)

// matchFlags holds the flag values for the match command.
type matchFlags struct {
	threshold float64 // --threshold: minimum relevance score
	command   string  // --command: marketplace CLI binary
}

// NewMatchCommand creates the "match" cobra command.
func NewMatchCommand() *cobra.Command {
	flags := &matchFlags{threshold: -1}

	cmd := &cobra.Command{
		Use:   "match [plan-file]",
		Short: "Match marketplace plugins to a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planFile := "PLAN.md"
			if len(args) == 1 {
				planFile = args[0]
			}
			return runMatch(cmd.Context(), planFile, flags)
		},
	}

	cmd.Flags().Float64Var(&flags.threshold, "threshold", -1, "Minimum relevance score, 0 to 1 (default: 0.5)")
	cmd.Flags().StringVar(&flags.command, "command", "", "Marketplace CLI binary (default: claude)")

	return cmd
}

func runMatch(ctx context.Context, planFile string, flags *matchFlags) error {
	content, err := os.ReadFile(planFile)
	if err != nil {
		return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("failed to read plan %s", planFile), err)
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	threshold := flags.threshold
	if threshold < 0 {
		threshold = env.MatchThreshold
	}
	if threshold < 0 || threshold > 1 {
		return model.NewCLIError(model.ExitGeneralError, "threshold must be between 0 and 1")
	}

	command := flags.command
	if command == "" {
		command = env.Command
	}

	keywords := plan.Keywords(string(content))
	VerboseLog("Plan keywords: %v", keywords)

	client := marketplace.NewClient(command, env.Timeout)
	plugins := client.Available(ctx)
	VerboseLog("Marketplace plugins available: %d", len(plugins))

	matches := marketplace.MatchPlugins(plugins, keywords, threshold)

	if IsJSONOutput() {
		return printJSON(matches)
	}
	printMatchText(matches, threshold)
	return nil
}

func printMatchText(matches []marketplace.Match, threshold float64) {
	bold := color.New(color.Bold)
	bold.Printf("Marketplace matches (threshold %.2f)\n", threshold)

	if len(matches) == 0 {
		fmt.Println("  none")
		return
	}

	for _, m := range matches {
		fmt.Printf("  %.2f  %s\n", m.Score, m.Name)
		if m.Description != "" {
			fmt.Printf("        %s\n", truncate(m.Description, 70))
		}
		if m.InstallCmd != "" {
			color.Cyan("        install: %s", m.InstallCmd)
		}
	}
}
