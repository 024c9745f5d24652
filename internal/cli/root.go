// Package cli implements the cobra-based CLI commands for optr.
//
// Each subcommand (list, analyze, create, remove, cleanup, should-use,
// discover, match, optimize, sync) is defined in its own file within
// this package. This file defines the root command that serves as the
// parent for all subcommands and handles global flags.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/optr/internal/config"
	"github.com/mmr-tortoise/optr/internal/git"
	"github.com/mmr-tortoise/optr/internal/model"
	"github.com/mmr-tortoise/optr/internal/registry"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// repoPath overrides repository detection. Empty means "detect the
	// git toplevel from the working directory".
	repoPath string

	// stateFilename overrides the registry state filename inside the
	// repository root.
	stateFilename string

	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action, it only provides
// help text and global flags. Actual functionality lives in the
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optr",
		Short: "Worktree assignment and plan tooling for parallel task execution",
		Long: `optr tracks which tasks run in which Git worktrees so parallel work
stays isolated, and ships the surrounding plan tooling: complexity
analysis, tool discovery, marketplace plugin matching, and
documentation sync.

Worktree branches are named optr/task-<id> and live in
.optr-worktree-<id> directories under the repository root. Assignments
persist across invocations in a JSON state file in the repository
root.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", "", "Repository root (default: detected from the working directory)")
	rootCmd.PersistentFlags().StringVar(&stateFilename, "state", "", "State filename inside the repository root (default: .optr-worktrees.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewCleanupCommand())
	rootCmd.AddCommand(NewShouldUseCommand())
	rootCmd.AddCommand(NewDiscoverCommand())
	rootCmd.AddCommand(NewMatchCommand())
	rootCmd.AddCommand(NewOptimizeCommand())
	rootCmd.AddCommand(NewSyncCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			// A CLIError without a message is a pure exit-status signal
			// (analyze uses this); the command already printed its output.
			if cliErr.Message != "" {
				printError(cliErr.Message, cliErr.Err)
			}
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors always go to
// stderr; stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode JSON output", err)
	}
	fmt.Println(string(data))
	return nil
}

// loadEnv reads the OPTR_* environment defaults.
func loadEnv() (*config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid environment configuration", err)
	}
	return env, nil
}

// resolveRepoRoot returns the repository root for this invocation: the
// --repo flag when set, otherwise the git toplevel of the working
// directory.
func resolveRepoRoot(ctx context.Context, env *config.Env) (string, error) {
	if repoPath != "" {
		return repoPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	root, err := git.Toplevel(ctx, cwd, env.GitTimeout)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "not inside a Git repository", err)
	}
	return root, nil
}

// newRegistry builds a Registry from environment defaults and the
// global flags. Flags override the environment.
func newRegistry(ctx context.Context) (*registry.Registry, *config.Env, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}

	root, err := resolveRepoRoot(ctx, env)
	if err != nil {
		return nil, nil, err
	}
	VerboseLog("Repository root: %s", root)

	stateFile := env.StateFile
	if stateFilename != "" {
		stateFile = stateFilename
	}

	reg, err := registry.New(registry.Config{
		RepoRoot:   root,
		StateFile:  stateFile,
		GitTimeout: env.GitTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return reg, env, nil
}
