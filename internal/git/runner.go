// Package git wraps the git CLI commands the worktree registry depends on.
//
// The registry shells out to `git` rather than using a Go git library
// because worktree operations require full git CLI compatibility, and
// go-git's worktree support is limited. Every invocation runs with the
// repository root as the working directory (via `git -C`) and a
// per-invocation timeout so a hung git process cannot stall the CLI.
//
// All errors from git commands are wrapped in model.CLIError with
// ExitGitError, preserving git's stderr diagnostics for the caller.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mmr-tortoise/optr/internal/model"
)

// Worktree holds metadata about a single git worktree entry as parsed
// from `git worktree list --porcelain` output.
//
// Example porcelain output for a single worktree block:
//
//	worktree /path/to/feature-branch
//	HEAD abc123def456
//	branch refs/heads/feature-branch
type Worktree struct {
	// Path is the absolute filesystem path to the worktree directory.
	Path string

	// Branch is the full branch reference (e.g., "refs/heads/main").
	// Empty if the worktree is in a detached HEAD state.
	Branch string

	// HEAD is the commit SHA the worktree currently points to.
	HEAD string

	// IsBare indicates a bare repository entry in the listing.
	IsBare bool
}

// Runner executes git commands against a single repository.
//
// The repository path and timeout are fixed at construction: the registry
// receives its configuration explicitly rather than reading process-wide
// defaults, so the Runner does too.
type Runner struct {
	repoPath string
	timeout  time.Duration
}

// DefaultTimeout bounds a single git invocation when the caller does not
// configure one. Worktree operations on large repositories can take a few
// seconds; thirty is generous while still catching a hung subprocess.
const DefaultTimeout = 30 * time.Second

// NewRunner creates a Runner for the repository at repoPath.
// A non-positive timeout falls back to DefaultTimeout.
func NewRunner(repoPath string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{repoPath: repoPath, timeout: timeout}
}

// RepoPath returns the repository root this Runner operates on.
func (r *Runner) RepoPath() string {
	return r.repoPath
}

// BranchExists reports whether a branch with the given name exists.
//
// Uses `git rev-parse --verify` which exits zero when the ref exists.
// Only the exit code matters; the output (the commit SHA) is discarded.
func (r *Runner) BranchExists(ctx context.Context, branch string) bool {
	_, err := r.run(ctx, "rev-parse", "--verify", "refs/heads/"+branch)
	return err == nil
}

// CreateBranch creates a new branch pointing at baseBranch without
// checking it out. The worktree add step checks the branch out into the
// isolated directory afterwards.
func (r *Runner) CreateBranch(ctx context.Context, branch, baseBranch string) error {
	_, err := r.run(ctx, "branch", branch, baseBranch)
	return err
}

// AddWorktree materializes a worktree at path bound to an existing branch.
// The branch must already exist; the registry creates it first so that a
// branch-creation failure is distinguishable from a worktree failure.
func (r *Runner) AddWorktree(ctx context.Context, path, branch string) error {
	_, err := r.run(ctx, "worktree", "add", path, branch)
	return err
}

// RemoveWorktree deletes the worktree at path. With force, the --force
// flag is passed through so git removes worktrees with uncommitted or
// untracked changes it would otherwise refuse to touch.
func (r *Runner) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := r.run(ctx, args...)
	return err
}

// ListWorktrees returns every worktree git knows about for this
// repository, not just the optr-tracked ones.
//
// It runs `git worktree list --porcelain`, which produces machine-parseable
// blocks separated by blank lines. Within a block each line is a
// space-separated key-value pair; markers like "bare" and "detached" are
// standalone keywords.
func (r *Runner) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	output, err := r.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(output), nil
}

// Toplevel returns the absolute path to the top-level directory of the
// repository containing dir. Used by the CLI to default the --repo flag
// to the enclosing repository.
func Toplevel(ctx context.Context, dir string, timeout time.Duration) (string, error) {
	r := NewRunner(dir, timeout)
	output, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// run executes a git command in the repository with the Runner's timeout.
//
// It captures stdout and stderr separately. On success it returns stdout.
// On failure it returns a model.CLIError with ExitGitError that includes
// the trimmed stderr output, which is where git writes its diagnostics.
func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Prepend -C <repoPath> so git operates in the target directory.
	// -C is handled by git itself and works with every subcommand,
	// unlike changing the process working directory.
	fullArgs := append([]string{"-C", r.repoPath}, args...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if ctx.Err() == context.DeadlineExceeded {
			message = fmt.Sprintf("git %s timed out after %s", strings.Join(args, " "), r.timeout)
		}
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}

// parsePorcelain parses `git worktree list --porcelain` output into
// Worktree entries.
//
// The porcelain format uses blank lines to separate worktree blocks.
// Missing fields are tolerated: a detached worktree simply has no branch
// line, and a malformed block without a "worktree" line is skipped.
func parsePorcelain(output string) []Worktree {
	var worktrees []Worktree

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *Worktree
	for _, line := range lines {
		// A blank line terminates the current worktree block.
		if line == "" {
			if current != nil {
				worktrees = append(worktrees, *current)
				current = nil
			}
			continue
		}

		key, value, _ := strings.Cut(line, " ")

		switch key {
		case "worktree":
			current = &Worktree{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = value
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
			// "detached" needs no handling: a detached HEAD simply
			// leaves the Branch field empty.
		}
	}

	// The output may not end with a trailing blank line.
	if current != nil {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}
