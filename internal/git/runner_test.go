package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary directory with an initialized git
// repository containing a single commit. Worktree and branch commands
// require at least one commit to exist, because a branch needs a commit
// to point to.
//
// A repo-local user.name and user.email are configured so `git commit`
// works in CI environments without a global git configuration.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	initialFile := filepath.Join(dir, "README.md")
	err := os.WriteFile(initialFile, []byte("# Test Repo\n"), 0644)
	require.NoError(t, err, "failed to create initial file")

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in the specified directory and fails the
// test immediately on a non-zero exit, keeping setup code concise.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// TestBranchExists verifies branch presence detection for the default
// branch, a freshly created branch, and a missing branch.
func TestBranchExists(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)
	ctx := context.Background()

	runTestGit(t, repo, "branch", "optr/task-T1")

	assert.True(t, r.BranchExists(ctx, "optr/task-T1"),
		"BranchExists should detect a created branch")
	assert.False(t, r.BranchExists(ctx, "optr/task-missing"),
		"BranchExists should be false for an absent branch")
}

// TestCreateBranch verifies that CreateBranch creates a branch from an
// explicit base without checking it out.
func TestCreateBranch(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)
	ctx := context.Background()

	err := r.CreateBranch(ctx, "optr/task-T2", "HEAD")
	require.NoError(t, err)

	assert.True(t, r.BranchExists(ctx, "optr/task-T2"))
}

// TestCreateBranchBadBase verifies that a nonexistent base branch produces
// an error that carries git's diagnostic text.
func TestCreateBranchBadBase(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)

	err := r.CreateBranch(context.Background(), "optr/task-T3", "no-such-base")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git branch", "error should name the failed command")
}

// TestAddAndRemoveWorktree verifies the full materialize/remove cycle
// against a real repository.
func TestAddAndRemoveWorktree(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)
	ctx := context.Background()

	require.NoError(t, r.CreateBranch(ctx, "optr/task-T4", "HEAD"))

	wtPath := filepath.Join(repo, ".optr-worktree-T4")
	require.NoError(t, r.AddWorktree(ctx, wtPath, "optr/task-T4"))

	_, statErr := os.Stat(wtPath)
	assert.NoError(t, statErr, "worktree directory should exist after add")

	require.NoError(t, r.RemoveWorktree(ctx, wtPath, false))

	_, statErr = os.Stat(wtPath)
	assert.True(t, os.IsNotExist(statErr), "worktree directory should be gone after remove")
}

// TestRemoveWorktreeForce verifies that force removal succeeds for a
// worktree with untracked files, which a plain remove refuses.
func TestRemoveWorktreeForce(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)
	ctx := context.Background()

	require.NoError(t, r.CreateBranch(ctx, "optr/task-T5", "HEAD"))
	wtPath := filepath.Join(repo, ".optr-worktree-T5")
	require.NoError(t, r.AddWorktree(ctx, wtPath, "optr/task-T5"))

	dirty := filepath.Join(wtPath, "untracked.txt")
	require.NoError(t, os.WriteFile(dirty, []byte("dirty"), 0644))

	err := r.RemoveWorktree(ctx, wtPath, true)
	require.NoError(t, err, "forced removal should succeed with untracked files")
}

// TestListWorktrees verifies the listing includes the main checkout plus
// every added worktree, with branch information populated.
func TestListWorktrees(t *testing.T) {
	repo := setupTestRepo(t)
	r := NewRunner(repo, 0)
	ctx := context.Background()

	require.NoError(t, r.CreateBranch(ctx, "optr/task-T6", "HEAD"))
	wtPath := filepath.Join(repo, ".optr-worktree-T6")
	require.NoError(t, r.AddWorktree(ctx, wtPath, "optr/task-T6"))

	worktrees, err := r.ListWorktrees(ctx)
	require.NoError(t, err)
	require.Len(t, worktrees, 2, "should list main checkout + 1 worktree")

	for _, wt := range worktrees {
		assert.NotEmpty(t, wt.Path)
		assert.NotEmpty(t, wt.HEAD, "each entry should carry a HEAD commit")
	}
}

// TestToplevel verifies repository root detection from a subdirectory.
// Symlinks are resolved on both sides because macOS temp directories live
// under /var which is a symlink to /private/var.
func TestToplevel(t *testing.T) {
	repo := setupTestRepo(t)

	sub := filepath.Join(repo, "some", "nested", "dir")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := Toplevel(context.Background(), sub, 10*time.Second)
	require.NoError(t, err)

	resolvedRepo, _ := filepath.EvalSymlinks(repo)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, resolvedRepo, resolvedRoot)
}

// TestParsePorcelain exercises the porcelain parser with a typical
// two-entry listing.
func TestParsePorcelain(t *testing.T) {
	input := `worktree /path/to/main
HEAD abc123def456
branch refs/heads/main

worktree /path/to/.optr-worktree-T1
HEAD def789abc012
branch refs/heads/optr/task-T1

`
	result := parsePorcelain(input)
	require.Len(t, result, 2)

	assert.Equal(t, "/path/to/main", result[0].Path)
	assert.Equal(t, "abc123def456", result[0].HEAD)
	assert.Equal(t, "refs/heads/main", result[0].Branch)

	assert.Equal(t, "/path/to/.optr-worktree-T1", result[1].Path)
	assert.Equal(t, "refs/heads/optr/task-T1", result[1].Branch)
}

// TestParsePorcelainMissingFields verifies tolerance of blocks without a
// branch line (detached HEAD) and of bare repository markers.
func TestParsePorcelainMissingFields(t *testing.T) {
	input := `worktree /path/to/detached
HEAD abc123
detached

worktree /path/to/bare
bare

`
	result := parsePorcelain(input)
	require.Len(t, result, 2)

	assert.Empty(t, result[0].Branch, "detached entry has no branch")
	assert.True(t, result[1].IsBare)
	assert.Empty(t, result[1].HEAD, "bare entry may omit HEAD")
}

// TestParsePorcelainEmpty verifies empty output produces no entries.
func TestParsePorcelainEmpty(t *testing.T) {
	assert.Empty(t, parsePorcelain(""))
}

// TestParsePorcelainNoTrailingBlankLine verifies the final block is kept
// even when the output lacks a terminating blank line.
func TestParsePorcelainNoTrailingBlankLine(t *testing.T) {
	input := "worktree /path/only\nHEAD abc\nbranch refs/heads/main"
	result := parsePorcelain(input)
	require.Len(t, result, 1)
	assert.Equal(t, "/path/only", result[0].Path)
}
