// Package registry tracks the assignment of tasks to isolated git
// worktrees for the OPTR plugin.
//
// The registry owns a small persisted state document (.optr-worktrees.json
// by default) mapping task ids to worktree assignments, and delegates the
// actual workspace creation and removal to the git CLI via internal/git.
// Git's result is ground truth: a record is only persisted after the
// worktree exists, and only deleted after the worktree is gone. If git
// fails, state is left untouched so no worktree is ever orphaned from the
// registry's point of view.
//
// Concurrency: the registry is single-threaded and assumes one optr
// process manipulates a repository's state file at a time. There is no
// file locking; concurrent invocation is out of scope.
package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/mmr-tortoise/optr/internal/git"
	"github.com/mmr-tortoise/optr/internal/model"
)

// Config holds the explicit configuration for a Registry. There are no
// implicit process-wide defaults: the caller decides the repository root
// and state file name, typically from flags and the environment.
type Config struct {
	// RepoRoot is the absolute path to the repository top level.
	RepoRoot string

	// StateFile is the state document name, resolved relative to RepoRoot
	// unless absolute. Empty means DefaultStateFile.
	StateFile string

	// GitTimeout bounds each git invocation. Zero means git.DefaultTimeout.
	GitTimeout time.Duration
}

// StatePath returns the resolved filesystem path of the state document.
func (c Config) StatePath() string {
	name := c.StateFile
	if name == "" {
		name = DefaultStateFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.RepoRoot, name)
}

// Registry is the worktree bookkeeping unit. Construct it with New, which
// reads the state file once; every mutating operation rewrites the file.
type Registry struct {
	cfg         Config
	git         *git.Runner
	assignments map[string]model.Assignment
}

// CreateRequest carries the inputs for Create.
type CreateRequest struct {
	// TaskID is the opaque task identifier; required and unique.
	TaskID string

	// TaskName is the human-readable label stored alongside the id.
	TaskName string

	// BaseBranch is the branch the task branch is created from when it
	// does not exist yet. Empty means "main".
	BaseBranch string

	// Files optionally declares the paths the task will touch, enabling
	// overlap-based conflict detection for later tasks.
	Files []string
}

// New constructs a Registry for the repository described by cfg, loading
// persisted assignments from the state file.
//
// A missing state file yields an empty registry. A present but unparsable
// file fails with ExitStateCorrupt rather than silently starting empty.
func New(cfg Config) (*Registry, error) {
	assignments, err := loadState(cfg.StatePath())
	if err != nil {
		return nil, err
	}
	return &Registry{
		cfg:         cfg,
		git:         git.NewRunner(cfg.RepoRoot, cfg.GitTimeout),
		assignments: assignments,
	}, nil
}

// Create provisions an isolated worktree for a task and records the
// assignment.
//
// The branch name and worktree directory are derived deterministically
// from the task id (optr/task-<id>, .optr-worktree-<id>). An existing
// branch is reused; otherwise it is created from the base branch. Both
// git steps abort the operation without mutating state on failure, and
// their error messages name the failed git subcommand so branch and
// worktree failures stay distinguishable.
//
// Creating a task id that is already tracked fails with AlreadyAssigned
// instead of surfacing git's "already exists" diagnostic.
func (r *Registry) Create(ctx context.Context, req CreateRequest) (*model.Assignment, error) {
	if req.TaskID == "" {
		return nil, model.NewCLIError(model.ExitGeneralError, "task id must not be empty")
	}
	if _, exists := r.assignments[req.TaskID]; exists {
		return nil, model.NewCLIError(model.ExitAlreadyAssigned,
			fmt.Sprintf("task %s already has a worktree assignment", req.TaskID))
	}

	branch := model.TaskBranch(req.TaskID)
	base := req.BaseBranch
	if base == "" {
		base = "main"
	}

	if !r.git.BranchExists(ctx, branch) {
		if err := r.git.CreateBranch(ctx, branch, base); err != nil {
			return nil, err
		}
	}

	// Not transactional across process crashes: a crash after branch
	// creation but before worktree creation leaves an orphan branch.
	worktreePath := filepath.Join(r.cfg.RepoRoot, model.TaskWorktreeDir(req.TaskID))
	if err := r.git.AddWorktree(ctx, worktreePath, branch); err != nil {
		return nil, err
	}

	assignment := model.Assignment{
		TaskID:   req.TaskID,
		TaskName: req.TaskName,
		Path:     worktreePath,
		Branch:   branch,
		Created:  true,
		Files:    req.Files,
	}

	r.assignments[req.TaskID] = assignment
	if err := saveState(r.cfg.StatePath(), r.assignments); err != nil {
		// The worktree exists but the record could not be persisted.
		// Roll the in-memory map back so this Registry instance stays
		// consistent with the file, and surface the failure.
		delete(r.assignments, req.TaskID)
		return nil, err
	}

	return &assignment, nil
}

// Get returns the assignment for a task id, if tracked. Pure lookup.
func (r *Registry) Get(taskID string) (model.Assignment, bool) {
	a, ok := r.assignments[taskID]
	return a, ok
}

// Assignments returns a snapshot of all tracked assignments, sorted by
// task id for deterministic output.
func (r *Registry) Assignments() []model.Assignment {
	out := make([]model.Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// Remove deletes a task's worktree and drops the assignment.
//
// The worktree is removed first; the record is deleted and the state file
// rewritten only after git succeeds. On git failure the record stays — the
// worktree is still on disk and must not be lost track of. Removing an
// untracked task id fails with NotFound and leaves the state file
// untouched.
func (r *Registry) Remove(ctx context.Context, taskID string, force bool) error {
	assignment, ok := r.assignments[taskID]
	if !ok {
		return model.NewCLIError(model.ExitNotFound,
			fmt.Sprintf("no worktree found for task %s", taskID))
	}

	if err := r.git.RemoveWorktree(ctx, assignment.Path, force); err != nil {
		return err
	}

	delete(r.assignments, taskID)
	if err := saveState(r.cfg.StatePath(), r.assignments); err != nil {
		// Restore the record: the file on disk still contains it.
		r.assignments[taskID] = assignment
		return err
	}
	return nil
}

// CleanupAll removes every tracked worktree and returns the number of
// successful removals. Iteration works on a snapshot of the task ids so
// that the per-task map deletions cannot skip or duplicate entries.
// Individual failures do not stop the sweep; they are joined into the
// returned error.
func (r *Registry) CleanupAll(ctx context.Context, force bool) (int, error) {
	ids := make([]string, 0, len(r.assignments))
	for id := range r.assignments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	removed := 0
	var errs []error
	for _, id := range ids {
		if err := r.Remove(ctx, id, force); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// ListWorktrees enumerates every worktree git knows about for the
// repository, not just optr-tracked ones. A git failure degrades to an
// empty listing rather than an error; enumeration is advisory output.
func (r *Registry) ListWorktrees(ctx context.Context) []git.Worktree {
	worktrees, err := r.git.ListWorktrees(ctx)
	if err != nil {
		return nil
	}
	return worktrees
}

// RepoRoot returns the repository root the registry operates on.
func (r *Registry) RepoRoot() string {
	return r.cfg.RepoRoot
}
