// Package model defines the domain types shared across the optr CLI.
//
// The central entity is the Assignment: the record that binds a task
// identifier to an isolated git worktree (path + branch). Assignments are
// persisted in the registry state file and survive across process
// invocations, so the JSON field names here are part of the on-disk
// contract and must remain stable.
package model

import (
	"fmt"
	"path/filepath"
)

// BranchPrefix is prepended to a task id to form the deterministic branch
// name for its isolated worktree, e.g. task "T1" works on "optr/task-T1".
const BranchPrefix = "optr/task-"

// WorktreeDirPrefix is prepended to a task id to form the deterministic
// worktree directory name under the repository root, e.g. ".optr-worktree-T1".
const WorktreeDirPrefix = ".optr-worktree-"

// TaskBranch returns the branch name for the given task id.
func TaskBranch(taskID string) string {
	return BranchPrefix + taskID
}

// TaskWorktreeDir returns the worktree directory name for the given task id.
// The name is relative to the repository root.
func TaskWorktreeDir(taskID string) string {
	return WorktreeDirPrefix + taskID
}

// Task describes a unit of work from an external planning document.
// All fields are optional signals for the isolation decision; absent fields
// mean "no signal" (false flag, zero hours, empty file set).
//
// The JSON field names match the task descriptors the OPTR plugin passes to
// `optr should-use --json`.
type Task struct {
	// ID is the opaque stable task identifier.
	ID string `json:"id"`

	// Name is the human-readable task label. Not unique.
	Name string `json:"name,omitempty"`

	// RequiresIsolation marks the task as explicitly requesting its own
	// worktree, overriding every other signal.
	RequiresIsolation bool `json:"requires_isolation,omitempty"`

	// EstimatedHours is the expected task duration. Tasks estimated at
	// more than one hour are considered long-running and get isolated.
	EstimatedHours float64 `json:"estimated_hours,omitempty"`

	// Files lists the paths the task intends to touch. Overlap with the
	// file set of another tracked assignment triggers isolation.
	Files []string `json:"files,omitempty"`
}

// Assignment is the authoritative record of one task's isolated worktree.
// Exactly one assignment exists per task id; both maps in the state file
// are derived from this single record (see internal/registry), which
// eliminates the divergence bug class of keeping two maps by hand.
type Assignment struct {
	// TaskID is the unique key for the assignment.
	TaskID string `json:"task_id"`

	// TaskName is the human-readable task label, not unique.
	TaskName string `json:"task_name"`

	// Path is the absolute filesystem location of the isolated worktree.
	// Unique among active assignments.
	Path string `json:"path"`

	// Branch is the branch the worktree is bound to, derived from the task
	// id via TaskBranch.
	Branch string `json:"branch"`

	// Created indicates the worktree exists on disk. It is set when
	// `git worktree add` succeeds and the record is first persisted.
	Created bool `json:"created"`

	// Files lists the paths the task declared at creation time. Used for
	// conflict detection against later tasks. May be empty — assignments
	// created without a file declaration never conflict by overlap.
	Files []string `json:"files,omitempty"`
}

// WorktreeName returns the directory name component of the assignment's
// worktree path. This is the value stored in the task_assignments map of
// the state file.
func (a *Assignment) WorktreeName() string {
	return filepath.Base(a.Path)
}

// PlanAnalysis is the result of the plan complexity heuristic.
// It never carries an error: analysis is a pure text computation.
type PlanAnalysis struct {
	// TaskCount is the number of unchecked task items ("- [ ]" lines).
	TaskCount int `json:"task_count"`

	// HasModules reports whether the plan mentions any module-structure
	// keyword (module, component, service, frontend, backend).
	HasModules bool `json:"has_modules"`

	// HasParallelWork reports whether the plan mentions any parallel-work
	// keyword (parallel, concurrent, simultaneous).
	HasParallelWork bool `json:"has_parallel_work"`

	// RecommendWorktree is true when the plan is complex enough to warrant
	// worktree isolation.
	RecommendWorktree bool `json:"recommend_worktree"`

	// Reason is the human-readable explanation for the recommendation.
	// Rule precedence determines which reason is reported: parallel work
	// wins over task-count thresholds.
	Reason string `json:"reason"`
}

// ExitCode defines the process exit codes the optr CLI reports.
// Scripts and the OPTR plugin itself branch on these codes, most notably
// ExitIsolationRecommended from `optr analyze`.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitGitError indicates a git operation (branch or worktree
	// create/remove/list) failed. The git diagnostic text is preserved
	// in the error message.
	ExitGitError ExitCode = 2

	// ExitNotFound indicates an operation referenced a task id with no
	// tracked assignment.
	ExitNotFound ExitCode = 3

	// ExitAlreadyAssigned indicates a worktree was requested for a task id
	// that already has a tracked assignment.
	ExitAlreadyAssigned ExitCode = 4

	// ExitStateCorrupt indicates the registry state file exists but could
	// not be parsed. The registry fails fast rather than silently
	// resetting to empty state.
	ExitStateCorrupt ExitCode = 5

	// ExitIsolationRecommended is returned by `optr analyze` when the plan
	// warrants worktree isolation. Not an error: the exit status itself is
	// the signal, mirroring diff-style tools.
	ExitIsolationRecommended ExitCode = 6
)

// CLIError is an error that carries a process exit code, letting the CLI
// layer translate domain failures into exit statuses without inspecting
// error strings.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
