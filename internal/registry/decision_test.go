package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/optr/internal/model"
)

// newEmptyRegistry constructs a registry over a temp directory with no
// state file. ShouldUseWorktree never touches git, so no repository setup
// is needed for decision tests.
func newEmptyRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := New(Config{RepoRoot: t.TempDir()})
	require.NoError(t, err)
	return r
}

// newRegistryWithState writes a state document containing the given
// assignments and loads a registry from it. This exercises the real load
// path instead of poking registry internals.
func newRegistryWithState(t *testing.T, assignments map[string]model.Assignment) *Registry {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, saveState(filepath.Join(dir, DefaultStateFile), assignments))

	r, err := New(Config{RepoRoot: dir})
	require.NoError(t, err)
	return r
}

// TestShouldUseWorktreeExplicitIsolation verifies the isolation flag wins
// regardless of any other field.
func TestShouldUseWorktreeExplicitIsolation(t *testing.T) {
	r := newEmptyRegistry(t)

	task := model.Task{ID: "T1", RequiresIsolation: true, EstimatedHours: 0.1}
	isolate, reason := r.ShouldUseWorktree(task)

	assert.True(t, isolate)
	assert.Contains(t, reason, "explicitly requests isolation")
}

// TestShouldUseWorktreeLongRunning verifies the one-hour threshold:
// strictly more than an hour isolates, exactly one hour does not.
func TestShouldUseWorktreeLongRunning(t *testing.T) {
	r := newEmptyRegistry(t)

	isolate, reason := r.ShouldUseWorktree(model.Task{ID: "T1", EstimatedHours: 1.5})
	assert.True(t, isolate)
	assert.Contains(t, reason, "exceeds 1h")

	isolate, _ = r.ShouldUseWorktree(model.Task{ID: "T2", EstimatedHours: 1.0})
	assert.False(t, isolate, "exactly one hour is not long-running")
}

// TestShouldUseWorktreeFileOverlap verifies overlap detection against a
// tracked assignment's declared file set, and that the task's own
// assignment is excluded from the comparison.
func TestShouldUseWorktreeFileOverlap(t *testing.T) {
	r := newRegistryWithState(t, map[string]model.Assignment{
		"T1": {
			TaskID: "T1", TaskName: "Auth refactor",
			Path: "/repo/.optr-worktree-T1", Branch: "optr/task-T1",
			Created: true, Files: []string{"auth.go", "session.go"},
		},
	})

	// Overlapping file set isolates.
	isolate, reason := r.ShouldUseWorktree(model.Task{ID: "T2", Files: []string{"session.go"}})
	assert.True(t, isolate)
	assert.Contains(t, reason, "session.go")
	assert.Contains(t, reason, "T1")

	// Disjoint file set does not.
	isolate, _ = r.ShouldUseWorktree(model.Task{ID: "T3", Files: []string{"readme.md"}})
	assert.False(t, isolate)

	// A task never conflicts with its own assignment.
	isolate, _ = r.ShouldUseWorktree(model.Task{ID: "T1", Files: []string{"auth.go"}})
	assert.False(t, isolate)
}

// TestShouldUseWorktreeNoSignal verifies that a short task with no flags
// and no overlapping files needs no isolation.
func TestShouldUseWorktreeNoSignal(t *testing.T) {
	r := newRegistryWithState(t, map[string]model.Assignment{
		"T1": {
			TaskID: "T1", Path: "/repo/.optr-worktree-T1",
			Branch: "optr/task-T1", Created: true,
			Files: []string{"other.go"},
		},
	})

	task := model.Task{ID: "T2", EstimatedHours: 0.5, Files: []string{"mine.go"}}
	isolate, reason := r.ShouldUseWorktree(task)

	assert.False(t, isolate)
	assert.Equal(t, "no isolation signal", reason)
}

// TestShouldUseWorktreeRulePrecedence verifies the explicit flag's reason
// is reported even when later rules would also match.
func TestShouldUseWorktreeRulePrecedence(t *testing.T) {
	r := newEmptyRegistry(t)

	task := model.Task{ID: "T1", RequiresIsolation: true, EstimatedHours: 8}
	_, reason := r.ShouldUseWorktree(task)

	assert.Contains(t, reason, "explicitly requests isolation",
		"first matching rule supplies the reason")
}

// TestShouldUseWorktreeJSONDescriptor runs the decision on a descriptor
// decoded from the wire format, the way `optr should-use --json` does.
func TestShouldUseWorktreeJSONDescriptor(t *testing.T) {
	r := newEmptyRegistry(t)

	var task model.Task
	payload := []byte(`{"id":"T9","estimated_hours":3,"files":["a.go"]}`)
	require.NoError(t, json.Unmarshal(payload, &task))

	isolate, _ := r.ShouldUseWorktree(task)
	assert.True(t, isolate)
}

// TestDecisionRulesPure verifies the decision has no side effects on the
// state file, per the operation contract.
func TestDecisionRulesPure(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, DefaultStateFile)
	require.NoError(t, saveState(statePath, map[string]model.Assignment{}))

	before, err := os.ReadFile(statePath)
	require.NoError(t, err)

	r, err := New(Config{RepoRoot: dir})
	require.NoError(t, err)
	r.ShouldUseWorktree(model.Task{ID: "T1", RequiresIsolation: true})

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "decision must not touch the state file")
}
