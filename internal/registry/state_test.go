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

// TestLoadStateMissingFile verifies that an absent state file is the empty
// state, not an error.
func TestLoadStateMissingFile(t *testing.T) {
	assignments, err := loadState(filepath.Join(t.TempDir(), DefaultStateFile))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

// TestSaveLoadRoundTrip verifies that saving and reloading yields
// identical assignment records, including the files extension.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)

	original := map[string]model.Assignment{
		"T1": {
			TaskID: "T1", TaskName: "Auth refactor",
			Path: "/repo/.optr-worktree-T1", Branch: "optr/task-T1",
			Created: true, Files: []string{"auth.go"},
		},
		"T2": {
			TaskID: "T2", TaskName: "Docs pass",
			Path: "/repo/.optr-worktree-T2", Branch: "optr/task-T2",
			Created: true,
		},
	}

	require.NoError(t, saveState(path, original))

	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

// TestSaveStateWireSchema verifies the on-disk document keeps the
// historical dual-map schema with the documented field names, and that
// both maps carry the same task ids.
func TestSaveStateWireSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)

	assignments := map[string]model.Assignment{
		"T1": {
			TaskID: "T1", TaskName: "Auth refactor",
			Path: "/repo/.optr-worktree-T1", Branch: "optr/task-T1",
			Created: true,
		},
	}
	require.NoError(t, saveState(path, assignments))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Contains(t, doc, "worktrees")
	require.Contains(t, doc, "task_assignments")

	wt := doc["worktrees"]["T1"]
	require.NotNil(t, wt)
	assert.Equal(t, "T1", wt["task_id"])
	assert.Equal(t, "Auth refactor", wt["task_name"])
	assert.Equal(t, "/repo/.optr-worktree-T1", wt["path"])
	assert.Equal(t, "optr/task-T1", wt["branch"])
	assert.Equal(t, true, wt["created"])

	ta := doc["task_assignments"]["T1"]
	require.NotNil(t, ta)
	assert.Equal(t, "Auth refactor", ta["task_name"])
	assert.Equal(t, ".optr-worktree-T1", ta["worktree"])
	assert.Equal(t, "optr/task-T1", ta["branch"])
}

// TestLoadStateCorruptJSON verifies a present but unparsable file fails
// fast with ExitStateCorrupt instead of resetting to empty.
func TestLoadStateCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := loadState(path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitStateCorrupt, cliErr.Code)
}

// TestLoadStateDivergedMaps verifies a document whose two maps describe
// different task id sets is rejected as corrupt. The maps are written and
// deleted together, so a divergence means an external writer broke the
// invariant.
func TestLoadStateDivergedMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)
	doc := `{
  "worktrees": {
    "T1": {"task_id": "T1", "task_name": "a", "path": "/p", "branch": "b", "created": true}
  },
  "task_assignments": {}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := loadState(path)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitStateCorrupt, cliErr.Code)
	assert.Contains(t, err.Error(), "T1")
}

// TestLoadStateLegacyWithoutFiles verifies a state file written before the
// files extension still loads, with an empty file set.
func TestLoadStateLegacyWithoutFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)
	doc := `{
  "worktrees": {
    "T1": {"task_id": "T1", "task_name": "legacy", "path": "/repo/.optr-worktree-T1", "branch": "optr/task-T1", "created": true}
  },
  "task_assignments": {
    "T1": {"task_name": "legacy", "worktree": ".optr-worktree-T1", "branch": "optr/task-T1"}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	assignments, err := loadState(path)
	require.NoError(t, err)
	require.Contains(t, assignments, "T1")
	assert.Empty(t, assignments["T1"].Files)
	assert.True(t, assignments["T1"].Created)
}

// TestSaveStateOverwrites verifies a save fully replaces the previous
// document content rather than appending or patching.
func TestSaveStateOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultStateFile)

	two := map[string]model.Assignment{
		"T1": {TaskID: "T1", Path: "/repo/.optr-worktree-T1", Branch: "optr/task-T1", Created: true},
		"T2": {TaskID: "T2", Path: "/repo/.optr-worktree-T2", Branch: "optr/task-T2", Created: true},
	}
	require.NoError(t, saveState(path, two))

	one := map[string]model.Assignment{
		"T1": two["T1"],
	}
	require.NoError(t, saveState(path, one))

	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.NotContains(t, loaded, "T2")
}
