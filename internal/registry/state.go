// state.go implements persistence of the registry state document.
//
// The on-disk format keeps the schema the OPTR plugin has always written:
// two maps keyed by task id, "worktrees" (full workspace records) and
// "task_assignments" (lighter records used for conflict detection).
// In memory there is only ONE map of task id to model.Assignment; the two
// wire maps are derived from it at save time and joined at load time.
// Deriving both maps from a single record makes it impossible for them to
// diverge through a missed paired update.
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mmr-tortoise/optr/internal/model"
)

// DefaultStateFile is the state document name used when the configuration
// does not override it. It lives in the repository root.
const DefaultStateFile = ".optr-worktrees.json"

// stateDoc is the wire representation of the registry state.
type stateDoc struct {
	// Worktrees maps task id to the authoritative workspace record.
	Worktrees map[string]workspaceRecord `json:"worktrees"`

	// TaskAssignments maps task id to the lighter assignment record.
	TaskAssignments map[string]taskRecord `json:"task_assignments"`
}

// workspaceRecord mirrors the historical "worktrees" entry layout.
type workspaceRecord struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	Path     string `json:"path"`
	Branch   string `json:"branch"`
	Created  bool   `json:"created"`
}

// taskRecord mirrors the historical "task_assignments" entry layout.
// Files is an extension: it lets conflict detection see the paths a task
// declared at creation time. Older state files without it still load.
type taskRecord struct {
	TaskName string   `json:"task_name"`
	Worktree string   `json:"worktree"`
	Branch   string   `json:"branch"`
	Files    []string `json:"files,omitempty"`
}

// loadState reads the state document at path and joins the two wire maps
// into a single assignment map.
//
// An absent file is the empty state. A file that exists but cannot be
// parsed, or whose two maps have diverged key sets, fails fast with
// ExitStateCorrupt — resetting to empty would silently lose track of
// worktrees that still exist on disk.
func loadState(path string) (map[string]model.Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Assignment{}, nil
		}
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read state file %s", path), err)
	}

	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.WrapCLIError(model.ExitStateCorrupt,
			fmt.Sprintf("state file %s is not valid JSON", path), err)
	}

	// The two maps must describe the same task ids. A mismatch means the
	// file was produced or edited by something that broke the invariant;
	// refuse to guess which half is authoritative.
	for id := range doc.Worktrees {
		if _, ok := doc.TaskAssignments[id]; !ok {
			return nil, model.NewCLIError(model.ExitStateCorrupt,
				fmt.Sprintf("state file %s: task %q present in worktrees but missing from task_assignments", path, id))
		}
	}
	for id := range doc.TaskAssignments {
		if _, ok := doc.Worktrees[id]; !ok {
			return nil, model.NewCLIError(model.ExitStateCorrupt,
				fmt.Sprintf("state file %s: task %q present in task_assignments but missing from worktrees", path, id))
		}
	}

	assignments := make(map[string]model.Assignment, len(doc.Worktrees))
	for id, wt := range doc.Worktrees {
		ta := doc.TaskAssignments[id]
		assignments[id] = model.Assignment{
			TaskID:   wt.TaskID,
			TaskName: wt.TaskName,
			Path:     wt.Path,
			Branch:   wt.Branch,
			Created:  wt.Created,
			Files:    ta.Files,
		}
	}
	return assignments, nil
}

// saveState derives the two wire maps from the assignment map and writes
// the full document to path, overwriting the previous content.
//
// The document is written indented with stable key order (encoding/json
// sorts map keys) so diffs of the state file stay readable.
func saveState(path string, assignments map[string]model.Assignment) error {
	doc := stateDoc{
		Worktrees:       make(map[string]workspaceRecord, len(assignments)),
		TaskAssignments: make(map[string]taskRecord, len(assignments)),
	}

	for id, a := range assignments {
		doc.Worktrees[id] = workspaceRecord{
			TaskID:   a.TaskID,
			TaskName: a.TaskName,
			Path:     a.Path,
			Branch:   a.Branch,
			Created:  a.Created,
		}
		doc.TaskAssignments[id] = taskRecord{
			TaskName: a.TaskName,
			Worktree: a.WorktreeName(),
			Branch:   a.Branch,
			Files:    a.Files,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode state", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write state file %s", path), err)
	}
	return nil
}
