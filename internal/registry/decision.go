// decision.go implements the worktree isolation decision for a task.
//
// The decision is an ordered rule list evaluated top to bottom; the first
// matching rule wins and supplies the human-readable reason. Keeping the
// rules as explicit values (rather than a cascade of conditionals) keeps
// the precedence auditable and lets each rule be tested in isolation.
package registry

import (
	"fmt"

	"github.com/mmr-tortoise/optr/internal/model"
)

// decisionRule inspects a task against the currently tracked assignments
// and reports whether the task needs isolation, with a reason.
// Rules are pure: no rule mutates the task or the registry.
type decisionRule func(task model.Task, tracked []model.Assignment) (bool, string)

// decisionRules is evaluated in order; earlier rules take precedence in
// the reported reason.
var decisionRules = []decisionRule{
	ruleExplicitIsolation,
	ruleLongRunning,
	ruleFileOverlap,
}

// ruleExplicitIsolation matches tasks that request isolation outright.
func ruleExplicitIsolation(task model.Task, _ []model.Assignment) (bool, string) {
	if task.RequiresIsolation {
		return true, "task explicitly requests isolation"
	}
	return false, ""
}

// ruleLongRunning matches tasks estimated at more than one hour.
// Exactly one hour is not long-running.
func ruleLongRunning(task model.Task, _ []model.Assignment) (bool, string) {
	if task.EstimatedHours > 1 {
		return true, fmt.Sprintf("estimated duration %.1fh exceeds 1h", task.EstimatedHours)
	}
	return false, ""
}

// ruleFileOverlap matches tasks whose declared file set intersects the
// file set of any OTHER tracked assignment.
//
// Known coverage gap, kept deliberately: only assignments already in the
// registry are checked. Two tasks evaluated in the same batch, neither yet
// created, will not conflict with each other here.
func ruleFileOverlap(task model.Task, tracked []model.Assignment) (bool, string) {
	if len(task.Files) == 0 {
		return false, ""
	}

	taskFiles := make(map[string]struct{}, len(task.Files))
	for _, f := range task.Files {
		taskFiles[f] = struct{}{}
	}

	for _, other := range tracked {
		if other.TaskID == task.ID {
			continue
		}
		for _, f := range other.Files {
			if _, ok := taskFiles[f]; ok {
				return true, fmt.Sprintf("file %q overlaps with task %s", f, other.TaskID)
			}
		}
	}
	return false, ""
}

// ShouldUseWorktree decides whether the task warrants an isolated
// worktree. It has no side effects. The returned reason explains the
// first matching rule, or why no isolation is needed.
func (r *Registry) ShouldUseWorktree(task model.Task) (bool, string) {
	tracked := r.Assignments()
	for _, rule := range decisionRules {
		if matched, reason := rule(task, tracked); matched {
			return true, reason
		}
	}
	return false, "no isolation signal"
}
