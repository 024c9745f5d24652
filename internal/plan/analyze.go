// Package plan provides pure-text heuristics over PLAN.md-style planning
// documents: complexity analysis for the worktree recommendation, keyword
// extraction for tool matching, and a structural critique of task items.
//
// Nothing in this package performs I/O or natural-language understanding;
// every function is a deterministic computation over the document text.
package plan

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/optr/internal/model"
)

// moduleKeywords indicate the plan is split into multiple modules or
// tiers, which raises the value of worktree isolation.
var moduleKeywords = []string{"module", "component", "service", "frontend", "backend"}

// parallelKeywords indicate explicitly parallel work.
var parallelKeywords = []string{"parallel", "concurrent", "simultaneous"}

// recommendRule is one entry in the ordered recommendation rule list.
// Earlier rules take precedence in the reported reason.
type recommendRule struct {
	applies func(taskCount int, hasModules, hasParallel bool) bool
	reason  func(taskCount int) string
}

// recommendRules: parallel work first (it wins the explanation even when a
// count threshold also holds), then the high and moderate count rules.
var recommendRules = []recommendRule{
	{
		applies: func(_ int, _, hasParallel bool) bool { return hasParallel },
		reason:  func(int) string { return "Plan contains parallel/concurrent work indicators" },
	},
	{
		applies: func(taskCount int, _, _ bool) bool { return taskCount >= 8 },
		reason:  func(taskCount int) string { return fmt.Sprintf("High task count (%d tasks)", taskCount) },
	},
	{
		applies: func(taskCount int, hasModules, _ bool) bool { return taskCount >= 5 && hasModules },
		reason: func(taskCount int) string {
			return fmt.Sprintf("Moderate task count (%d) with multiple modules", taskCount)
		},
	},
}

// Analyze computes the worktree recommendation for a plan document.
// It never fails: an empty document simply yields no recommendation.
func Analyze(content string) model.PlanAnalysis {
	analysis := model.PlanAnalysis{
		TaskCount:       countUncheckedTasks(content),
		HasModules:      containsAny(content, moduleKeywords),
		HasParallelWork: containsAny(content, parallelKeywords),
	}

	for _, rule := range recommendRules {
		if rule.applies(analysis.TaskCount, analysis.HasModules, analysis.HasParallelWork) {
			analysis.RecommendWorktree = true
			analysis.Reason = rule.reason(analysis.TaskCount)
			return analysis
		}
	}

	analysis.Reason = "Single worktree is sufficient"
	return analysis
}

// countUncheckedTasks counts lines that are unchecked task items:
// "- [ ]" at the start of the line after trimming indentation.
func countUncheckedTasks(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- [ ]") {
			count++
		}
	}
	return count
}

// containsAny reports whether the content mentions any of the keywords,
// case-insensitively.
func containsAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
