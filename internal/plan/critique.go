// critique.go flags structural problems in plan task items: vague
// wording, oversized tasks, and missing acceptance criteria. The checks
// are shallow string heuristics intended as a nudge, not a linter.
package plan

import "strings"

// Suggestion kinds reported by Critique.
const (
	SuggestionVague           = "vague"
	SuggestionTooLarge        = "too-large"
	SuggestionMissingCriteria = "missing-criteria"
)

// vagueWords flag a task description that does not say what to do.
var vagueWords = map[string]struct{}{
	"fix": {}, "add": {}, "update": {}, "stuff": {}, "things": {}, "etc": {},
}

// criteriaWords indicate an acceptance criterion near a task.
var criteriaWords = []string{"acceptance", "criteria", "verify", "test"}

// tooLargeWordCount is the word count above which a task is probably
// several tasks in a trench coat.
const tooLargeWordCount = 20

// contextRadius is how many lines around a task are searched for
// acceptance criteria.
const contextRadius = 3

// TaskItem is a single task extracted from a plan document.
type TaskItem struct {
	// Line is the 1-based line number of the item.
	Line int

	// Text is the task description with the list marker stripped.
	Text string
}

// Suggestion is one critique finding attached to a task item.
type Suggestion struct {
	// Line is the 1-based line number of the flagged task.
	Line int `json:"line"`

	// Task is the flagged task's text.
	Task string `json:"task"`

	// Kind is one of the Suggestion* constants.
	Kind string `json:"type"`

	// Message explains what to improve.
	Message string `json:"message"`
}

// CritiqueResult aggregates the extracted tasks and findings.
type CritiqueResult struct {
	// TotalTasks is the number of task items found.
	TotalTasks int `json:"total_tasks"`

	// Suggestions lists every finding, in document order grouped by check.
	Suggestions []Suggestion `json:"suggestions"`
}

// Critique analyzes the plan's task items and returns improvement
// suggestions. Like Analyze, it never fails.
func Critique(content string) CritiqueResult {
	lines := strings.Split(content, "\n")
	tasks := extractTasks(lines)

	var suggestions []Suggestion

	for _, task := range tasks {
		if hasVagueWording(task.Text) {
			suggestions = append(suggestions, Suggestion{
				Line: task.Line, Task: task.Text, Kind: SuggestionVague,
				Message: "Task description is vague. Be more specific about what needs to be done.",
			})
		}
	}

	for _, task := range tasks {
		if len(strings.Fields(task.Text)) > tooLargeWordCount {
			suggestions = append(suggestions, Suggestion{
				Line: task.Line, Task: task.Text, Kind: SuggestionTooLarge,
				Message: "Task might be too large. Consider breaking into smaller subtasks.",
			})
		}
	}

	for _, task := range tasks {
		if !hasNearbyCriteria(lines, task.Line) {
			suggestions = append(suggestions, Suggestion{
				Line: task.Line, Task: task.Text, Kind: SuggestionMissingCriteria,
				Message: `Task lacks acceptance criteria. Add what "done" looks like.`,
			})
		}
	}

	return CritiqueResult{TotalTasks: len(tasks), Suggestions: suggestions}
}

// extractTasks collects list items ("- ..." and "- [ ] ...") with their
// line numbers.
func extractTasks(lines []string) []TaskItem {
	var tasks []TaskItem
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, "- ") {
			continue
		}

		text := strings.TrimPrefix(stripped, "- [ ]")
		text = strings.TrimPrefix(text, "- ")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		tasks = append(tasks, TaskItem{Line: i + 1, Text: text})
	}
	return tasks
}

// hasVagueWording reports whether any word of the task is in the vague
// vocabulary.
func hasVagueWording(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := vagueWords[strings.Trim(word, ".,;:!?")]; ok {
			return true
		}
	}
	return false
}

// hasNearbyCriteria reports whether any criteria keyword appears within
// contextRadius lines of the task.
func hasNearbyCriteria(lines []string, taskLine int) bool {
	start := taskLine - 1 - contextRadius
	if start < 0 {
		start = 0
	}
	end := taskLine - 1 + contextRadius
	if end >= len(lines) {
		end = len(lines) - 1
	}

	context := strings.ToLower(strings.Join(lines[start:end+1], "\n"))
	for _, word := range criteriaWords {
		if strings.Contains(context, word) {
			return true
		}
	}
	return false
}
