package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findSuggestions filters a result's suggestions by kind.
func findSuggestions(result CritiqueResult, kind string) []Suggestion {
	var out []Suggestion
	for _, s := range result.Suggestions {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// TestCritiqueVagueTask verifies a task using vague vocabulary is flagged.
func TestCritiqueVagueTask(t *testing.T) {
	result := Critique("- [ ] fix stuff\n")

	require.Equal(t, 1, result.TotalTasks)
	vague := findSuggestions(result, SuggestionVague)
	require.Len(t, vague, 1)
	assert.Equal(t, 1, vague[0].Line)
	assert.Equal(t, "fix stuff", vague[0].Task)
}

// TestCritiqueSpecificTaskNotVague verifies a concrete description passes
// the vague check.
func TestCritiqueSpecificTaskNotVague(t *testing.T) {
	result := Critique("- [ ] implement session token rotation in auth middleware\n")

	assert.Empty(t, findSuggestions(result, SuggestionVague))
}

// TestCritiqueTooLarge verifies a task with more than twenty words is
// flagged as too large.
func TestCritiqueTooLarge(t *testing.T) {
	big := "- [ ] " + strings.Repeat("word ", 25)
	result := Critique(big + "\n")

	tooLarge := findSuggestions(result, SuggestionTooLarge)
	require.Len(t, tooLarge, 1)
	assert.Equal(t, 1, tooLarge[0].Line)
}

// TestCritiqueMissingCriteria verifies a task without acceptance language
// nearby is flagged, and one with nearby criteria is not.
func TestCritiqueMissingCriteria(t *testing.T) {
	withCriteria := strings.Join([]string{
		"- [ ] implement login flow",
		"  Acceptance: user can sign in with email",
	}, "\n")
	result := Critique(withCriteria)
	assert.Empty(t, findSuggestions(result, SuggestionMissingCriteria))

	without := "- [ ] implement login flow\n\n\n\n\n# Unrelated heading far away\n"
	result = Critique(without)
	assert.Len(t, findSuggestions(result, SuggestionMissingCriteria), 1)
}

// TestCritiqueCountsPlainBullets verifies plain "- item" bullets count as
// tasks alongside checkbox items.
func TestCritiqueCountsPlainBullets(t *testing.T) {
	content := strings.Join([]string{
		"- [ ] checkbox item",
		"- plain item",
		"- ",
	}, "\n")

	result := Critique(content)
	assert.Equal(t, 2, result.TotalTasks, "empty bullet should not count")
}

// TestCritiqueLineNumbers verifies suggestions reference the 1-based line
// of the flagged task.
func TestCritiqueLineNumbers(t *testing.T) {
	content := strings.Join([]string{
		"# Plan",
		"",
		"- [ ] fix things",
	}, "\n")

	result := Critique(content)
	vague := findSuggestions(result, SuggestionVague)
	require.Len(t, vague, 1)
	assert.Equal(t, 3, vague[0].Line)
}

// TestCritiqueEmptyPlan verifies an empty document yields no tasks and no
// suggestions.
func TestCritiqueEmptyPlan(t *testing.T) {
	result := Critique("")
	assert.Zero(t, result.TotalTasks)
	assert.Empty(t, result.Suggestions)
}
