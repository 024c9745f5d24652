package tools

import (
	"sort"
	"strings"
)

// Base scores per source. Project-local tools always outrank globally
// installed ones.
const (
	projectBaseScore = 10
	globalBaseScore  = 5
)

// MergeAndScore combines project and global tools into one ranked list.
// Each tool gets its source's base score plus one point per plan keyword
// appearing in its name or description. Duplicates (same kind and name,
// case-insensitive) keep the project entry. The result is sorted by
// score descending, then name for a stable order.
func MergeAndScore(project, global []Tool, keywords []string) []Tool {
	var merged []Tool
	seen := make(map[string]struct{})

	add := func(tool Tool, source string, base int) {
		key := string(tool.Kind) + ":" + strings.ToLower(tool.Name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		tool.Source = source
		tool.Score = base + keywordBonus(tool, keywords)
		merged = append(merged, tool)
	}

	for _, tool := range project {
		add(tool, SourceProject, projectBaseScore)
	}
	for _, tool := range global {
		add(tool, SourceGlobal, globalBaseScore)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Name < merged[j].Name
	})
	return merged
}

// keywordBonus counts the plan keywords mentioned by the tool's name or
// description.
func keywordBonus(tool Tool, keywords []string) int {
	haystack := strings.ToLower(tool.Name + " " + tool.Description)
	bonus := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			bonus++
		}
	}
	return bonus
}
