package marketplace

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultThreshold is the minimum relevance score a plugin needs to be
// reported as a match.
const DefaultThreshold = 0.5

// Keyword hits in the plugin name weigh double those in the description.
const (
	nameWeight        = 2
	descriptionWeight = 1
)

// Match is a plugin deemed relevant to a plan.
type Match struct {
	Plugin
	Score      float64 `json:"relevance_score"`
	InstallCmd string  `json:"install_cmd,omitempty"`
}

// MatchPlugins scores each plugin's keyword overlap with the plan and
// returns those at or above the threshold, sorted by score descending
// (name ascending on ties). Scores are normalized to [0, 1]: a plugin
// whose name mentions every keyword scores 1.0.
func MatchPlugins(plugins []Plugin, keywords []string, threshold float64) []Match {
	if len(keywords) == 0 {
		return nil
	}

	var matches []Match
	for _, plugin := range plugins {
		score := relevance(plugin, keywords)
		if score < threshold {
			continue
		}

		m := Match{Plugin: plugin, Score: score}
		if plugin.Repository != "" {
			m.InstallCmd = fmt.Sprintf("claude plugin add %s", plugin.Repository)
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})
	return matches
}

// relevance computes the weighted share of keywords the plugin mentions.
func relevance(plugin Plugin, keywords []string) float64 {
	name := strings.ToLower(plugin.Name)
	description := strings.ToLower(plugin.Description)

	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		switch {
		case strings.Contains(name, kw):
			hits += nameWeight
		case strings.Contains(description, kw):
			hits += descriptionWeight
		}
	}
	return float64(hits) / float64(nameWeight*len(keywords))
}
