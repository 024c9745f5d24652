// keywords.go extracts matching keywords from a plan document for tool
// discovery and marketplace matching. The vocabulary is a fixed term list,
// not natural-language analysis: a term counts when it appears anywhere in
// the document, case-insensitively.
package plan

import "strings"

// domainTerms are the nouns worth matching tools against.
var domainTerms = []string{
	"skill", "plugin", "agent", "command", "hook",
	"frontend", "backend", "ui", "interface",
	"api", "database", "test", "review",
	"documentation", "deploy",
}

// actionVerbs are the verbs worth matching tools against.
var actionVerbs = []string{"create", "build", "implement", "design", "add", "update"}

// Keywords returns the fixed-vocabulary terms present in the plan, domain
// terms first, then verbs, each at most once and in vocabulary order so
// the result is deterministic.
func Keywords(content string) []string {
	lower := strings.ToLower(content)

	var keywords []string
	for _, term := range domainTerms {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
		}
	}
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			keywords = append(keywords, verb)
		}
	}
	return keywords
}
