// Package tools discovers reusable skills, agents, and commands from
// project-local and global plugin directories and ranks them against a
// plan's keyword set.
package tools

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the YAML frontmatter of a SKILL.md file.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// parseFrontmatter extracts the YAML frontmatter block from a markdown
// document. A document without a leading "---" fence yields an empty
// Metadata and no error; a fence with invalid YAML is an error.
func parseFrontmatter(content string) (Metadata, error) {
	var meta Metadata

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return meta, nil
	}
	block, _, ok := strings.Cut(rest, "\n---")
	if !ok {
		return meta, nil
	}

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// firstProseLine returns the first non-empty line that is not a markdown
// heading. Used to derive a description for agent and command files,
// which carry no frontmatter.
func firstProseLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}
