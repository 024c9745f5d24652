package tools

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a discovered tool.
type Kind string

// Tool kinds.
const (
	KindSkill   Kind = "skill"
	KindAgent   Kind = "agent"
	KindCommand Kind = "command"
)

// Tool sources.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
)

// Tool is a discovered skill, agent, or command.
type Tool struct {
	Kind        Kind   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Source      string `json:"source,omitempty"`
	Score       int    `json:"score,omitempty"`
}

// skillDirs, agentDirs, and commandDirs are the project-relative
// locations searched by ScanProject.
var (
	skillDirs   = []string{".claude/skills", "skills"}
	agentDirs   = []string{".claude/agents", "agents"}
	commandDirs = []string{".claude/commands", "commands"}
)

// ScanProject walks the project-local tool directories under root.
// Skills are SKILL.md files with a frontmatter description; agents and
// commands are any other markdown file with at least one prose line.
// Missing directories and unreadable files are skipped.
func ScanProject(root string) []Tool {
	var found []Tool

	for _, dir := range skillDirs {
		walkMarkdown(filepath.Join(root, dir), func(path string) {
			if filepath.Base(path) != "SKILL.md" {
				return
			}
			if tool, ok := parseSkill(path); ok {
				found = append(found, tool)
			}
		})
	}
	for _, dir := range agentDirs {
		walkMarkdown(filepath.Join(root, dir), func(path string) {
			if filepath.Base(path) == "SKILL.md" {
				return
			}
			if tool, ok := parseDescribed(path, KindAgent); ok {
				found = append(found, tool)
			}
		})
	}
	for _, dir := range commandDirs {
		walkMarkdown(filepath.Join(root, dir), func(path string) {
			if filepath.Base(path) == "SKILL.md" {
				return
			}
			if tool, ok := parseDescribed(path, KindCommand); ok {
				found = append(found, tool)
			}
		})
	}

	return found
}

// ScanGlobal walks <home>/.claude/plugins for installed tools. Skills
// are SKILL.md files; agents and commands are identified by the
// *-agent.md and *-command.md naming convention.
func ScanGlobal(home string) []Tool {
	var found []Tool

	walkMarkdown(filepath.Join(home, ".claude", "plugins"), func(path string) {
		base := filepath.Base(path)
		switch {
		case base == "SKILL.md":
			if tool, ok := parseSkill(path); ok {
				found = append(found, tool)
			}
		case strings.HasSuffix(base, "-agent.md"):
			if tool, ok := parseDescribed(path, KindAgent); ok {
				found = append(found, tool)
			}
		case strings.HasSuffix(base, "-command.md"):
			if tool, ok := parseDescribed(path, KindCommand); ok {
				found = append(found, tool)
			}
		}
	})

	return found
}

// walkMarkdown calls visit for every .md file under dir. A missing or
// unreadable directory is treated as empty.
func walkMarkdown(dir string, visit func(path string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".md") {
			visit(path)
		}
		return nil
	})
}

// parseSkill reads a SKILL.md and builds a Tool from its frontmatter.
// Skills without a description are not usable for matching and are
// dropped. A missing name falls back to the skill's directory name.
func parseSkill(path string) (Tool, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Tool{}, false
	}
	meta, err := parseFrontmatter(string(content))
	if err != nil || meta.Description == "" {
		return Tool{}, false
	}

	name := meta.Name
	if name == "" {
		name = filepath.Base(filepath.Dir(path))
	}
	return Tool{Kind: KindSkill, Name: name, Description: meta.Description, Path: path}, true
}

// parseDescribed builds an agent or command Tool named after the file
// stem, described by its first prose line.
func parseDescribed(path string, kind Kind) (Tool, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Tool{}, false
	}
	description := firstProseLine(string(content))
	if description == "" {
		return Tool{}, false
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	return Tool{Kind: kind, Name: name, Description: description, Path: path}, true
}
