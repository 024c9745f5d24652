// Package docs keeps project documentation in step with completed work:
// completion markers and a freshness timestamp in PLAN.md, a changelog
// in README.md, and a patch version bump in the plugin manifest.
package docs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// timestampLayout is the "Last Updated" format in PLAN.md.
const timestampLayout = "2006-01-02 15:04"

// completedMark is appended to completed task lines.
const completedMark = "✅"

// UpdatePlan marks completed tasks and refreshes the "Last Updated"
// timestamp. A "- [x]" line gains a trailing mark exactly once; running
// the update twice leaves the document unchanged apart from the
// timestamp.
func UpdatePlan(content string, now time.Time) string {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- [x]") {
			continue
		}
		if strings.HasSuffix(strings.TrimRight(line, " \t"), completedMark) {
			continue
		}
		lines[i] = line + " " + completedMark
	}

	return upsertTimestamp(strings.Join(lines, "\n"), now)
}

// upsertTimestamp replaces an existing "Last Updated:" line remainder,
// or inserts an italic timestamp line after the document title.
func upsertTimestamp(content string, now time.Time) string {
	stamp := now.Format(timestampLayout)
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		idx := strings.Index(line, "Last Updated:")
		if idx < 0 {
			continue
		}
		suffix := ""
		if strings.HasSuffix(strings.TrimSpace(line), "_") {
			suffix = "_"
		}
		lines[i] = line[:idx] + "Last Updated: " + stamp + suffix
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			stamped := fmt.Sprintf("_Last Updated: %s_", stamp)
			rest := append([]string{"", stamped}, lines[i+1:]...)
			return strings.Join(append(lines[:i+1:i+1], rest...), "\n")
		}
	}
	return content
}

// UpdateReadme records the change summary under a dated changelog
// heading, creating the "## Changelog" section on first use. An empty
// summary leaves the document unchanged.
func UpdateReadme(content string, changes []string, now time.Time) string {
	if len(changes) == 0 {
		return content
	}

	var entry strings.Builder
	fmt.Fprintf(&entry, "\n### %s\n\n", now.Format("2006-01-02"))
	for _, change := range changes {
		fmt.Fprintf(&entry, "- %s\n", change)
	}

	heading := "## Changelog\n"
	if idx := strings.Index(content, heading); idx >= 0 {
		insertAt := idx + len(heading)
		return content[:insertAt] + entry.String() + content[insertAt:]
	}
	return content + "\n" + heading + entry.String()
}

// BumpVersion increments the manifest's patch version. Manifests are
// JSONC in the plugin ecosystem; the rewritten output is plain indented
// JSON with every field preserved (keys sorted). Versions that are not
// three dot-separated integers are an error.
func BumpVersion(manifest []byte) (updated []byte, oldVersion, newVersion string, err error) {
	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(manifest), &m); err != nil {
		return nil, "", "", fmt.Errorf("parse plugin manifest: %w", err)
	}

	oldVersion, _ = m["version"].(string)
	if oldVersion == "" {
		oldVersion = "0.1.0"
	}
	parts := strings.Split(oldVersion, ".")
	if len(parts) != 3 {
		return nil, "", "", fmt.Errorf("unsupported version %q in plugin manifest", oldVersion)
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, "", "", fmt.Errorf("unsupported version %q in plugin manifest", oldVersion)
	}

	newVersion = fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch+1)
	m["version"] = newVersion

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, "", "", err
	}
	return append(out, '\n'), oldVersion, newVersion, nil
}
