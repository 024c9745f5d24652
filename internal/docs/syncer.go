package docs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// FileChange records the outcome for one documentation file.
type FileChange struct {
	// Path is relative to the synced directory.
	Path string `json:"path"`

	// Changed reports whether the file content differs after the update.
	Changed bool `json:"changed"`

	// Note is a human-readable summary, e.g. a version bump.
	Note string `json:"note,omitempty"`

	// Diff is the unified diff of the update.
	Diff string `json:"diff,omitempty"`
}

// Report aggregates a sync run over one directory.
type Report struct {
	Changes []FileChange `json:"changes"`
	DryRun  bool         `json:"dry_run"`
}

// manifestRelPath locates the plugin manifest inside a project.
var manifestRelPath = filepath.Join(".claude-plugin", "plugin.json")

// Sync updates PLAN.md, README.md, and the plugin manifest under dir.
// Missing files are skipped, not errors. With dryRun set, nothing is
// written and each change carries a unified diff instead.
func Sync(dir string, changes []string, dryRun bool, now time.Time) (Report, error) {
	report := Report{DryRun: dryRun}
	var errs []error

	steps := []struct {
		rel    string
		update func(content []byte) (updated []byte, note string, err error)
	}{
		{"PLAN.md", func(content []byte) ([]byte, string, error) {
			return []byte(UpdatePlan(string(content), now)), "", nil
		}},
		{"README.md", func(content []byte) ([]byte, string, error) {
			return []byte(UpdateReadme(string(content), changes, now)), "", nil
		}},
		{manifestRelPath, func(content []byte) ([]byte, string, error) {
			updated, oldV, newV, err := BumpVersion(content)
			if err != nil {
				return nil, "", err
			}
			return updated, fmt.Sprintf("version %s -> %s", oldV, newV), nil
		}},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.rel)
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		updated, note, err := step.update(content)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.rel, err))
			continue
		}

		change := FileChange{Path: step.rel, Changed: string(updated) != string(content), Note: note}
		if change.Changed {
			if dryRun {
				change.Diff = unifiedDiff(step.rel, string(content), string(updated))
			} else if err := os.WriteFile(path, updated, 0o644); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		report.Changes = append(report.Changes, change)
	}

	return report, errors.Join(errs...)
}

// unifiedDiff renders a before/after diff with three context lines.
func unifiedDiff(name, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name,
		ToFile:   name,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
