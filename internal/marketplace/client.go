// Package marketplace lists available Claude Code marketplace plugins
// through the claude CLI and matches them against a plan's keyword set.
// Every listing failure degrades to an empty result: the marketplace is
// an optional enrichment, never a hard dependency.
package marketplace

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/tidwall/jsonc"
)

// DefaultTimeout bounds a single plugin listing invocation.
const DefaultTimeout = 30 * time.Second

// DefaultCommand is the CLI binary used to query the marketplace.
const DefaultCommand = "claude"

// Plugin is one marketplace plugin entry.
type Plugin struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Repository  string `json:"repository"`
}

// rawPlugin tolerates the field aliases seen in marketplace listings.
type rawPlugin struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Repository  string `json:"repository"`
	Repo        string `json:"repo"`
}

// Client queries the marketplace via a CLI subprocess.
type Client struct {
	command string
	timeout time.Duration
}

// NewClient builds a Client running the given command. Empty command and
// zero timeout fall back to the defaults.
func NewClient(command string, timeout time.Duration) *Client {
	if command == "" {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{command: command, timeout: timeout}
}

// Available returns the marketplace plugins reported by
// `<command> plugin list --available --json`. A missing binary, non-zero
// exit, timeout, or unparsable listing yields an empty slice.
func (c *Client) Available(ctx context.Context) []Plugin {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.command, "plugin", "list", "--available", "--json").Output()
	if err != nil {
		return nil
	}
	return ParseListing(out)
}

// ParseListing decodes a plugin listing. Listings are JSONC in practice
// (the plugin ecosystem allows comments and trailing commas), so the
// input is normalized before decoding. Malformed input yields nil.
func ParseListing(data []byte) []Plugin {
	var raw []rawPlugin
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil
	}

	plugins := make([]Plugin, 0, len(raw))
	for _, r := range raw {
		p := Plugin{Name: r.Name, Description: r.Description, Repository: r.Repository}
		if p.Description == "" {
			p.Description = r.Summary
		}
		if p.Repository == "" {
			p.Repository = r.Repo
		}
		plugins = append(plugins, p)
	}
	return plugins
}
