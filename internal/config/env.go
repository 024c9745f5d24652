// Package config loads OPTR's environment-based defaults. Every value
// can be overridden per invocation by a CLI flag; the environment only
// supplies defaults, so nothing here is required.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RegistryEnv configures the worktree registry.
type RegistryEnv struct {
	StateFile  string        `envconfig:"STATE_FILE" default:".optr-worktrees.json"`
	BaseBranch string        `envconfig:"BASE_BRANCH" default:"main"`
	GitTimeout time.Duration `envconfig:"GIT_TIMEOUT" default:"30s"`
}

// MarketplaceEnv configures the marketplace client.
type MarketplaceEnv struct {
	Command        string        `envconfig:"MARKETPLACE_COMMAND" default:"claude"`
	Timeout        time.Duration `envconfig:"MARKETPLACE_TIMEOUT" default:"30s"`
	MatchThreshold float64       `envconfig:"MATCH_THRESHOLD" default:"0.5"`
}

// Env is the full OPTR environment configuration.
type Env struct {
	RegistryEnv
	MarketplaceEnv
}

const namespace = "OPTR"

// LoadEnv reads the OPTR_* environment variables, filling defaults for
// anything unset.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}
