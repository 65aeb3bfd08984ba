// Package config holds the runtime options for a single invocation.
package config

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"organize/internal/errors"
)

// Collision policies. Silent overwrite is deliberately not offered.
const (
	CollisionSkip   = "skip"
	CollisionRename = "rename"
)

// Settings is assembled from command-line flags; the rule table itself
// lives in the rules document and is loaded separately.
type Settings struct {
	RulesPath string   // Path to the rules document
	LogFile   string   // Audit log path, append-only
	Collision string   // Collision policy: skip or rename
	Excludes  []string // Glob patterns of names never to move
	DryRun    bool     // Plan and log without mutating the filesystem
	Quiet     bool     // Suppress console mirror of the audit log
}

// Default returns settings with safe defaults.
func Default() *Settings {
	return &Settings{
		RulesPath: DefaultRulesPath(),
		LogFile:   "organize.log",
		Collision: CollisionSkip,
	}
}

// DefaultRulesPath returns the conventional rules document location
// (~/.config/organize/rules.json).
func DefaultRulesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rules.json"
	}
	return filepath.Join(home, ".config", "organize", "rules.json")
}

// Validate checks that the settings are usable before any work starts.
func (s *Settings) Validate() error {
	if s == nil {
		return errors.New("nil settings")
	}
	if s.RulesPath == "" {
		return errors.NewConfigError("rules file path is required", "config", errors.ConfigNotFound, nil)
	}
	if s.LogFile == "" {
		return errors.NewConfigError("log file path is required", "log-file", errors.ConfigSchema, nil)
	}
	switch s.Collision {
	case CollisionSkip, CollisionRename:
	default:
		return errors.NewConfigError("invalid collision policy (want skip or rename)", s.Collision, errors.ConfigSchema, nil)
	}
	for _, pattern := range s.Excludes {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError("invalid exclude pattern", pattern, errors.ConfigSchema, err)
		}
	}
	return nil
}
