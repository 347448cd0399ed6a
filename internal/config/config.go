// Package config loads and validates the janitor configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LvcidPsyche/swarm-janitor/internal/retention"
)

// EnvConfig overrides the default config file location.
const EnvConfig = "SWARM_JANITOR_CONFIG"

// EnvForce skips the bulk-delete confirmation prompt when set.
const EnvForce = "SWARM_JANITOR_FORCE"

// ArchiveConfig selects and locates the archive backend.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"` // "sqlite" or "dir"
	Path    string `yaml:"path"`
}

// Config is the single validated value handed to the orchestrator. It is
// constructed once at startup and never mutated during a run.
type Config struct {
	SessionsDir string        `yaml:"sessions_dir"`
	Retention   RetentionYAML `yaml:"retention"`
	Archive     ArchiveConfig `yaml:"archive"`

	// Delete enables the destructive phase. False means dry-run: the
	// default, always.
	Delete bool `yaml:"-"`
	// Force skips the bulk confirmation gate.
	Force bool `yaml:"-"`

	// BulkThreshold: more deletion candidates than this requires
	// confirmation before anything is removed.
	BulkThreshold int `yaml:"bulk_threshold"`

	// Schedule is a cron expression for recurring runs; empty disables
	// scheduling.
	Schedule string `yaml:"schedule"`

	LogLevel string `yaml:"log_level"`
}

// RetentionYAML is the on-disk shape of the retention policy.
type RetentionYAML struct {
	MinAgeDays int   `yaml:"min_age_days"`
	MinKeep    int   `yaml:"min_keep"`
	MaxSizeMB  int64 `yaml:"max_size_mb"`
}

// Policy converts the configured retention settings to a retention.Policy.
func (c *Config) Policy() retention.Policy {
	return retention.Policy{
		MinAgeDays: c.Retention.MinAgeDays,
		MinKeep:    c.Retention.MinKeep,
		MaxSizeMB:  c.Retention.MaxSizeMB,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		SessionsDir: filepath.Join(home, ".openclaw", "agents", "main", "sessions"),
		Retention: RetentionYAML{
			MinAgeDays: 3,
			MinKeep:    10,
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Backend: "sqlite",
			Path:    filepath.Join(home, ".swarm-janitor", "archive.db"),
		},
		BulkThreshold: 25,
		LogLevel:      "info",
	}
}

// DefaultPath returns the config file location: $SWARM_JANITOR_CONFIG or
// ~/.swarm-janitor/config.yaml.
func DefaultPath() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".swarm-janitor", "config.yaml")
}

// Load builds the config from defaults overlaid with the YAML file at path.
// A missing file at the default location is fine; a path the caller asked for
// explicitly must exist.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.SessionsDir = expandHome(cfg.SessionsDir)
	cfg.Archive.Path = expandHome(cfg.Archive.Path)

	return cfg, nil
}

// Validate rejects configurations that must never reach a scan.
func (c *Config) Validate() error {
	if c.SessionsDir == "" {
		return errors.New("sessions_dir is required")
	}
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.BulkThreshold < 0 {
		return fmt.Errorf("bulk_threshold must be >= 0, got %d", c.BulkThreshold)
	}
	if c.Archive.Enabled {
		switch c.Archive.Backend {
		case "sqlite", "dir":
		default:
			return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
		}
		if c.Archive.Path == "" {
			return errors.New("archive.path is required when archiving is enabled")
		}
	}
	return nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
