package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Retention.MinAgeDays != 3 {
		t.Errorf("expected default min_age_days 3, got %d", cfg.Retention.MinAgeDays)
	}
	if cfg.Retention.MinKeep != 10 {
		t.Errorf("expected default min_keep 10, got %d", cfg.Retention.MinKeep)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Backend != "sqlite" {
		t.Errorf("expected sqlite archiving enabled by default, got %+v", cfg.Archive)
	}
	if cfg.Delete {
		t.Error("delete must never default to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
sessions_dir: /tmp/sessions
retention:
  min_age_days: 7
  min_keep: 5
  max_size_mb: 100
archive:
  enabled: true
  backend: dir
  path: /tmp/archive
bulk_threshold: 50
schedule: "0 3 * * *"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionsDir != "/tmp/sessions" {
		t.Errorf("sessions_dir: %q", cfg.SessionsDir)
	}
	if cfg.Retention.MinAgeDays != 7 || cfg.Retention.MinKeep != 5 || cfg.Retention.MaxSizeMB != 100 {
		t.Errorf("retention: %+v", cfg.Retention)
	}
	if cfg.Archive.Backend != "dir" || cfg.Archive.Path != "/tmp/archive" {
		t.Errorf("archive: %+v", cfg.Archive)
	}
	if cfg.BulkThreshold != 50 {
		t.Errorf("bulk_threshold: %d", cfg.BulkThreshold)
	}
	if cfg.Schedule != "0 3 * * *" {
		t.Errorf("schedule: %q", cfg.Schedule)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("retention:\n  min_age_days: 14\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Retention.MinAgeDays != 14 {
		t.Errorf("expected overridden min_age_days 14, got %d", cfg.Retention.MinAgeDays)
	}
	if cfg.Retention.MinKeep != 10 {
		t.Errorf("expected default min_keep preserved, got %d", cfg.Retention.MinKeep)
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	if _, err := Load(missing, false); err != nil {
		t.Errorf("missing default-location file should fall back to defaults: %v", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Error("explicitly requested config file must exist")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("sessions_dir: [unclosed"), 0o644)

	if _, err := Load(path, true); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min_age_days", func(c *Config) { c.Retention.MinAgeDays = -1 }},
		{"negative min_keep", func(c *Config) { c.Retention.MinKeep = -1 }},
		{"negative bulk_threshold", func(c *Config) { c.BulkThreshold = -1 }},
		{"empty sessions_dir", func(c *Config) { c.SessionsDir = "" }},
		{"unknown backend", func(c *Config) { c.Archive.Backend = "ftp" }},
		{"archive without path", func(c *Config) { c.Archive.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
