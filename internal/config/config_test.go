package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if !cfg.AllowEscape() {
		t.Error("allow_escape_workspace should default to true")
	}
	if cfg.Backups.EnabledByDefault {
		t.Error("backups should default to off")
	}
	if cfg.Log.MaxSizeMB != 10 {
		t.Errorf("log max size default = %d", cfg.Log.MaxSizeMB)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
workspace:
  allow_escape_workspace: false
  extra_critical_paths:
    - secrets/
backups:
  enabled_by_default: true
log:
  file: /tmp/taskdeck-test.log
  max_size_mb: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AllowEscape() {
		t.Error("allow_escape_workspace should be false")
	}
	if len(cfg.Workspace.ExtraCriticalPaths) != 1 || cfg.Workspace.ExtraCriticalPaths[0] != "secrets/" {
		t.Errorf("extra critical paths = %v", cfg.Workspace.ExtraCriticalPaths)
	}
	if !cfg.Backups.EnabledByDefault {
		t.Error("backups should be enabled")
	}
	if cfg.Log.File != "/tmp/taskdeck-test.log" || cfg.Log.MaxSizeMB != 5 {
		t.Errorf("log config = %+v", cfg.Log)
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workspace: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestAllowEscape_ExplicitTrue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workspace:\n  allow_escape_workspace: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.AllowEscape() {
		t.Error("explicit true should stay true")
	}
}
