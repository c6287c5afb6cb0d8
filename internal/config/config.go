// Package config loads the optional taskdeck server configuration file.
//
// The file is YAML and everything in it has a sensible default; a
// missing file is never an error, only a malformed one is.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up under the user config dir when no
// explicit --config flag is given.
const DefaultFileName = "config.yaml"

// Config is the full server configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Backups   BackupConfig    `yaml:"backups"`
	Log       LogConfig       `yaml:"log"`
}

// WorkspaceConfig controls path resolution and the critical-path guard.
type WorkspaceConfig struct {
	// AllowEscapeWorkspace keeps the historical behavior of letting an
	// absolute target path reference files outside the workspace root.
	// Set false to confine absolute targets to the root.
	AllowEscapeWorkspace *bool `yaml:"allow_escape_workspace"`

	// ExtraCriticalPaths adds substring patterns to the built-in
	// denylist (matched case-insensitively, any separator style).
	ExtraCriticalPaths []string `yaml:"extra_critical_paths"`
}

// BackupConfig controls .bak sibling creation.
type BackupConfig struct {
	// EnabledByDefault makes destructive tools write backups even when
	// the caller omits create_backup.
	EnabledByDefault bool `yaml:"enabled_by_default"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backups: BackupConfig{EnabledByDefault: false},
		Log: LogConfig{
			File:       defaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// AllowEscape resolves the tri-state allow_escape_workspace key:
// unset means true, the permissive historical default.
func (c *Config) AllowEscape() bool {
	if c.Workspace.AllowEscapeWorkspace == nil {
		return true
	}
	return *c.Workspace.AllowEscapeWorkspace
}

// Load reads the config file at path. An empty path means "use the
// default location"; a missing file at either location yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogPath()
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Log.MaxBackups < 0 {
		cfg.Log.MaxBackups = 3
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, ".taskdeck", DefaultFileName)
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskdeck.log"
	}
	return filepath.Join(home, ".taskdeck", "taskdeck.log")
}
