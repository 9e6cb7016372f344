// Package config loads the iffidb workspace configuration from
// <workspace>/.iffidb/config.yaml. A missing or malformed file falls back
// to defaults; configuration problems never stop the console from starting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvWorkspace overrides the workspace root when set.
const EnvWorkspace = "IFFIDB_WORKSPACE"

const (
	configDirName  = ".iffidb"
	configFileName = "config.yaml"
	dbFileName     = "iffidb.db"
)

// Default artificial latencies, in milliseconds. They mirror a remote
// backend and are not a correctness requirement.
const (
	DefaultLoginDelayMs  = 800
	DefaultMutateDelayMs = 300
	DefaultReadDelayMs   = 100
)

// DelaysMs holds the simulated latencies in milliseconds.
type DelaysMs struct {
	Login  int `yaml:"login"`
	Mutate int `yaml:"mutate"`
	Read   int `yaml:"read"`
}

// Config is the workspace configuration.
type Config struct {
	// Workspace is the resolved workspace root; not serialized.
	Workspace string `yaml:"-"`

	DBPath     string   `yaml:"db_path"`
	ExportDir  string   `yaml:"export_dir"`
	Operator   string   `yaml:"operator"`
	SampleSize int      `yaml:"sample_size"`
	DelaysMs   DelaysMs `yaml:"delays_ms"`

	// TranscriptFeed is the file an external speech-to-text tool appends
	// transcripts to. Empty disables voice input.
	TranscriptFeed string `yaml:"transcript_feed"`
}

// Default returns the configuration used when no file exists.
func Default(workspace string) Config {
	return Config{
		Workspace:  workspace,
		DBPath:     filepath.Join(workspace, configDirName, dbFileName),
		ExportDir:  filepath.Join(workspace, "exports"),
		Operator:   "Admin",
		SampleSize: 10,
		DelaysMs: DelaysMs{
			Login:  DefaultLoginDelayMs,
			Mutate: DefaultMutateDelayMs,
			Read:   DefaultReadDelayMs,
		},
	}
}

// Load resolves the workspace (argument, then EnvWorkspace, then the
// current directory) and reads its configuration, filling defaults for
// anything absent.
func Load(workspace string) Config {
	if workspace == "" {
		workspace = os.Getenv(EnvWorkspace)
	}
	if workspace == "" {
		workspace, _ = os.Getwd()
	}

	cfg := Default(workspace)
	raw, err := os.ReadFile(filepath.Join(workspace, configDirName, configFileName))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		// Malformed config is treated the same as an absent one.
		return Default(workspace)
	}
	cfg.Workspace = workspace
	fillDefaults(&cfg, workspace)
	return cfg
}

// Save writes the configuration back to the workspace.
func Save(cfg Config) error {
	dir := filepath.Join(cfg.Workspace, configDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), raw, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoginDelay returns the simulated login latency.
func (c Config) LoginDelay() time.Duration {
	return time.Duration(c.DelaysMs.Login) * time.Millisecond
}

// MutateDelay returns the simulated mutation latency.
func (c Config) MutateDelay() time.Duration {
	return time.Duration(c.DelaysMs.Mutate) * time.Millisecond
}

// ReadDelay returns the simulated read latency.
func (c Config) ReadDelay() time.Duration {
	return time.Duration(c.DelaysMs.Read) * time.Millisecond
}

func fillDefaults(cfg *Config, workspace string) {
	def := Default(workspace)
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = def.ExportDir
	}
	if cfg.Operator == "" {
		cfg.Operator = def.Operator
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
}
