// Package config loads cmd/dfraws's optional YAML configuration file,
// letting location roots and database defaults live in a file instead
// of repeated command-line flags.
//
// Grounded on codenerd's internal/config/config.go: a defaulted struct
// with yaml tags and a Load(path) that falls back to defaults when the
// file is absent. No environment variables are read.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is cmd/dfraws's on-disk configuration shape.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Roots    RootsConfig    `yaml:"roots"`
}

// DatabaseConfig controls where the persisted catalog lives and how
// re-parsing treats previously-seen raws.
type DatabaseConfig struct {
	Path          string `yaml:"path"`
	OverwriteRaws bool   `yaml:"overwrite_raws"`
}

// RootsConfig names the location roots a parse run should scan.
type RootsConfig struct {
	Vanilla   string `yaml:"vanilla"`
	Workshop  string `yaml:"workshop"`
	Installed string `yaml:"installed"`
}

// Default returns the zero-configuration defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "dfraws.sqlite3"},
	}
}

// Load reads path and overlays it onto the defaults. A missing file is
// not an error: it yields Default() unchanged, matching a first-run
// CLI invocation with no config file written yet.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
