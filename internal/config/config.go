package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level matchck.yaml configuration.
type Config struct {
	// Module is the checking module for fixtures that do not name one.
	// Defaults to LocalModule.
	Module string `yaml:"module,omitempty"`

	// Baseline is the path to a sqlite verdict history. When set, a run
	// only fails on findings absent from the previous recorded run, and
	// the run's own verdicts are appended to the history.
	Baseline string `yaml:"baseline,omitempty"`

	// MaxDepth overrides the analysis recursion budget. Zero keeps the
	// built-in default.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// MaxWitnesses overrides how many counterexamples a non-exhaustive
	// match reports. Zero keeps the built-in default.
	MaxWitnesses int `yaml:"max_witnesses,omitempty"`

	// Color forces diagnostic coloring on or off: "auto" (default),
	// "always" or "never".
	Color string `yaml:"color,omitempty"`
}

// LoadConfig reads matchck.yaml from dir. A missing file yields the zero
// config; a malformed file is an error.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects option values no run mode can honor.
func (c *Config) Validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if c.MaxWitnesses < 0 {
		return fmt.Errorf("max_witnesses must not be negative")
	}
	return nil
}
