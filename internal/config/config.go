// Package config provides the harness configuration: defaults, optional YAML
// file overlay, and validation. There are no process-wide mutable defaults;
// a Config is built once at startup and passed into the evaluators.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/computacionparalela/tiny-md/internal/stats"
)

// Config holds every tunable of the harness.
type Config struct {
	// Program is the path of the simulation executable.
	Program string `yaml:"program"`

	// Baseline is the path of the recorded reference output (test mode).
	Baseline string `yaml:"baseline"`

	// Runs is how many times the simulation is invoked.
	Runs int `yaml:"runs"`

	// SuccessThreshold is the accepted-run fraction required to pass,
	// in [0,1].
	SuccessThreshold float64 `yaml:"success_threshold"`

	// Epsilon holds the per-column tolerance bounds for test mode.
	Epsilon stats.EpsilonProfile `yaml:"epsilon"`

	// Sigma is the calibration multiplier k in recommended = mean + k·std.
	Sigma float64 `yaml:"sigma"`

	// History, when set, is the path of the SQLite run-history database.
	History string `yaml:"history,omitempty"`
}

// Default returns the built-in configuration. The epsilon values come from a
// prior calibration of tiny_md, set at roughly two standard deviations of
// its observed run-to-run noise.
func Default() Config {
	return Config{
		Program:          "./tiny_md",
		Baseline:         "test/expected_output.txt",
		Runs:             20,
		SuccessThreshold: 0.9,
		Epsilon: stats.EpsilonProfile{
			Mean: []float64{0, 0, 17, 0.3},
			Std:  []float64{0, 0, 25, 0.2},
		},
		Sigma: 2,
	}
}

// Load returns Default overlaid with the YAML file at path.
// An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations no mode could run with.
// Mode-specific minimums (calibration needs 2 runs) are enforced by the
// evaluators themselves.
func (c Config) Validate() error {
	if c.Program == "" {
		return fmt.Errorf("program path is required")
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if c.SuccessThreshold < 0 || c.SuccessThreshold > 1 {
		return fmt.Errorf("success threshold must be in [0,1], got %g", c.SuccessThreshold)
	}
	if c.Sigma < 0 {
		return fmt.Errorf("sigma must be non-negative, got %g", c.Sigma)
	}
	if err := c.Epsilon.Validate(); err != nil {
		return fmt.Errorf("epsilon profile: %w", err)
	}
	return nil
}
