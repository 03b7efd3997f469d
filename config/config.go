// Package config handles qtermsim configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"qtermsim/statevector"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration structure.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Run     RunConfig     `yaml:"run"`
	Display DisplayConfig `yaml:"display"`
}

// EngineConfig holds statevector engine settings.
type EngineConfig struct {
	MaxQubits int     `yaml:"max_qubits"`
	Embedder  string  `yaml:"embedder"` // kron | index
	CheckNorm bool    `yaml:"check_norm"`
	Tolerance float64 `yaml:"tolerance"`
}

// RunConfig holds settings for a simulation run.
type RunConfig struct {
	Seed    uint64 `yaml:"seed"`
	Shots   int    `yaml:"shots"`
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS
}

// DisplayConfig holds output settings.
type DisplayConfig struct {
	IgnoreZeros bool   `yaml:"ignore_zeros"`
	Precision   int    `yaml:"precision"`
	Color       string `yaml:"color"` // auto | always | never
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxQubits: statevector.DefaultMaxQubits,
			Embedder:  "kron",
			Tolerance: statevector.DefaultTolerance,
		},
		Run: RunConfig{
			Seed:    1,
			Shots:   1,
			Workers: 4,
		},
		Display: DisplayConfig{
			IgnoreZeros: true,
			Precision:   4,
			Color:       "auto",
		},
	}
}

// Load loads configuration from a file. Fields the file leaves out keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns the default if path is
// empty or does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.MaxQubits < 1 {
		errs = append(errs, fmt.Errorf("engine.max_qubits %d must be positive", c.Engine.MaxQubits))
	}
	if _, err := statevector.ParseEmbedder(c.Engine.Embedder); err != nil {
		errs = append(errs, fmt.Errorf("engine.embedder: %w", err))
	}
	if c.Engine.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("engine.tolerance %g must be positive", c.Engine.Tolerance))
	}
	if c.Run.Shots < 1 {
		errs = append(errs, fmt.Errorf("run.shots %d must be positive", c.Run.Shots))
	}
	if c.Run.Workers < 0 {
		errs = append(errs, fmt.Errorf("run.workers %d must not be negative", c.Run.Workers))
	}
	if c.Display.Precision < 0 || c.Display.Precision > 15 {
		errs = append(errs, fmt.Errorf("display.precision %d not in [0, 15]", c.Display.Precision))
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("display.color %q: want auto, always or never", c.Display.Color))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// EngineOptions translates the engine section into statevector options.
func (c *Config) EngineOptions() ([]statevector.Option, error) {
	emb, err := statevector.ParseEmbedder(c.Engine.Embedder)
	if err != nil {
		return nil, err
	}
	opts := []statevector.Option{
		statevector.WithMaxQubits(c.Engine.MaxQubits),
		statevector.WithEmbedder(emb),
	}
	if c.Engine.CheckNorm {
		opts = append(opts, statevector.WithNormCheck(c.Engine.Tolerance))
	}
	return opts, nil
}
