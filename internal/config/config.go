package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"variantsplit/internal/naming"
	"variantsplit/internal/splitter"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when --config is not given.
const DefaultFile = ".variantsplit.yaml"

// DefaultInput is the input split when neither arguments nor config name one.
const DefaultInput = "vmcache.cpp"

// Config holds all variantsplit configuration.
type Config struct {
	// Marker literals
	Markers splitter.Markers `yaml:"markers"`

	// Variant names used in output file names
	Variants VariantsConfig `yaml:"variants"`

	// Where outputs go
	Output OutputConfig `yaml:"output"`

	// Batch settings
	Split SplitConfig `yaml:"split"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// VariantsConfig names the two outputs.
type VariantsConfig struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// OutputConfig configures output naming.
type OutputConfig struct {
	Dir     string `yaml:"dir"`     // empty = next to the input
	Pattern string `yaml:"pattern"` // see naming.Scheme
}

// SplitConfig configures which inputs are split and how many at once.
type SplitConfig struct {
	Inputs  []string `yaml:"inputs"`
	Workers int      `yaml:"workers"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Markers: splitter.DefaultMarkers(),

		Variants: VariantsConfig{
			A: "linux",
			B: "osv",
		},

		Output: OutputConfig{
			Pattern: naming.DefaultPattern,
		},

		Split: SplitConfig{
			Inputs:  []string{DefaultInput},
			Workers: 4,
		},

		Watch: WatchConfig{
			Debounce: "300ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("VARIANTSPLIT_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if level := os.Getenv("VARIANTSPLIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("VARIANTSPLIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Split.Workers = n
		}
	}
}

// Validate checks the configuration for values the splitter cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Markers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("markers: %w", err))
	}
	if err := c.Scheme().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if c.Split.Workers < 1 {
		errs = append(errs, fmt.Errorf("split.workers must be at least 1, got %d", c.Split.Workers))
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

// Scheme returns the naming scheme described by the output and variants sections.
func (c *Config) Scheme() naming.Scheme {
	return naming.Scheme{
		Pattern:   c.Output.Pattern,
		OutputDir: c.Output.Dir,
		VariantA:  c.Variants.A,
		VariantB:  c.Variants.B,
	}
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}
