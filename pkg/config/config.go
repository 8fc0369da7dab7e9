// Package config loads host and logging settings from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	Host    HostConfig    `yaml:"host"`
	Logging LoggingConfig `yaml:"logging"`
}

// HostConfig controls how a host reacts to state changes.
type HostConfig struct {
	// Batching coalesces changes made within Debounce of each other into one
	// re-render. When false every change re-renders immediately.
	Batching bool `yaml:"batching"`
	// RenderTree re-renders only dirty components instead of the whole host.
	RenderTree bool `yaml:"render_tree"`
	// Debounce is the quiet period before a batched re-render, e.g. "2ms".
	Debounce time.Duration `yaml:"debounce"`
	// TickInterval is how often the update loop polls the scheduler.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// LoggingConfig configures the logrus loggers.
type LoggingConfig struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// EDITORSTATE_LOG_LEVEL overrides it.
	Level string `yaml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format"`
	// Output is "auto" (default), "stderr" or "discard". In auto mode logs go
	// to stderr unless it is an interactive terminal and the level is not
	// debug.
	Output string `yaml:"output"`
	// File, if set, receives logs in addition to Output.
	File string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Host: HostConfig{
			Batching:     true,
			RenderTree:   true,
			Debounce:     2 * time.Millisecond,
			TickInterval: 16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "auto",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Host.Debounce < 0 {
		return fmt.Errorf("invalid config: host.debounce must not be negative, got %s", c.Host.Debounce)
	}
	if c.Host.TickInterval <= 0 {
		return fmt.Errorf("invalid config: host.tick_interval must be positive, got %s", c.Host.TickInterval)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid config: unknown logging.format %q", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "", "auto", "stderr", "discard":
	default:
		return fmt.Errorf("invalid config: unknown logging.output %q", c.Logging.Output)
	}
	return nil
}
