// Package config holds the settings of the fern CLI, read from a YAML file
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/cottand/fern/frontend/elab"
	"github.com/cottand/fern/internal/log"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when none is given
const DefaultPath = "fern.yaml"

// Config is the configuration of the fern CLI.
type Config struct {
	// MaxDepth is how deeply terms may nest before elaboration gives up
	MaxDepth int       `yaml:"maxDepth"`
	Log      LogConfig `yaml:"log"`
	// Color is one of auto, always or never
	Color string `yaml:"color"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level    string   `yaml:"level"` // debug, info, warn, error
	Sections []string `yaml:"sections"`
}

var validColors = []string{"auto", "always", "never"}

func DefaultConfig() *Config {
	return &Config{
		MaxDepth: elab.DefaultMaxDepth,
		Log: LogConfig{
			Level:    "error",
			Sections: []string{"package", "cmd"},
		},
		Color: "auto",
	}
}

// Load loads configuration from a YAML file, falling back to the defaults
// for anything the file leaves out.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("maxDepth must be positive, got %d", c.MaxDepth)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("invalid color: %s (valid: %v)", c.Color, validColors)
	}
	return nil
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// Apply sets up logging as configured
func (c *Config) Apply() {
	if level, err := c.Log.SlogLevel(); err == nil {
		log.SetLevel(level)
	}
	log.EnableSections(c.Log.Sections...)
}

// UseColor reports whether output should be coloured, given whether it goes
// to a terminal
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isTerminal
}
