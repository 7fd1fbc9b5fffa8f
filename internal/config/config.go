// Package config holds all Connections-See-It configuration: a YAML file
// with environment overrides, following a fetch/browser/ui/logging split.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/liuharry07/Connections-See-It/internal/browser"
	"github.com/liuharry07/Connections-See-It/internal/fetch"
)

// Config holds the full application configuration.
type Config struct {
	// Fetch configures the word-extraction pipeline.
	Fetch fetch.Config `yaml:"fetch"`

	// Browser configures the headless rendering context.
	Browser browser.Config `yaml:"browser"`

	// UI configures the interactive board.
	UI UIConfig `yaml:"ui"`

	// Logging configures the zap logger.
	Logging LoggingConfig `yaml:"logging"`
}

// UIConfig configures the interactive board.
type UIConfig struct {
	// Theme selects "dark", "light", or "auto".
	Theme string `yaml:"theme"`

	// ASCIIOnly disables the lock glyph for terminals without Unicode.
	ASCIIOnly bool `yaml:"ascii_only"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty logs to stderr
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fetch:   fetch.DefaultConfig(),
		Browser: browser.DefaultConfig(),
		UI: UIConfig{
			Theme: "auto",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default config file location under the user's
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "seeit.yaml"
	}
	return filepath.Join(dir, "seeit", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SEEIT_URL"); url != "" {
		c.Fetch.URL = url
	}
	if bin := os.Getenv("SEEIT_BROWSER_BIN"); bin != "" {
		c.Browser.Bin = bin
	}
	if dbg := os.Getenv("SEEIT_DEBUGGER_URL"); dbg != "" {
		c.Browser.DebuggerURL = dbg
	}
	if v := os.Getenv("SEEIT_HEADLESS"); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = headless
		}
	}
	if lvl := os.Getenv("SEEIT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Fetch.URL == "" {
		return fmt.Errorf("fetch.url not configured")
	}
	if c.Fetch.ItemIDPrefix == "" {
		return fmt.Errorf("fetch.item_id_prefix not configured")
	}
	if c.Fetch.WordClass == "" {
		return fmt.Errorf("fetch.word_class not configured")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid ui theme: %s", c.UI.Theme)
	}
	return nil
}
