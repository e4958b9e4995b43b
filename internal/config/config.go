// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "500ms", "1s", "2m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all dashboard configuration.
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Display    DisplayConfig    `yaml:"display"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CollectionConfig holds sampler settings.
type CollectionConfig struct {
	Interval        Duration `yaml:"interval"`
	CPUWindow       Duration `yaml:"cpu_window"`
	IncludePseudoFS bool     `yaml:"include_pseudo_fs"`
}

// DisplayConfig holds renderer settings.
type DisplayConfig struct {
	RefreshInterval Duration     `yaml:"refresh_interval"`
	Colors          ColorsConfig `yaml:"colors"`
}

// ColorsConfig names the color per metric kind. Names are tcell color names
// ("green", "darkcyan") or hex values ("#ff8800").
type ColorsConfig struct {
	CPU    string `yaml:"cpu"`
	Memory string `yaml:"memory"`
	Disk   string `yaml:"disk"`
	Header string `yaml:"header"`
}

// LoggingConfig holds logging settings. An empty File disables logging,
// since the terminal itself is owned by the dashboard.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Collection: CollectionConfig{
			Interval:  Duration{time.Second},
			CPUWindow: Duration{time.Second},
		},
		Display: DisplayConfig{
			RefreshInterval: Duration{time.Second},
			Colors: ColorsConfig{
				CPU:    "green",
				Memory: "yellow",
				Disk:   "blue",
				Header: "darkcyan",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// CLIOverrides holds values from command-line flags.
// Zero values are treated as "not set" and skipped.
type CLIOverrides struct {
	Interval time.Duration
	Refresh  time.Duration
	LogLevel string
	LogFile  string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFromBytes parses YAML configuration over the defaults and applies
// environment overrides.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted         → auto-discover via Locate()
//   - explicit value  → use that path ("" means no file)
//
// An explicitly named file that does not exist is an error; a missing
// auto-discovered file is not.
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	var (
		data []byte
		err  error
	)
	if len(configPath) > 0 {
		if configPath[0] != "" {
			data, err = os.ReadFile(configPath[0])
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	} else if path := Locate(); path != "" {
		data, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}

	if cli.Interval > 0 {
		cfg.Collection.Interval.Duration = cli.Interval
	}
	if cli.Refresh > 0 {
		cfg.Display.RefreshInterval.Duration = cli.Refresh
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
	return cfg, nil
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// applyEnvOverrides applies RCTOP_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	durations := []struct {
		env    string
		target *Duration
	}{
		{"RCTOP_INTERVAL", &cfg.Collection.Interval},
		{"RCTOP_REFRESH", &cfg.Display.RefreshInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.env, v, err)
		}
		d.target.Duration = parsed
	}
	if level := os.Getenv("RCTOP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("RCTOP_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that intervals are positive, the log level is known and
// every color name resolves.
func (c *Config) Validate() error {
	if c.Collection.Interval.Duration <= 0 {
		return fmt.Errorf("collection.interval must be positive (got %s)", c.Collection.Interval)
	}
	if c.Collection.CPUWindow.Duration <= 0 {
		return fmt.Errorf("collection.cpu_window must be positive (got %s)", c.Collection.CPUWindow)
	}
	if c.Display.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("display.refresh_interval must be positive (got %s)", c.Display.RefreshInterval)
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	colors := map[string]string{
		"cpu":    c.Display.Colors.CPU,
		"memory": c.Display.Colors.Memory,
		"disk":   c.Display.Colors.Disk,
		"header": c.Display.Colors.Header,
	}
	for kind, name := range colors {
		if _, err := ParseColor(name); err != nil {
			return fmt.Errorf("display.colors.%s: %w", kind, err)
		}
	}
	return nil
}

// ParseColor resolves a color name or #rrggbb value.
func ParseColor(name string) (tcell.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		if c := tcell.GetColor(name); c != tcell.ColorDefault {
			return c, nil
		}
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color %q", name)
}
