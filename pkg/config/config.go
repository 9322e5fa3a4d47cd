// Package config provides TOML and YAML configuration for vision-station.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config is the complete vision-station configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Gemini  GeminiConfig  `toml:"gemini" yaml:"gemini"`
	Layout  LayoutConfig  `toml:"layout" yaml:"layout"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
	Node    NodeConfig    `toml:"node" yaml:"node"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Mock    MockConfig    `toml:"mock" yaml:"mock"`
}

// GeneralConfig holds refresh timing and logging settings.
type GeneralConfig struct {
	RefreshInterval Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	RetryDelay      Duration `toml:"retry_delay" yaml:"retry_delay"`
	LogLevel        string   `toml:"log_level" yaml:"log_level"`
	LogFile         string   `toml:"log_file" yaml:"log_file"`
	PIDFile         string   `toml:"pid_file" yaml:"pid_file"`
}

// GeminiConfig configures the briefing source.
type GeminiConfig struct {
	APIKey  string   `toml:"api_key" yaml:"api_key"`
	Model   string   `toml:"model" yaml:"model"`
	City    string   `toml:"city" yaml:"city"`
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// LayoutConfig selects the widget arrangement. Rows, when set, override the
// preset.
type LayoutConfig struct {
	Preset string      `toml:"preset" yaml:"preset"`
	Rows   []RowConfig `toml:"rows" yaml:"rows"`
}

// RowConfig is one horizontal band of the layout.
type RowConfig struct {
	Ratio    int           `toml:"ratio" yaml:"ratio"`
	Children []ChildConfig `toml:"children" yaml:"children"`
}

// ChildConfig places one widget within a row.
type ChildConfig struct {
	Type  string `toml:"type" yaml:"type"`
	Ratio int    `toml:"ratio" yaml:"ratio"`
}

// ThemeConfig selects a colour theme by name.
type ThemeConfig struct {
	Name string `toml:"name" yaml:"name"`
}

// NodeConfig controls the host summary in the footer.
type NodeConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Interval Duration `toml:"interval" yaml:"interval"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// MockConfig tunes the offline mock source (-use-mocks).
type MockConfig struct {
	Latency Duration `toml:"latency" yaml:"latency"`
}

// MinRefreshInterval is the shortest accepted refresh interval.
const MinRefreshInterval = 10 * time.Second

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// WidgetTypes lists the widget identifiers a layout may reference.
var WidgetTypes = []string{"clock", "weather", "news"}

// Validate checks the configuration for values the program cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if d := c.General.RefreshInterval.Duration; d < MinRefreshInterval {
		errs = append(errs, fmt.Errorf("general.refresh_interval %s is below the minimum %s", d, MinRefreshInterval))
	}
	if c.General.RetryDelay.Duration <= 0 {
		errs = append(errs, errors.New("general.retry_delay must be positive"))
	}
	if !validLogLevels[strings.ToLower(c.General.LogLevel)] {
		errs = append(errs, fmt.Errorf("general.log_level %q is not one of debug, info, warn, error", c.General.LogLevel))
	}
	if c.Gemini.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("gemini.timeout must be positive"))
	}
	if c.Node.Enabled && c.Node.Interval.Duration <= 0 {
		errs = append(errs, errors.New("node.interval must be positive when node is enabled"))
	}
	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			errs = append(errs, fmt.Errorf("metrics.addr: %w", err))
		}
	}
	if err := c.Layout.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (l LayoutConfig) validate() error {
	if len(l.Rows) == 0 {
		if _, ok := presets[l.Preset]; !ok && l.Preset != "" {
			return fmt.Errorf("layout.preset %q is unknown (have %s)", l.Preset, strings.Join(PresetNames(), ", "))
		}
		return nil
	}
	for i, row := range l.Rows {
		if row.Ratio <= 0 {
			return fmt.Errorf("layout.rows[%d].ratio must be positive", i)
		}
		if len(row.Children) == 0 {
			return fmt.Errorf("layout.rows[%d] has no children", i)
		}
		for j, ch := range row.Children {
			if !isWidgetType(ch.Type) {
				return fmt.Errorf("layout.rows[%d].children[%d]: unknown widget %q", i, j, ch.Type)
			}
			if ch.Ratio <= 0 {
				return fmt.Errorf("layout.rows[%d].children[%d].ratio must be positive", i, j)
			}
		}
	}
	return nil
}

func isWidgetType(t string) bool {
	for _, w := range WidgetTypes {
		if w == t {
			return true
		}
	}
	return false
}

// ResolvedLayout returns the configured rows, or the preset's rows when none
// are configured.
func (c *Config) ResolvedLayout() LayoutConfig {
	if len(c.Layout.Rows) > 0 {
		return c.Layout
	}
	return LayoutPreset(c.Layout.Preset)
}
