package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "VISION_THEME", "VISION_LAYOUT",
		"VISION_METRICS_ADDR", "VISION_REFRESH_INTERVAL",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()

	assert.Equal(t, 10*time.Minute, cfg.General.RefreshInterval.Duration)
	assert.Equal(t, 30*time.Second, cfg.General.RetryDelay.Duration)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.True(t, strings.HasSuffix(cfg.General.LogFile, filepath.Join("vision-station", "vision-station.log")))
	assert.Equal(t, filepath.Dir(cfg.General.LogFile), filepath.Dir(cfg.General.PIDFile))
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)
	assert.Equal(t, DefaultPreset, cfg.Layout.Preset)
	assert.True(t, cfg.Node.Enabled)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromReaderTOML(t *testing.T) {
	clearEnv(t)
	const doc = `
[general]
refresh_interval = "5m"
log_level = "debug"

[gemini]
api_key = "from-file"
timeout = "45s"

[theme]
name = "daylight"

[metrics]
addr = ":9464"

[[layout.rows]]
ratio = 1
  [[layout.rows.children]]
  type = "news"
  ratio = 1
`
	cfg, err := LoadFromReader(strings.NewReader(doc), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.General.RefreshInterval.Duration)
	assert.Equal(t, 30*time.Second, cfg.General.RetryDelay.Duration, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Gemini.Timeout.Duration)
	assert.Equal(t, "daylight", cfg.Theme.Name)
	assert.Equal(t, ":9464", cfg.Metrics.Addr)
	require.Len(t, cfg.Layout.Rows, 1)
	assert.Equal(t, "news", cfg.Layout.Rows[0].Children[0].Type)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromReaderYAML(t *testing.T) {
	clearEnv(t)
	const doc = `
general:
  refresh_interval: 15m
  retry_delay: 1m
gemini:
  city: "Lyon, France"
node:
  enabled: false
layout:
  preset: portrait
`
	cfg, err := LoadFromReader(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.General.RefreshInterval.Duration)
	assert.Equal(t, time.Minute, cfg.General.RetryDelay.Duration)
	assert.Equal(t, "Lyon, France", cfg.Gemini.City)
	assert.False(t, cfg.Node.Enabled)
	assert.Equal(t, "portrait", cfg.ResolvedLayout().Preset)
}

func TestLoadFromReaderEmptyYAML(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().General, cfg.General)
}

func TestLoadFromReaderRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromReader(strings.NewReader("[general]\nrefresh = \"5m\"\n"), FormatTOML)
	assert.ErrorContains(t, err, "general.refresh")

	_, err = LoadFromReader(strings.NewReader("general:\n  refresh: 5m\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadFromReaderBadDuration(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromReader(strings.NewReader("[general]\nretry_delay = \"soon\"\n"), FormatTOML)
	assert.ErrorContains(t, err, "invalid duration")

	_, err = LoadFromReader(strings.NewReader("general:\n  retry_delay: [1, 2]\n"), FormatYAML)
	assert.ErrorContains(t, err, "duration must be a string")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("VISION_THEME", "mono")
	t.Setenv("VISION_REFRESH_INTERVAL", "2m")
	t.Setenv("VISION_LAYOUT", "headline")
	t.Setenv("VISION_METRICS_ADDR", "127.0.0.1:9000")

	cfg, err := LoadFromReader(strings.NewReader("[[layout.rows]]\nratio = 1\n"), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "fallback-key", cfg.Gemini.APIKey)
	assert.Equal(t, "mono", cfg.Theme.Name)
	assert.Equal(t, 2*time.Minute, cfg.General.RefreshInterval.Duration)
	assert.Equal(t, "headline", cfg.Layout.Preset)
	assert.Empty(t, cfg.Layout.Rows, "VISION_LAYOUT replaces configured rows")
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.Addr)

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = LoadFromReader(strings.NewReader(""), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.Gemini.APIKey)
}

func TestEnvOverrideBadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("VISION_REFRESH_INTERVAL", "often")
	_, err := LoadFromReader(strings.NewReader(""), FormatTOML)
	assert.ErrorContains(t, err, "VISION_REFRESH_INTERVAL")
}

func TestLoadSearchPath(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "vision-station")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("theme:\n  name: found\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Theme.Name)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Gemini, cfg.Gemini)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset, cfg.Layout.Preset)
}

func TestLoadFromFileReportsPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, path)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("/etc/vision/config.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("config.yaml"))
	assert.Equal(t, FormatTOML, FormatForPath("config.toml"))
	assert.Equal(t, FormatTOML, FormatForPath("config"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short interval", func(c *Config) { c.General.RefreshInterval = Duration{time.Second} }, "refresh_interval"},
		{"zero retry", func(c *Config) { c.General.RetryDelay = Duration{} }, "retry_delay"},
		{"log level", func(c *Config) { c.General.LogLevel = "loud" }, "log_level"},
		{"timeout", func(c *Config) { c.Gemini.Timeout = Duration{} }, "gemini.timeout"},
		{"node interval", func(c *Config) { c.Node.Interval = Duration{} }, "node.interval"},
		{"metrics addr", func(c *Config) { c.Metrics.Addr = "9464" }, "metrics.addr"},
		{"preset", func(c *Config) { c.Layout.Preset = "cinema" }, "cinema"},
		{"row ratio", func(c *Config) {
			c.Layout.Rows = []RowConfig{{Ratio: 0, Children: []ChildConfig{{Type: "news", Ratio: 1}}}}
		}, "rows[0].ratio"},
		{"empty row", func(c *Config) { c.Layout.Rows = []RowConfig{{Ratio: 1}} }, "no children"},
		{"widget type", func(c *Config) {
			c.Layout.Rows = []RowConfig{{Ratio: 1, Children: []ChildConfig{{Type: "stocks", Ratio: 1}}}}
		}, "stocks"},
		{"child ratio", func(c *Config) {
			c.Layout.Rows = []RowConfig{{Ratio: 1, Children: []ChildConfig{{Type: "clock"}}}}
		}, "children[0].ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.LogLevel = "loud"
	cfg.Gemini.Timeout = Duration{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "gemini.timeout")
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"headline", "kiosk", "portrait"}, PresetNames())
	for _, name := range PresetNames() {
		l := LayoutPreset(name)
		assert.Equal(t, name, l.Preset)
		cfg := DefaultConfig()
		cfg.Layout = l
		assert.NoError(t, cfg.Validate(), name)
	}
	assert.Equal(t, "kiosk", LayoutPreset("nope").Preset)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("")))
	assert.Zero(t, d.Duration)
	assert.Error(t, d.UnmarshalText([]byte("-5s")))

	out, err := Duration{90 * time.Second}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(out))
}
