package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tinyland/lab/vision-station/pkg/config"
	"gitlab.com/tinyland/lab/vision-station/pkg/terminal"
	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
)

const rule = "------------------------------------------------------------"

// runDiagnostics prints a configuration and environment report and returns
// the process exit code: 0 when the kiosk can start, 1 otherwise.
func runDiagnostics(w io.Writer, cfg *config.Config, useMocks bool) int {
	failed := false
	fail := func(format string, args ...any) {
		failed = true
		fmt.Fprintf(w, "   ❌ "+format+"\n", args...)
	}
	ok := func(format string, args ...any) {
		fmt.Fprintf(w, "   ✅ "+format+"\n", args...)
	}
	warn := func(format string, args ...any) {
		fmt.Fprintf(w, "   ⚠️  "+format+"\n", args...)
	}

	fmt.Fprintln(w, "🔍 Vision Station Diagnostics")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📁 Configuration")
	fmt.Fprintln(w, rule)
	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fail("%s", line)
		}
	} else {
		ok("Valid")
	}
	fmt.Fprintf(w, "   Refresh:  every %s, retry after %s\n", cfg.General.RefreshInterval.Duration, cfg.General.RetryDelay.Duration)
	fmt.Fprintf(w, "   Layout:   %s\n", layoutName(cfg))
	if _, found := theme.Lookup(cfg.Theme.Name); found || strings.HasSuffix(strings.ToLower(cfg.Theme.Name), ".toml") {
		fmt.Fprintf(w, "   Theme:    %s\n", cfg.Theme.Name)
	} else {
		warn("Theme %q unknown, %s will be used", cfg.Theme.Name, theme.DefaultName)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔑 Gemini")
	fmt.Fprintln(w, rule)
	switch {
	case useMocks:
		ok("Mock source selected, API key not required")
	case strings.TrimSpace(cfg.Gemini.APIKey) == "":
		fail("API key not set")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "💡 Solution: export GEMINI_API_KEY, set gemini.api_key, or run with -use-mocks")
	default:
		ok("API key present (%d chars)", len(cfg.Gemini.APIKey))
	}
	fmt.Fprintf(w, "   Model:    %s\n", cfg.Gemini.Model)
	fmt.Fprintf(w, "   City:     %s\n", cfg.Gemini.City)
	fmt.Fprintf(w, "   Timeout:  %s\n", cfg.Gemini.Timeout.Duration)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🖥️  Terminal")
	fmt.Fprintln(w, rule)
	caps := terminal.DetectCapabilities(os.Stdout)
	fmt.Fprintf(w, "   Emulator: %s\n", caps.Term)
	fmt.Fprintf(w, "   Colours:  %s\n", terminal.ProfileName(caps.Profile))
	fmt.Fprintf(w, "   Size:     %dx%d\n", caps.Size.Cols, caps.Size.Rows)
	if !caps.Interactive {
		warn("Output is not a terminal, the dashboard will be printed once")
	}
	if !caps.Term.SupportsMouse() {
		warn("Mouse input unavailable, use the keyboard")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📝 Logging")
	fmt.Fprintln(w, rule)
	if err := checkWritableDir(filepath.Dir(cfg.General.LogFile)); err != nil {
		fail("Log directory: %v", err)
	} else {
		ok("Log file %s", cfg.General.LogFile)
	}
	if cfg.Metrics.Addr != "" {
		fmt.Fprintf(w, "   Metrics:  http://%s/metrics\n", cfg.Metrics.Addr)
	}
	fmt.Fprintln(w)

	if failed {
		fmt.Fprintln(w, "❌ Diagnostics found problems")
		return 1
	}
	fmt.Fprintln(w, "✨ Diagnostics complete!")
	return 0
}

func layoutName(cfg *config.Config) string {
	if len(cfg.Layout.Rows) > 0 {
		return fmt.Sprintf("custom (%d rows)", len(cfg.Layout.Rows))
	}
	return cfg.Layout.Preset
}

// checkWritableDir creates dir if needed and verifies a file can be created
// in it.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".diagnose-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
