// vision-station is a full-screen terminal dashboard for a Paris kiosk.
//
// It shows a large clock with the French date, the current Paris weather
// and a list of local headlines. Weather and news come from one grounded
// Gemini search that is refreshed periodically, on demand and after
// failures.
//
// Usage:
//
//	vision-station [flags]
//
// Flags:
//
//	-config string   Path to configuration file (default: ~/.config/vision-station/config.toml)
//	-theme string    Theme name or path to a theme TOML file (overrides config)
//	-layout string   Layout preset (kiosk|portrait|headline, overrides config)
//	-use-mocks       Use the offline demo source instead of Gemini
//	-once            Fetch one briefing, print the dashboard and exit
//	-width int       Width for -once output (0 = auto-detect)
//	-height int      Height for -once output (0 = auto-detect)
//	-diagnose        Check API key, configuration and terminal, then exit
//	-verbose         Enable debug logging
//	-version         Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gitlab.com/tinyland/lab/vision-station/pkg/config"
	"gitlab.com/tinyland/lab/vision-station/pkg/instance"
	"gitlab.com/tinyland/lab/vision-station/pkg/terminal"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run holds the whole program so deferred cleanup (log file, instance lock)
// happens before the process exits.
func run(args []string) int {
	flags := flag.NewFlagSet("vision-station", flag.ContinueOnError)
	var (
		configPath  = flags.String("config", "", "Path to configuration file")
		themeName   = flags.String("theme", "", "Theme name or path to a theme TOML file (overrides config)")
		layoutName  = flags.String("layout", "", "Layout preset (overrides config)")
		useMocks    = flags.Bool("use-mocks", false, "Use the offline demo source instead of Gemini")
		once        = flags.Bool("once", false, "Fetch one briefing, print the dashboard and exit")
		width       = flags.Int("width", 0, "Width for -once output (0 = auto-detect)")
		height      = flags.Int("height", 0, "Height for -once output (0 = auto-detect)")
		runDiagnose = flags.Bool("diagnose", false, "Check API key, configuration and terminal, then exit")
		verbose     = flags.Bool("verbose", false, "Enable debug logging")
		showVersion = flags.Bool("version", false, "Print version and exit")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("vision-station %s (%s) built %s\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *themeName != "" {
		cfg.Theme.Name = *themeName
	}
	if *layoutName != "" {
		cfg.Layout.Preset = *layoutName
		cfg.Layout.Rows = nil
	}

	if *runDiagnose {
		return runDiagnostics(os.Stdout, cfg, *useMocks)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	if err := ensureLogDir(cfg.General.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		return 1
	}
	logFile, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	// The TUI owns the screen, so logs only go to the file. In -once mode
	// warnings are mirrored to stderr as well.
	var logOut io.Writer = logFile
	if *once {
		logOut = io.MultiWriter(logFile, levelWriter{w: os.Stderr})
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel(cfg.General.LogLevel, *verbose),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	caps := terminal.DetectCapabilities(os.Stdout)
	logger.Info("starting vision-station",
		"version", version,
		"terminal", caps.Term.String(),
		"profile", terminal.ProfileName(caps.Profile),
		"interactive", caps.Interactive,
		"mocks", *useMocks,
	)

	k, err := newKiosk(ctx, cfg, logger, *useMocks)
	if err != nil {
		logger.Error("startup failed", "error", err)
		fmt.Fprintf(os.Stderr, "vision-station: %v\n", err)
		return 1
	}

	th, err := resolveTheme(cfg.Theme.Name, caps.Profile)
	if err != nil {
		logger.Warn("theme unavailable, using default", "theme", cfg.Theme.Name, "error", err)
	}

	if *once || !caps.Interactive {
		size := caps.Size
		if *width > 0 {
			size.Cols = *width
		}
		if *height > 0 {
			size.Rows = *height
		}
		out, err := k.snapshot(ctx, th, size)
		if err != nil {
			logger.Error("snapshot failed", "error", err)
			return 1
		}
		fmt.Print(out)
		return 0
	}

	err = withInstanceLock(cfg.General.PIDFile, func() error {
		return k.run(ctx, th, caps)
	})
	if err != nil {
		logger.Error("vision-station exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "vision-station: %v\n", err)
		return 1
	}
	logger.Info("vision-station stopped")
	return 0
}

// withInstanceLock runs fn while holding the PID file at path. The lock is
// released however fn returns. An empty path disables the check.
func withInstanceLock(path string, fn func() error) error {
	if path == "" {
		return fn()
	}
	lock, err := instance.Acquire(path)
	if err != nil {
		return fmt.Errorf("acquire instance lock %s: %w", path, err)
	}
	defer lock.Release()
	return fn()
}

func ensureLogDir(logFile string) error {
	return os.MkdirAll(filepath.Dir(logFile), 0755)
}

func logLevel(name string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// levelWriter passes through only slog text records at WARN or above.
type levelWriter struct {
	w io.Writer
}

func (lw levelWriter) Write(p []byte) (int, error) {
	s := string(p)
	if strings.Contains(s, "level=WARN") || strings.Contains(s, "level=ERROR") {
		if _, err := lw.w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
