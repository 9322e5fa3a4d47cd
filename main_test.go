package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/vision-station/pkg/config"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
	"gitlab.com/tinyland/lab/vision-station/pkg/instance"
	"gitlab.com/tinyland/lab/vision-station/pkg/terminal"
	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.LogFile = filepath.Join(t.TempDir(), "logs", "vision.log")
	cfg.Mock.Latency.Duration = 0
	cfg.Node.Enabled = false
	cfg.Gemini.APIKey = ""
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayStatesKeepsLatestAndCloses(t *testing.T) {
	in := make(chan dashboard.State, 3)
	out := make(chan dashboard.State, 1)
	var seen []dashboard.Phase

	in <- dashboard.State{Phase: dashboard.PhaseLoading}
	in <- dashboard.State{Phase: dashboard.PhaseReady}
	in <- dashboard.State{Phase: dashboard.PhaseRefreshing}
	close(in)

	relayStates(in, out, func(s dashboard.State) { seen = append(seen, s.Phase) })

	if len(seen) != 3 {
		t.Errorf("observed %d states, want 3", len(seen))
	}
	s, ok := <-out
	if !ok || s.Phase != dashboard.PhaseRefreshing {
		t.Errorf("got %v (ok=%v), want the latest refreshing state", s.Phase, ok)
	}
	if _, ok := <-out; ok {
		t.Error("out should be closed after in closes")
	}
}

func TestAwaitSettled(t *testing.T) {
	states := make(chan dashboard.State, 3)
	states <- dashboard.State{Phase: dashboard.PhaseLoading}
	states <- dashboard.State{Phase: dashboard.PhaseError, Error: dashboard.ErrorMessage}

	s, err := awaitSettled(context.Background(), states)
	if err != nil || s.Phase != dashboard.PhaseError {
		t.Fatalf("awaitSettled() = %v, %v", s.Phase, err)
	}

	close(states)
	if _, err := awaitSettled(context.Background(), states); err == nil {
		t.Error("a closed channel should be an error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := awaitSettled(ctx, make(chan dashboard.State)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    slog.Level
	}{
		{"info", false, slog.LevelInfo},
		{"warn", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
		{"bogus", false, slog.LevelInfo},
		{"error", true, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := logLevel(tt.name, tt.verbose); got != tt.want {
			t.Errorf("logLevel(%q, %v) = %v, want %v", tt.name, tt.verbose, got, tt.want)
		}
	}
}

func TestLevelWriterFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(levelWriter{w: &buf}, nil))
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestResolveTheme(t *testing.T) {
	th, err := resolveTheme("nord", termenv.TrueColor)
	if err != nil || th.Name != "nord" {
		t.Errorf("resolveTheme(nord) = %q, %v", th.Name, err)
	}

	th, err = resolveTheme("no-such-theme", termenv.TrueColor)
	if err == nil || th.Name != theme.DefaultName {
		t.Errorf("unknown theme gave %q, %v", th.Name, err)
	}

	_, err = resolveTheme(filepath.Join(t.TempDir(), "missing.toml"), termenv.ANSI)
	if err == nil {
		t.Error("a missing theme file should be reported")
	}
}

func TestNewKioskRequiresAPIKey(t *testing.T) {
	_, err := newKiosk(context.Background(), testConfig(t), discardLogger(), false)
	if err == nil || !strings.Contains(err.Error(), "-use-mocks") {
		t.Errorf("err = %v, want a hint about -use-mocks", err)
	}
}

func TestSnapshotWithMocks(t *testing.T) {
	cfg := testConfig(t)
	k, err := newKiosk(context.Background(), cfg, discardLogger(), true)
	if err != nil {
		t.Fatal(err)
	}
	if k.server != nil {
		t.Error("no metrics server without an address")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := k.snapshot(ctx, theme.Get("mono"), terminal.Size{Cols: 100, Rows: 30})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "\n") + 1; got != 30 {
		t.Errorf("snapshot has %d lines, want 30", got)
	}
	if !strings.Contains(out, "VISION STATION") {
		t.Error("snapshot is missing the header")
	}
}

func TestRunDiagnostics(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	if code := runDiagnostics(&buf, cfg, false); code != 1 {
		t.Errorf("exit code = %d without an API key, want 1", code)
	}
	if !strings.Contains(buf.String(), "API key not set") {
		t.Errorf("report missing the API key problem:\n%s", buf.String())
	}

	buf.Reset()
	if code := runDiagnostics(&buf, cfg, true); code != 0 {
		t.Errorf("exit code = %d with mocks, want 0:\n%s", code, buf.String())
	}

	buf.Reset()
	cfg.Gemini.APIKey = "abc123"
	cfg.General.RefreshInterval.Duration = time.Second
	if code := runDiagnostics(&buf, cfg, false); code != 1 {
		t.Errorf("exit code = %d for an invalid interval, want 1", code)
	}
	if !strings.Contains(buf.String(), "refresh_interval") {
		t.Errorf("report missing the interval problem:\n%s", buf.String())
	}
}

func TestWithInstanceLockReleasesOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vision-station.pid")
	boom := errors.New("tui failed")

	err := withInstanceLock(path, func() error {
		if pid, err := instance.ReadPID(path); err != nil || pid != os.Getpid() {
			t.Errorf("lock not held during run: pid=%d err=%v", pid, err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pid file left behind after a failed run: %v", err)
	}
}

func TestWithInstanceLockRefusesSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vision-station.pid")
	// The test binary's parent stands in for a running kiosk.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o644); err != nil {
		t.Fatal(err)
	}

	ran := false
	err := withInstanceLock(path, func() error { ran = true; return nil })
	if !errors.Is(err, instance.ErrRunning) || ran {
		t.Errorf("err = %v, ran = %v; want ErrRunning without running", err, ran)
	}
}

func TestWithInstanceLockDisabled(t *testing.T) {
	ran := false
	if err := withInstanceLock("", func() error { ran = true; return nil }); err != nil || !ran {
		t.Errorf("empty path: err = %v, ran = %v", err, ran)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("[general]\nrefresh_interval = \"1s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[general]\nbogus = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VISION_REFRESH_INTERVAL", "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"-version"}, 0},
		{"bad flag", []string{"-no-such-flag"}, 2},
		{"invalid config", []string{"-config", invalid}, 1},
		{"unknown key", []string{"-config", unknown}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
