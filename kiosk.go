package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	promcollectors "github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/vision-station/pkg/browser"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors/gemini"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors/node"
	"gitlab.com/tinyland/lab/vision-station/pkg/config"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
	"gitlab.com/tinyland/lab/vision-station/pkg/metrics"
	"gitlab.com/tinyland/lab/vision-station/pkg/terminal"
	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
	"gitlab.com/tinyland/lab/vision-station/pkg/tui"
)

// kiosk holds the long-lived parts of one vision-station process.
type kiosk struct {
	cfg *config.Config
	log *slog.Logger

	registry *collectors.Registry
	runner   *collectors.Runner
	updates  chan collectors.Update
	ctrl     *dashboard.Controller

	metrics *metrics.Metrics
	server  *metrics.Server
}

func newKiosk(ctx context.Context, cfg *config.Config, logger *slog.Logger, useMocks bool) (*kiosk, error) {
	var src collectors.Collector
	if useMocks {
		logger.Info("using mock briefing source", "latency", cfg.Mock.Latency.Duration)
		src = collectors.NewParisMock(cfg.Mock.Latency.Duration)
	} else {
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			City:    cfg.Gemini.City,
			Timeout: cfg.Gemini.Timeout.Duration,
			Logger:  logger,
		})
		if err != nil {
			if errors.Is(err, gemini.ErrMissingAPIKey) {
				return nil, fmt.Errorf("%w (set GEMINI_API_KEY or gemini.api_key, or run with -use-mocks)", err)
			}
			return nil, err
		}
		src = c
	}

	registry := collectors.NewRegistry()
	if err := registry.Register(src); err != nil {
		return nil, err
	}
	if cfg.Node.Enabled {
		if err := registry.Register(node.New(cfg.Node.Interval.Duration)); err != nil {
			return nil, err
		}
	}

	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(
		promcollectors.NewGoCollector(),
		promcollectors.NewProcessCollector(promcollectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(gatherer)

	ctrl := dashboard.NewController(collectors.AsSource(src), dashboard.Options{
		Interval:   cfg.General.RefreshInterval.Duration,
		RetryDelay: cfg.General.RetryDelay.Duration,
		Logger:     logger,
		Recorder:   dashboard.Recorders{registry, m},
	})

	updates := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
	k := &kiosk{
		cfg:      cfg,
		log:      logger,
		registry: registry,
		runner:   collectors.NewRunner(registry, updates, collectors.WithLogger(logger)),
		updates:  updates,
		ctrl:     ctrl,
		metrics:  m,
	}
	if cfg.Metrics.Addr != "" {
		k.server = metrics.NewServer(cfg.Metrics.Addr, gatherer, ctrl, registry, logger)
	}
	return k, nil
}

// run starts the refresh controller, the collector runner and the metrics
// server, then blocks in the TUI until the user quits or ctx is cancelled.
func (k *kiosk) run(ctx context.Context, th theme.Theme, caps terminal.Capabilities) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	k.ctrl.Start(ctx)
	if err := k.runner.Start(ctx); err != nil {
		k.ctrl.Stop()
		return err
	}

	states := make(chan dashboard.State, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		relayStates(k.ctrl.Updates(), states, k.metrics.ObserveState)
		return nil
	})
	if k.server != nil {
		g.Go(func() error { return k.server.Run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		defer k.runner.Stop()
		defer k.ctrl.Stop()
		return k.runTUI(gctx, th, caps, states)
	})
	return g.Wait()
}

func (k *kiosk) runTUI(ctx context.Context, th theme.Theme, caps terminal.Capabilities, states <-chan dashboard.State) error {
	zones := zone.New()
	defer zones.Close()

	model := tui.New(tui.Options{
		Theme:     th,
		Layout:    k.cfg.ResolvedLayout(),
		City:      k.cfg.Gemini.City,
		Refresher: k.ctrl,
		Initial:   k.ctrl.State(),
		States:    states,
		Updates:   k.updates,
		Opener:    browser.System,
		Zones:     zones,
		Logger:    k.log,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if caps.Term.SupportsMouse() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

const snapshotSlack = 5 * time.Second

// snapshot performs a single refresh and renders the dashboard as text.
func (k *kiosk) snapshot(ctx context.Context, th theme.Theme, size terminal.Size) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, k.cfg.Gemini.Timeout.Duration+k.cfg.Mock.Latency.Duration+snapshotSlack)
	defer cancel()

	k.ctrl.Start(ctx)
	state, err := awaitSettled(ctx, k.ctrl.Updates())
	k.ctrl.Stop()
	if err != nil {
		return "", err
	}
	k.metrics.ObserveState(state)

	return tui.Snapshot(tui.Options{
		Theme:  th,
		Layout: k.cfg.ResolvedLayout(),
		City:   k.cfg.Gemini.City,
		Logger: k.log,
	}, state, size.Cols, size.Rows), nil
}

// awaitSettled returns the first state published once a fetch has finished,
// successfully or not.
func awaitSettled(ctx context.Context, states <-chan dashboard.State) (dashboard.State, error) {
	for {
		select {
		case <-ctx.Done():
			return dashboard.State{}, ctx.Err()
		case s, ok := <-states:
			if !ok {
				return dashboard.State{}, errors.New("refresh controller stopped before the first fetch finished")
			}
			if s.Phase == dashboard.PhaseReady || s.Phase == dashboard.PhaseError {
				return s, nil
			}
		}
	}
}

// relayStates forwards controller snapshots to out, calling observe on each.
// Like the controller's own channel, out keeps only the latest unread
// snapshot. out is closed when in closes.
func relayStates(in <-chan dashboard.State, out chan dashboard.State, observe func(dashboard.State)) {
	defer close(out)
	for s := range in {
		if observe != nil {
			observe(s)
		}
		select {
		case <-out:
		default:
		}
		select {
		case out <- s:
		default:
		}
	}
}

// resolveTheme loads name as a built-in theme or, when it ends in .toml, from
// a file, and adapts it to the output's colour profile. On error the default
// theme is returned along with the error.
func resolveTheme(name string, profile termenv.Profile) (theme.Theme, error) {
	var (
		t   theme.Theme
		err error
	)
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".toml"):
		t, err = theme.LoadFile(name)
		if err != nil {
			t = theme.Get(theme.DefaultName)
		}
	default:
		var ok bool
		if t, ok = theme.Lookup(name); !ok {
			t = theme.Get(theme.DefaultName)
			err = fmt.Errorf("unknown theme %q (have %s)", name, strings.Join(theme.Names(), ", "))
		}
	}
	return theme.AdaptForProfile(t, profile), err
}
