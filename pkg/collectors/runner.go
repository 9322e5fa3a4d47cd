package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultUpdateBufferSize is the recommended capacity for the updates channel.
const DefaultUpdateBufferSize = 32

// Runner schedules every registered collector with a positive Interval on
// its own ticker and forwards each result to the updates channel. Each
// collector runs once immediately on Start.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	log      *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	stopped bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the Runner's logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner creates a Runner over registry that publishes to updates.
func NewRunner(registry *Registry, updates chan<- Update, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		updates:  updates,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("component", "runner")
	return r
}

// Start launches one goroutine per scheduled collector. It returns an error
// if the Runner was already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.group != nil {
		return fmt.Errorf("runner already started")
	}

	ctx, r.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	r.group = g

	for _, name := range r.registry.List() {
		c, ok := r.registry.Get(name)
		if !ok || c.Interval() <= 0 {
			continue
		}
		g.Go(func() error {
			r.loop(gctx, c)
			return nil
		})
		r.log.Debug("collector scheduled", "collector", name, "interval", c.Interval())
	}
	return nil
}

// Stop cancels all collector goroutines and waits for them to exit. It is
// safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped || r.group == nil {
		r.stopped = true
		r.mu.Unlock()
		return
	}
	r.stopped = true
	cancel, g := r.cancel, r.group
	r.mu.Unlock()

	cancel()
	_ = g.Wait()
}

// RunOnce runs the named collector synchronously, updates its status and
// returns its data. Nothing is sent on the updates channel.
func (r *Runner) RunOnce(ctx context.Context, name string) (any, error) {
	c, ok := r.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("collector %q not registered", name)
	}
	u := r.collect(ctx, c)
	return u.Data, u.Error
}

// Health returns the health of every registered collector from its status.
func (r *Runner) Health() map[string]bool {
	statuses := r.registry.AllStatus()
	out := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		out[s.Name] = s.Healthy
	}
	return out
}

func (r *Runner) loop(ctx context.Context, c Collector) {
	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		r.publish(ctx, r.collect(ctx, c))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) collect(ctx context.Context, c Collector) Update {
	start := time.Now()
	data, err := c.Collect(ctx)
	latency := time.Since(start)
	if latency <= 0 {
		latency = time.Nanosecond
	}

	r.registry.record(c.Name(), start.Add(latency), latency, err)
	if err != nil && ctx.Err() == nil {
		r.log.Warn("collection failed", "collector", c.Name(), "error", err)
	}
	return Update{
		Source:    c.Name(),
		Data:      data,
		Timestamp: start.Add(latency),
		Error:     err,
	}
}

func (r *Runner) publish(ctx context.Context, u Update) {
	if ctx.Err() != nil {
		return
	}
	select {
	case r.updates <- u:
	case <-ctx.Done():
	default:
		r.log.Debug("update dropped, channel full", "collector", u.Source)
	}
}
