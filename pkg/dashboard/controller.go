package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultInterval is the periodic refresh period.
	DefaultInterval = 10 * time.Minute

	// DefaultRetryDelay is the fixed delay before retrying a failed fetch.
	DefaultRetryDelay = 30 * time.Second

	eventBuffer = 16
)

// Source is the data fetch collaborator. Collect must be safe to call
// repeatedly; it may block for a long time and must honour ctx.
type Source interface {
	Name() string
	Collect(ctx context.Context) (Briefing, error)
}

// FetchReport describes one finished fetch. Superseded is set when a newer
// request replaced the fetch before its result could be applied.
type FetchReport struct {
	Source     string
	Seq        uint64
	Trigger    Trigger
	Started    time.Time
	Latency    time.Duration
	Err        error
	Superseded bool
}

// Recorder observes fetch outcomes (metrics, collector status).
type Recorder interface {
	RecordFetch(r FetchReport)
}

// Recorders fans a report out to several recorders.
type Recorders []Recorder

// RecordFetch forwards r to every non-nil recorder.
func (rs Recorders) RecordFetch(r FetchReport) {
	for _, rec := range rs {
		if rec != nil {
			rec.RecordFetch(r)
		}
	}
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Interval   time.Duration
	RetryDelay time.Duration
	Clock      Clock
	Logger     *slog.Logger
	Recorder   Recorder
}

type fetchMeta struct {
	cancel  context.CancelFunc
	trigger Trigger
	started time.Time
}

// Controller owns the dashboard State. All transitions run on one
// goroutine; fetches run on their own goroutines and report back as events.
type Controller struct {
	src  Source
	opts Options
	log  *slog.Logger

	events  chan Event
	updates chan State

	mu    sync.RWMutex
	state State

	// Owned by the run goroutine.
	machine Machine
	fetches map[uint64]*fetchMeta
	retry   Timer
	ticker  Ticker
	trigger Trigger

	lifeMu    sync.Mutex
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	stopped   chan struct{}
	loopDone  chan struct{}
	wg        sync.WaitGroup
}

// NewController creates a Controller for src. It does nothing until Start.
func NewController(src Source, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := NewMachine(opts.RetryDelay, opts.Clock.Now())
	return &Controller{
		src:      src,
		opts:     opts,
		log:      logger.With("component", "refresh"),
		events:   make(chan Event, eventBuffer),
		updates:  make(chan State, 1),
		state:    m.State.Clone(),
		machine:  m,
		fetches:  make(map[uint64]*fetchMeta),
		stopped:  make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Start mounts the controller: it requests the first refresh and starts the
// periodic timer. Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	c.startOnce.Do(func() {
		select {
		case <-c.stopped:
			return
		default:
		}
		ctx, c.cancel = context.WithCancel(ctx)
		c.ticker = c.opts.Clock.NewTicker(c.opts.Interval)
		go c.run(ctx)
	})
}

// Stop tears the controller down: the periodic timer and any pending retry
// are cancelled, in-flight fetches are cancelled and their results dropped.
// No refresh starts after Stop returns. Stop is idempotent. It waits for
// fetch goroutines, so sources must honour context cancellation.
func (c *Controller) Stop() {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	c.stopOnce.Do(func() {
		close(c.stopped)
		if c.cancel == nil {
			// Never started.
			close(c.loopDone)
			close(c.updates)
			return
		}
		c.cancel()
		<-c.loopDone
		c.wg.Wait()
	})
}

// TriggerRefresh requests a manual refresh. It is a no-op after Stop.
func (c *Controller) TriggerRefresh() {
	c.send(RefreshRequested{Trigger: TriggerManual})
}

// State returns a copy of the latest published state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Updates returns a channel carrying state snapshots. Only the most recent
// unread snapshot is kept. The channel is closed when the controller stops.
func (c *Controller) Updates() <-chan State {
	return c.updates
}

// SourceName returns the name of the underlying data source.
func (c *Controller) SourceName() string {
	return c.src.Name()
}

func (c *Controller) send(ev Event) bool {
	select {
	case <-c.stopped:
		return false
	case <-c.loopDone:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.stopped:
		return false
	case <-c.loopDone:
		return false
	}
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.loopDone)
	defer close(c.updates)
	defer c.teardown()

	c.log.Info("refresh controller started",
		"source", c.src.Name(),
		"interval", c.opts.Interval,
		"retry_delay", c.opts.RetryDelay,
	)
	c.apply(ctx, RefreshRequested{Trigger: TriggerMount})

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ticker.C():
			c.apply(ctx, RefreshRequested{Trigger: TriggerPeriodic})
		case ev := <-c.events:
			c.apply(ctx, ev)
		}
	}
}

func (c *Controller) teardown() {
	c.ticker.Stop()
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	for seq, meta := range c.fetches {
		meta.cancel()
		delete(c.fetches, seq)
	}
	c.log.Info("refresh controller stopped")
}

func (c *Controller) apply(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case RefreshRequested:
		c.trigger = ev.Trigger
	case FetchSucceeded:
		c.report(ev.Seq, nil)
	case FetchFailed:
		c.report(ev.Seq, ev.Err)
	}

	prev := c.machine.State.Phase
	next, effects := Transition(c.machine, ev)
	c.machine = next

	for _, eff := range effects {
		c.perform(ctx, eff)
	}

	if next.State.Phase != prev {
		c.log.Debug("refresh transition",
			"from", prev.String(),
			"to", next.State.Phase.String(),
		)
	}
	c.publish(next.State)
}

func (c *Controller) report(seq uint64, err error) {
	meta, ok := c.fetches[seq]
	if !ok {
		return
	}
	delete(c.fetches, seq)
	meta.cancel()

	r := FetchReport{
		Source:     c.src.Name(),
		Seq:        seq,
		Trigger:    meta.trigger,
		Started:    meta.started,
		Latency:    c.opts.Clock.Now().Sub(meta.started),
		Err:        err,
		Superseded: seq != c.machine.InFlight(),
	}

	switch {
	case r.Superseded:
		c.log.Debug("dropping superseded fetch result", "seq", seq)
	case err != nil:
		c.log.Warn("fetch failed",
			"source", r.Source,
			"trigger", r.Trigger.String(),
			"error", err,
			"retry_in", c.opts.RetryDelay,
		)
	default:
		c.log.Info("fetch completed",
			"source", r.Source,
			"trigger", r.Trigger.String(),
			"latency", r.Latency,
		)
	}

	if c.opts.Recorder != nil {
		c.opts.Recorder.RecordFetch(r)
	}
}

func (c *Controller) perform(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case StartFetch:
		c.startFetch(ctx, eff.Seq)
	case CancelFetch:
		if meta, ok := c.fetches[eff.Seq]; ok {
			meta.cancel()
		}
	case ScheduleRetry:
		if c.retry != nil {
			c.retry.Stop()
		}
		gen := eff.Gen
		c.retry = c.opts.Clock.AfterFunc(eff.After, func() {
			c.send(RefreshRequested{Trigger: TriggerRetry, Retry: gen})
		})
	case CancelRetry:
		if c.retry != nil {
			c.retry.Stop()
			c.retry = nil
		}
	}
}

func (c *Controller) startFetch(ctx context.Context, seq uint64) {
	fctx, cancel := context.WithCancel(ctx)
	meta := &fetchMeta{
		cancel:  cancel,
		trigger: c.trigger,
		started: c.opts.Clock.Now(),
	}
	c.fetches[seq] = meta

	c.log.Debug("fetch started", "seq", seq, "trigger", meta.trigger.String())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		b, err := c.src.Collect(fctx)
		if err != nil {
			c.send(FetchFailed{Seq: seq, Err: err})
			return
		}
		c.send(FetchSucceeded{Seq: seq, Briefing: b, At: c.opts.Clock.Now()})
	}()
}

func (c *Controller) publish(s State) {
	snap := s.Clone()

	c.mu.Lock()
	c.state = snap
	c.mu.Unlock()

	// Latest wins: drop an unread snapshot before queueing the new one.
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- snap.Clone():
	default:
	}
}
