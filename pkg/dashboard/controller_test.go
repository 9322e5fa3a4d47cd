package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// --- fake clock ---

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time, 1), period: d, next: f.now.Add(d)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward, ticking tickers and firing due timers.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	var due []*fakeTimer
	for _, t := range f.timers {
		if t.fire(now) {
			due = append(due, t)
		}
	}
	for _, t := range f.tickers {
		t.tick(now)
	}
	f.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// lastTimer returns the most recently scheduled timer.
func (f *fakeClock) lastTimer(t *testing.T) *fakeTimer {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.timers) == 0 {
		t.Fatal("no timer scheduled")
	}
	return f.timers[len(f.timers)-1]
}

// ArmedTimers returns how many timers are scheduled and not yet fired.
func (f *fakeClock) ArmedTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if t.armed() {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	period  time.Duration
	next    time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || now.Before(t.next) {
		return
	}
	for !now.Before(t.next) {
		t.next = t.next.Add(t.period)
	}
	select {
	case t.c <- now:
	default:
	}
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeTimer struct {
	mu      sync.Mutex
	at      time.Time
	fn      func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.fired && !t.stopped
	t.stopped = true
	return active
}

func (t *fakeTimer) fire(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped || now.Before(t.at) {
		return false
	}
	t.fired = true
	return true
}

func (t *fakeTimer) armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.fired && !t.stopped
}

// --- scripted source ---

type fetchCall struct {
	ctx   context.Context
	reply chan fetchReply
}

type fetchReply struct {
	b   Briefing
	err error
}

func (c fetchCall) succeed(b Briefing) { c.reply <- fetchReply{b: b} }
func (c fetchCall) fail(err error)     { c.reply <- fetchReply{err: err} }

type scriptedSource struct {
	calls chan fetchCall
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{calls: make(chan fetchCall, 8)}
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) Collect(ctx context.Context) (Briefing, error) {
	call := fetchCall{ctx: ctx, reply: make(chan fetchReply, 1)}
	s.calls <- call
	select {
	case r := <-call.reply:
		return r.b, r.err
	case <-ctx.Done():
		return Briefing{}, ctx.Err()
	}
}

func (s *scriptedSource) expectCall(t *testing.T) fetchCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch")
		return fetchCall{}
	}
}

func (s *scriptedSource) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case <-s.calls:
		t.Fatal("unexpected fetch")
	case <-time.After(50 * time.Millisecond):
	}
}

// --- recorder ---

type captureRecorder struct {
	mu      sync.Mutex
	reports []FetchReport
}

func (r *captureRecorder) RecordFetch(rep FetchReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *captureRecorder) all() []FetchReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FetchReport(nil), r.reports...)
}

// --- helpers ---

const (
	testInterval = 10 * time.Minute
	testRetry    = 30 * time.Second
)

func newTestController(t *testing.T) (*Controller, *scriptedSource, *fakeClock, *captureRecorder) {
	t.Helper()
	src := newScriptedSource()
	clk := newFakeClock(testNow)
	rec := &captureRecorder{}
	c := NewController(src, Options{
		Interval:   testInterval,
		RetryDelay: testRetry,
		Clock:      clk,
		Recorder:   rec,
	})
	t.Cleanup(c.Stop)
	return c, src, clk, rec
}

func waitState(t *testing.T, c *Controller, desc string, pred func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if s := c.State(); pred(s) {
			return s
		}
		select {
		case <-c.Updates():
		case <-deadline:
			t.Fatalf("timed out waiting for state: %s (last: %+v)", desc, c.State())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func phaseIs(p Phase) func(State) bool {
	return func(s State) bool { return s.Phase == p }
}

// --- tests ---

func TestControllerInitialState(t *testing.T) {
	c, _, _, _ := newTestController(t)
	s := c.State()
	if s.Phase != PhaseUninitialized || s.Loading {
		t.Errorf("initial state = %+v", s)
	}
	if c.SourceName() != "scripted" {
		t.Errorf("SourceName = %q", c.SourceName())
	}
}

func TestControllerMountLoadsThenReady(t *testing.T) {
	c, src, clk, rec := newTestController(t)
	c.Start(context.Background())

	call := src.expectCall(t)
	s := waitState(t, c, "loading", phaseIs(PhaseLoading))
	if !s.Loading {
		t.Error("Loading should be true during the first fetch")
	}

	clk.Advance(2 * time.Second)
	want := sampleBriefing("Nuit Blanche")
	call.succeed(want)

	s = waitState(t, c, "ready", phaseIs(PhaseReady))
	if s.Loading || s.Error != "" {
		t.Errorf("ready state = %+v", s)
	}
	if len(s.News) != 1 || s.News[0] != want.News[0] {
		t.Errorf("News = %+v, want %+v", s.News, want.News)
	}
	if s.Weather == nil || *s.Weather != want.Weather {
		t.Errorf("Weather = %+v, want %+v", s.Weather, want.Weather)
	}
	if s.LastUpdated != FormatSyncTime(clk.Now()) {
		t.Errorf("LastUpdated = %q, want %q", s.LastUpdated, FormatSyncTime(clk.Now()))
	}

	reps := rec.all()
	if len(reps) != 1 || reps[0].Trigger != TriggerMount || reps[0].Err != nil || reps[0].Latency != 2*time.Second {
		t.Errorf("reports = %+v", reps)
	}
}

func TestControllerFailureRetriesExactlyOnce(t *testing.T) {
	c, src, clk, _ := newTestController(t)
	c.Start(context.Background())

	src.expectCall(t).succeed(sampleBriefing("kept"))
	waitState(t, c, "ready", phaseIs(PhaseReady))

	c.TriggerRefresh()
	refreshing := waitState(t, c, "refreshing", phaseIs(PhaseRefreshing))
	if refreshing.Loading {
		t.Error("manual refresh must not set Loading")
	}
	src.expectCall(t).fail(errors.New("503"))

	s := waitState(t, c, "error", phaseIs(PhaseError))
	if s.Error != ErrorMessage {
		t.Errorf("Error = %q", s.Error)
	}
	if len(s.News) != 1 || s.News[0].Title != "kept" {
		t.Errorf("previous news not retained: %+v", s.News)
	}
	if clk.ArmedTimers() != 1 {
		t.Fatalf("armed timers = %d, want 1", clk.ArmedTimers())
	}

	clk.Advance(testRetry - time.Second)
	src.expectNoCall(t)

	clk.Advance(time.Second)
	retry := src.expectCall(t)
	s = waitState(t, c, "retry refreshing", phaseIs(PhaseRefreshing))
	if s.Loading {
		t.Error("retry must not set Loading")
	}

	// Only one retry per failure.
	clk.Advance(testRetry)
	src.expectNoCall(t)

	retry.succeed(sampleBriefing("back"))
	s = waitState(t, c, "ready again", phaseIs(PhaseReady))
	if s.Error != "" || s.News[0].Title != "back" {
		t.Errorf("state after retry success = %+v", s)
	}
}

func TestControllerIgnoresRetryFiredAfterManualRefresh(t *testing.T) {
	c, src, clk, _ := newTestController(t)
	c.Start(context.Background())

	src.expectCall(t).fail(errors.New("down"))
	waitState(t, c, "error", phaseIs(PhaseError))
	retry := clk.lastTimer(t)

	c.TriggerRefresh()
	manual := src.expectCall(t)
	if retry.armed() {
		t.Fatal("manual refresh should have stopped the retry timer")
	}

	// A timer callback already running when Stop was called still delivers.
	retry.fn()
	src.expectNoCall(t)

	select {
	case <-manual.ctx.Done():
		t.Fatal("late retry cancelled the manual fetch")
	default:
	}

	manual.succeed(sampleBriefing("manual"))
	s := waitState(t, c, "ready", phaseIs(PhaseReady))
	if s.News[0].Title != "manual" {
		t.Errorf("News[0].Title = %q, want manual", s.News[0].Title)
	}
}

func TestControllerRetriesIndefinitely(t *testing.T) {
	c, src, clk, rec := newTestController(t)
	c.Start(context.Background())

	src.expectCall(t).fail(errors.New("offline"))
	waitState(t, c, "error", phaseIs(PhaseError))

	for i := 0; i < 3; i++ {
		clk.Advance(testRetry)
		src.expectCall(t).fail(errors.New("still offline"))
		waitState(t, c, "error again", func(s State) bool {
			return s.Phase == PhaseError && clk.ArmedTimers() == 1
		})
	}

	var failures int
	for _, r := range rec.all() {
		if r.Err != nil {
			failures++
		}
	}
	if failures != 4 {
		t.Errorf("failures recorded = %d, want 4", failures)
	}
}

func TestControllerPeriodicRefresh(t *testing.T) {
	c, src, clk, _ := newTestController(t)
	c.Start(context.Background())

	src.expectCall(t).succeed(sampleBriefing("a"))
	waitState(t, c, "ready", phaseIs(PhaseReady))

	clk.Advance(testInterval)
	call := src.expectCall(t)
	s := waitState(t, c, "refreshing", phaseIs(PhaseRefreshing))
	if s.Loading {
		t.Error("periodic refresh must not set Loading")
	}
	call.succeed(sampleBriefing("b"))
	waitState(t, c, "ready", func(s State) bool {
		return s.Phase == PhaseReady && len(s.News) == 1 && s.News[0].Title == "b"
	})
}

func TestControllerSupersededFetchIsDropped(t *testing.T) {
	c, src, _, rec := newTestController(t)
	c.Start(context.Background())

	first := src.expectCall(t)
	waitState(t, c, "loading", phaseIs(PhaseLoading))

	c.TriggerRefresh()
	second := src.expectCall(t)

	select {
	case <-first.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch context was not cancelled")
	}

	second.succeed(sampleBriefing("fresh"))
	waitState(t, c, "ready", phaseIs(PhaseReady))

	// The cancelled fetch reports asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	var superseded int
	for time.Now().Before(deadline) {
		superseded = 0
		for _, r := range rec.all() {
			if r.Superseded {
				superseded++
			}
		}
		if superseded > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if superseded != 1 {
		t.Errorf("superseded reports = %d, want 1", superseded)
	}
	if got := c.State().News[0].Title; got != "fresh" {
		t.Errorf("News[0].Title = %q, want fresh", got)
	}
}

func TestControllerStopCancelsTimers(t *testing.T) {
	c, src, clk, _ := newTestController(t)
	c.Start(context.Background())

	src.expectCall(t).fail(errors.New("down"))
	waitState(t, c, "error", phaseIs(PhaseError))

	c.Stop()

	for _, tk := range clk.tickers {
		if !tk.isStopped() {
			t.Error("periodic ticker still running after Stop")
		}
	}
	if clk.ArmedTimers() != 0 {
		t.Errorf("armed timers after Stop = %d, want 0", clk.ArmedTimers())
	}

	c.TriggerRefresh()
	clk.Advance(testInterval + testRetry)
	src.expectNoCall(t)

	// Updates is closed once the loop exits.
	for range c.Updates() {
	}

	// Idempotent.
	c.Stop()
}

func TestControllerStopBeforeStart(t *testing.T) {
	c, src, _, _ := newTestController(t)
	c.Stop()
	c.Start(context.Background())
	c.TriggerRefresh()
	src.expectNoCall(t)

	if _, ok := <-c.Updates(); ok {
		t.Error("Updates should be closed")
	}
}

func TestControllerParentContextCancel(t *testing.T) {
	c, src, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	call := src.expectCall(t)
	cancel()

	select {
	case <-call.ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch not cancelled with parent context")
	}
	c.Stop()
}

func TestRecordersSkipNil(t *testing.T) {
	a := &captureRecorder{}
	rs := Recorders{nil, a}
	rs.RecordFetch(FetchReport{Seq: 7})
	if got := a.all(); len(got) != 1 || got[0].Seq != 7 {
		t.Errorf("reports = %+v", got)
	}
}
