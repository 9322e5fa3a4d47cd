package collectors

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// MockCollector implements Collector for tests and for running the kiosk
// without network access (--use-mocks).
type MockCollector struct {
	name     string
	interval time.Duration
	data     any
	err      error
	healthy  bool
	latency  time.Duration

	mu        sync.RWMutex
	callCount atomic.Int64

	// CollectFunc, if set, overrides the default Collect behavior.
	CollectFunc func(ctx context.Context) (any, error)
}

// MockCollectorOption configures a MockCollector.
type MockCollectorOption func(*MockCollector)

// WithData sets the data returned by Collect.
func WithData(data any) MockCollectorOption {
	return func(m *MockCollector) { m.data = data }
}

// WithBriefing sets a dashboard.Briefing as the returned data.
func WithBriefing(b dashboard.Briefing) MockCollectorOption {
	return func(m *MockCollector) { m.data = b }
}

// WithError sets the error returned by Collect.
func WithError(err error) MockCollectorOption {
	return func(m *MockCollector) { m.err = err }
}

// WithHealthy sets the Healthy() return value.
func WithHealthy(healthy bool) MockCollectorOption {
	return func(m *MockCollector) { m.healthy = healthy }
}

// WithLatency makes Collect wait d (or until ctx is done) before returning.
func WithLatency(d time.Duration) MockCollectorOption {
	return func(m *MockCollector) { m.latency = d }
}

// WithCollectFunc sets a custom function for Collect.
func WithCollectFunc(fn func(ctx context.Context) (any, error)) MockCollectorOption {
	return func(m *MockCollector) { m.CollectFunc = fn }
}

// NewMockCollector creates a mock collector with the given name, interval,
// and options.
func NewMockCollector(name string, interval time.Duration, opts ...MockCollectorOption) *MockCollector {
	m := &MockCollector{
		name:     name,
		interval: interval,
		healthy:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the collector name.
func (m *MockCollector) Name() string { return m.name }

// Interval returns the configured collection interval.
func (m *MockCollector) Interval() time.Duration { return m.interval }

// Healthy returns the configured health status.
func (m *MockCollector) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// SetHealthy updates the health status.
func (m *MockCollector) SetHealthy(h bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = h
}

// SetData updates the returned data.
func (m *MockCollector) SetData(data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// SetError updates the returned error.
func (m *MockCollector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Collect increments the call counter and returns the configured data and
// error, or delegates to CollectFunc if set.
func (m *MockCollector) Collect(ctx context.Context) (any, error) {
	m.callCount.Add(1)

	if m.latency > 0 {
		t := time.NewTimer(m.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if m.CollectFunc != nil {
		return m.CollectFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data, m.err
}

// CallCount returns how many times Collect has been called.
func (m *MockCollector) CallCount() int64 {
	return m.callCount.Load()
}

// mockHeadlines rotate through the demo briefing so refreshes are visible.
var mockHeadlines = []dashboard.NewsItem{
	{Title: "Louvre extends evening opening hours through the winter", Source: "Le Parisien", Snippet: "Thursday and Friday late openings continue until March.", Category: "Culture"},
	{Title: "Line 14 extension carries record weekday ridership", Source: "RATP", Snippet: "The southern extension to Orly passed 1.2 million trips.", Category: "Transport"},
	{Title: "Seine swimming sites to reopen next summer", Source: "Le Monde", Snippet: "The city confirmed three bathing areas for 2027.", Category: "City"},
	{Title: "Paris Photo fair opens at the Grand Palais", Source: "France 24", Snippet: "Over 200 galleries take part in this year's edition.", Category: "Culture"},
	{Title: "New cycle lanes complete the Rue de Rivoli corridor", Source: "Actu Paris", Snippet: "The final segment links Concorde to Bastille.", Category: "Transport"},
	{Title: "Autumn book fair draws crowds to Saint-Germain", Source: "Libération", Snippet: "Independent publishers report strong weekend sales.", Category: "Culture"},
}

var mockConditions = []string{"Partly Cloudy", "Light Rain Showers", "Clear", "Overcast", "Mist"}

// NewParisMock returns a MockCollector producing deterministic Paris
// briefings. Each call rotates the headlines and weather so the kiosk
// visibly changes on refresh.
func NewParisMock(latency time.Duration) *MockCollector {
	var n atomic.Int64
	return NewMockCollector("mock", 0,
		WithLatency(latency),
		WithCollectFunc(func(ctx context.Context) (any, error) {
			return ParisBriefing(int(n.Add(1) - 1)), nil
		}),
	)
}

// ParisBriefing returns the i-th deterministic demo briefing.
func ParisBriefing(i int) dashboard.Briefing {
	if i < 0 {
		i = -i
	}
	news := make([]dashboard.NewsItem, 0, 5)
	for j := 0; j < 5; j++ {
		item := mockHeadlines[(i+j)%len(mockHeadlines)]
		item.URL = dashboard.SearchURL(item.Title)
		news = append(news, item)
	}
	temp := 12.0 + float64(i%5)
	return dashboard.Briefing{
		News: news,
		Weather: dashboard.WeatherSnapshot{
			Temp:        temp,
			Condition:   mockConditions[i%len(mockConditions)],
			High:        temp + 4,
			Low:         temp - 5,
			Humidity:    70 + float64(i%3)*5,
			Description: "Mild autumn day with a light westerly breeze.",
		},
	}
}
