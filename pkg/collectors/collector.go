// Package collectors defines the interfaces, registry, and runner for
// vision-station data collectors. The briefing collector (gemini) is driven
// by the dashboard refresh controller; auxiliary collectors such as node are
// scheduled by a Runner that fans results into a single updates channel
// consumed by the TUI.
package collectors

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// Collector is the interface all data sources implement. Implementations live
// in sub-packages (e.g., pkg/collectors/gemini) and are registered with the
// Registry at startup.
type Collector interface {
	// Name returns a unique identifier for this collector (e.g., "gemini").
	Name() string

	// Collect performs one collection cycle. Consumers type-assert the
	// result based on the collector name.
	Collect(ctx context.Context) (any, error)

	// Interval returns how often the Runner should call Collect. Collectors
	// driven by the refresh controller return 0 and are skipped by the Runner.
	Interval() time.Duration

	// Healthy reports whether the last collection succeeded. A collector that
	// has never run is considered healthy.
	Healthy() bool
}

// CollectorStatus tracks the runtime state of a single collector.
type CollectorStatus struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

// Update carries the result of a single collection cycle from a collector
// goroutine to the consumer (typically the TUI event loop).
type Update struct {
	Source    string
	Data      any
	Timestamp time.Time
	Error     error
}

// AsSource adapts a Collector whose data is a dashboard.Briefing into a
// dashboard.Source for the refresh controller.
func AsSource(c Collector) dashboard.Source {
	return briefingSource{c: c}
}

type briefingSource struct {
	c Collector
}

func (b briefingSource) Name() string { return b.c.Name() }

func (b briefingSource) Collect(ctx context.Context) (dashboard.Briefing, error) {
	data, err := b.c.Collect(ctx)
	if err != nil {
		return dashboard.Briefing{}, err
	}
	switch v := data.(type) {
	case dashboard.Briefing:
		return v, nil
	case *dashboard.Briefing:
		if v != nil {
			return *v, nil
		}
	}
	return dashboard.Briefing{}, fmt.Errorf("collector %q returned %T, want dashboard.Briefing", b.c.Name(), data)
}
