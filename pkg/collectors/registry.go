package collectors

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// Registry manages a set of named collectors and their runtime status. It is
// safe for concurrent use. It also implements dashboard.Recorder so fetches
// made by the refresh controller show up in the same status table as the
// Runner's collectors.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
	statuses   map[string]*CollectorStatus
}

// NewRegistry returns an empty registry ready for collector registration.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
		statuses:   make(map[string]*CollectorStatus),
	}
}

// Register adds a collector. It returns an error if a collector with the same
// name is already registered.
func (r *Registry) Register(c Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.collectors[name]; exists {
		return fmt.Errorf("collector %q already registered", name)
	}

	r.collectors[name] = c
	r.statuses[name] = &CollectorStatus{
		Name:    name,
		Healthy: true,
	}
	return nil
}

// Unregister removes a collector by name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collectors, name)
	delete(r.statuses, name)
}

// Get returns the collector with the given name.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collectors[name]
	return c, ok
}

// List returns the registered collector names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status returns a copy of the runtime status for the named collector.
func (r *Registry) Status(name string) (CollectorStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[name]
	if !ok {
		return CollectorStatus{}, false
	}
	return *s, true
}

// AllStatus returns a copy of all collector statuses, sorted by name.
func (r *Registry) AllStatus() []CollectorStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]CollectorStatus, 0, len(r.statuses))
	for _, s := range r.statuses {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// RecordFetch folds a refresh-controller fetch into the status of the
// collector named by rep.Source. Superseded fetches are not counted: their
// outcome never reached the dashboard.
func (r *Registry) RecordFetch(rep dashboard.FetchReport) {
	if rep.Superseded {
		return
	}
	r.record(rep.Source, rep.Started.Add(rep.Latency), rep.Latency, rep.Err)
}

// record applies one collection outcome to the named status entry.
func (r *Registry) record(name string, at time.Time, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.statuses[name]
	if !ok {
		return
	}
	s.RunCount++
	s.LastRun = at
	s.LastLatency = latency
	s.LastError = err
	s.Healthy = err == nil
	if err != nil {
		s.ErrorCount++
	}
}
