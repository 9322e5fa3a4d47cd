// Package metrics exposes Prometheus metrics for the refresh controller and
// a small HTTP server serving /metrics and /healthz.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

const namespace = "vision"

// Fetch status label values.
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusSuperseded = "superseded"
	StatusCanceled   = "canceled"
)

// Metrics holds the collectors registered for one process. It implements
// dashboard.Recorder.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	LastSuccess   *prometheus.GaugeVec
	Phase         *prometheus.GaugeVec
	NewsItems     prometheus.Gauge
}

// New registers the metrics with reg. Pass prometheus.NewRegistry() in tests
// to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Total number of briefing fetches",
			},
			[]string{"source", "trigger", "status"},
		),
		FetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of briefing fetches in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
			},
			[]string{"source"},
		),
		LastSuccess: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful fetch",
			},
			[]string{"source"},
		),
		Phase: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dashboard_phase",
				Help:      "Current refresh phase (1 for the active phase, 0 otherwise)",
			},
			[]string{"phase"},
		),
		NewsItems: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "news_items",
				Help:      "Number of headlines currently displayed",
			},
		),
	}
}

// RecordFetch implements dashboard.Recorder.
func (m *Metrics) RecordFetch(r dashboard.FetchReport) {
	status := fetchStatus(r)
	m.FetchTotal.WithLabelValues(r.Source, r.Trigger.String(), status).Inc()
	if status == StatusSuperseded || status == StatusCanceled {
		return
	}
	m.FetchDuration.WithLabelValues(r.Source).Observe(r.Latency.Seconds())
	if status == StatusOK {
		m.LastSuccess.WithLabelValues(r.Source).Set(float64(r.Started.Add(r.Latency).Unix()))
	}
}

// ObserveState updates the phase and headline gauges from a snapshot.
func (m *Metrics) ObserveState(s dashboard.State) {
	for _, p := range []dashboard.Phase{
		dashboard.PhaseUninitialized,
		dashboard.PhaseLoading,
		dashboard.PhaseReady,
		dashboard.PhaseRefreshing,
		dashboard.PhaseError,
	} {
		v := 0.0
		if p == s.Phase {
			v = 1
		}
		m.Phase.WithLabelValues(p.String()).Set(v)
	}
	m.NewsItems.Set(float64(len(s.News)))
}

func fetchStatus(r dashboard.FetchReport) string {
	switch {
	case r.Superseded:
		return StatusSuperseded
	case r.Err == nil:
		return StatusOK
	case errors.Is(r.Err, context.Canceled):
		return StatusCanceled
	default:
		return StatusError
	}
}
