package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/vision-station/pkg/collectors"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// StateSource supplies the current dashboard snapshot.
type StateSource interface {
	State() dashboard.State
}

// StatusSource supplies collector runtime status.
type StatusSource interface {
	AllStatus() []collectors.CollectorStatus
}

// Health is the /healthz response body.
type Health struct {
	Status      string            `json:"status"`
	Phase       string            `json:"phase"`
	LastUpdated string            `json:"last_updated"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
	Error       string            `json:"error,omitempty"`
	NewsItems   int               `json:"news_items"`
	Collectors  []CollectorHealth `json:"collectors"`
}

// CollectorHealth is one collector entry in Health.
type CollectorHealth struct {
	Name        string    `json:"name"`
	Healthy     bool      `json:"healthy"`
	RunCount    int64     `json:"run_count"`
	ErrorCount  int64     `json:"error_count"`
	LastRun     time.Time `json:"last_run,omitzero"`
	LastLatency string    `json:"last_latency,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// BuildHealth assembles the health report. Status is "ok" unless the last
// fetch failed, in which case it is "degraded".
func BuildHealth(s dashboard.State, statuses []collectors.CollectorStatus) Health {
	h := Health{
		Status:      "ok",
		Phase:       s.Phase.String(),
		LastUpdated: s.LastUpdated,
		Error:       s.Error,
		NewsItems:   len(s.News),
		Collectors:  make([]CollectorHealth, 0, len(statuses)),
	}
	if s.Phase == dashboard.PhaseError {
		h.Status = "degraded"
	}
	if !s.UpdatedAt.IsZero() {
		at := s.UpdatedAt
		h.UpdatedAt = &at
	}
	for _, st := range statuses {
		ch := CollectorHealth{
			Name:       st.Name,
			Healthy:    st.Healthy,
			RunCount:   st.RunCount,
			ErrorCount: st.ErrorCount,
			LastRun:    st.LastRun,
		}
		if st.LastLatency > 0 {
			ch.LastLatency = st.LastLatency.String()
		}
		if st.LastError != nil {
			ch.LastError = st.LastError.Error()
		}
		h.Collectors = append(h.Collectors, ch)
	}
	return h
}

// HealthHandler serves BuildHealth as JSON. A degraded report is served
// with 503 so external probes notice an unreachable data source.
func HealthHandler(state StateSource, statuses StatusSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var st []collectors.CollectorStatus
		if statuses != nil {
			st = statuses.AllStatus()
		}
		h := BuildHealth(state.State(), st)

		w.Header().Set("Content-Type", "application/json")
		if h.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(h)
	})
}

// Server serves /metrics and /healthz.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// NewServer builds the HTTP server. gatherer is usually the registry passed
// to New.
func NewServer(addr string, gatherer prometheus.Gatherer, state StateSource, statuses StatusSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", HealthHandler(state, statuses))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logger.With("component", "metrics"),
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", s.srv.Addr, err)
	}
	s.log.Info("metrics server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics: shutdown: %w", err)
	}
	<-errCh
	return nil
}
