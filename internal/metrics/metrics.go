// Package metrics provides Prometheus instrumentation for the projection engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProjectionsTotal counts computed (non-cached) projections by fee model.
	ProjectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invcalc_projections_total",
		Help: "Total number of projections computed",
	}, []string{"fee_model"})

	// ProjectionDuration tracks how long a single projection takes.
	ProjectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invcalc_projection_duration_seconds",
		Help:    "Projection computation time in seconds",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	// CacheLookups counts memo cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invcalc_projection_cache_lookups_total",
		Help: "Projection cache lookups by result",
	}, []string{"result"})

	// RejectedEntries counts extra contributions left out, by reason.
	RejectedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invcalc_rejected_entries_total",
		Help: "Extra contribution entries rejected by the scheduler",
	}, []string{"reason"})

	// ScenarioRuns counts complete multi-scenario runs.
	ScenarioRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invcalc_scenario_runs_total",
		Help: "Completed scenario comparison runs",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invcalc_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invcalc_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
