// Package metrics provides Prometheus instrumentation for formbus.
//
// Wire it up once in the HTTP kernel:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
//
// Then scrape http://localhost:8080/metrics from Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request latency by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "formbus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// FormsBuilt counts form builds by form id.
	FormsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "forms",
			Name:      "built_total",
			Help:      "Total forms built, by form id.",
		},
		[]string{"form_id"},
	)

	// AlterDispatchDuration tracks how long one alter fan-out takes.
	AlterDispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "formbus",
			Subsystem: "alter",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of one form-alter dispatch across all listeners.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"form_id"},
	)

	// AlterDispatchErrors counts dispatches aborted by a listener error.
	AlterDispatchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "alter",
			Name:      "dispatch_errors_total",
			Help:      "Alter dispatches aborted by a listener error.",
		},
		[]string{"form_id"},
	)

	// SubmissionsProcessed counts form submissions by form id and outcome.
	SubmissionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Form submissions processed.",
		},
		[]string{"form_id", "status"}, // "ok" | "invalid" | "error"
	)

	// CacheHits / CacheMisses track built-form cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "formcache",
			Name:      "hits_total",
			Help:      "Built-form cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formbus",
			Subsystem: "formcache",
			Name:      "misses_total",
			Help:      "Built-form cache misses.",
		},
		[]string{"driver"},
	)
)

// DefaultRegistry is the Prometheus registry used by formbus.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		FormsBuilt,
		AlterDispatchDuration,
		AlterDispatchErrors,
		SubmissionsProcessed,
		CacheHits,
		CacheMisses,
	)
}

// Register adds your own prometheus.Collector to the formbus registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ObserveDispatch records one alter dispatch.
func ObserveDispatch(formID string, start time.Time, err error) {
	AlterDispatchDuration.WithLabelValues(formID).Observe(time.Since(start).Seconds())
	if err != nil {
		AlterDispatchErrors.WithLabelValues(formID).Inc()
	}
}

// ─── HTTP middleware ──────────────────────────────────────────────────────────

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration and totals for every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler returns an http.HandlerFunc exposing the Prometheus metrics page.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
