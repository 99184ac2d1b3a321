package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// httpRequestDuration and httpRequestsTotal carry a "spec" label alongside
// method/path/status, matching the per-spec labeling that
// RegisterExtractionMetrics' vectors (AggregatesFittedTotal, FitDuration,
// ...) use for the same routes. A request against /settings/{name} is
// tagged with that name; requests that don't name a spec (/healthz,
// /settings) get "-".
var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "featureflow",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status", "spec"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "featureflow",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status", "spec"},
	)
)

// registerHTTPMetrics is called from RegisterExtractionMetrics so the HTTP
// vectors register alongside the rest of the package's metrics instead of
// through a competing init().
func registerHTTPMetrics() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records HTTP request duration and count, labeled by the
// {name} spec the request addressed, if any.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.status)

			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			path := normalizePath(routePattern)
			method := r.Method
			spec := specLabel(r)

			httpRequestDuration.WithLabelValues(method, path, status, spec).Observe(duration)
			httpRequestsTotal.WithLabelValues(method, path, status, spec).Inc()
		})
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}

// specLabel returns the spec name a request addressed via the chi
// {name} route parameter, or "-" for routes that don't name one.
func specLabel(r *http.Request) string {
	if name := chi.URLParam(r, "name"); name != "" {
		return name
	}
	return "-"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}
