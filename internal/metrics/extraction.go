// Package metrics defines the Prometheus instrumentation surface (§ AMBIENT
// STACK): extraction counters/histograms plus the HTTP middleware used by
// the settings service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Extraction Prometheus metrics.
var (
	AggregatesFittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "featureflow",
			Name:      "aggregates_fitted_total",
			Help:      "Total number of spec aggregates fitted from a dataset",
		},
		[]string{"spec", "result"}, // result: "ok" / "empty" / "error"
	)

	FitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "featureflow",
			Name:      "fit_duration_seconds",
			Help:      "Time spent reducing a dataset into a fitted aggregate",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"spec"},
	)

	FeatureDimension = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "featureflow",
			Name:      "feature_dimension",
			Help:      "Fitted output width of a spec's feature vector",
		},
		[]string{"spec"},
	)

	EmitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "featureflow",
			Name:      "emit_duration_seconds",
			Help:      "Time spent assembling feature values for one record",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"spec"},
	)

	SettingsStoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "featureflow",
			Name:      "settings_store_requests_total",
			Help:      "Total settings store operations",
		},
		[]string{"op", "status"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "featureflow",
			Name:      "embedding_requests_total",
			Help:      "Total embedding provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "featureflow",
			Name:      "embedding_request_duration_seconds",
			Help:      "Latency of embedding provider requests",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "model"},
	)
)

var extractionMetricsRegistered bool

// RegisterExtractionMetrics registers Prometheus extraction metrics. Must
// be called once from main.
func RegisterExtractionMetrics() {
	if extractionMetricsRegistered {
		return
	}
	prometheus.MustRegister(AggregatesFittedTotal)
	prometheus.MustRegister(FitDuration)
	prometheus.MustRegister(FeatureDimension)
	prometheus.MustRegister(EmitDuration)
	prometheus.MustRegister(SettingsStoreRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	registerHTTPMetrics()
	extractionMetricsRegistered = true
}
