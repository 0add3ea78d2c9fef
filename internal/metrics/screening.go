package metrics

import "github.com/prometheus/client_golang/prometheus"

// Screening pipeline Prometheus metrics.
var (
	ScreeningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexiscreen",
			Name:      "screenings_total",
			Help:      "Completed screenings by risk tier",
		},
		[]string{"tier"},
	)

	ScreeningErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexiscreen",
			Name:      "screening_errors_total",
			Help:      "Aborted screenings by error kind",
		},
		[]string{"kind"}, // schema / inference / domain / invalid_input / internal
	)

	InferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexiscreen",
			Name:      "inference_duration_seconds",
			Help:      "Model inference duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"model", "status"},
	)

	ExportBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexiscreen",
			Name:      "export_bytes",
			Help:      "Size of produced report exports in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"format"}, // csv / pdf
	)
)

var screeningMetricsRegistered bool

// RegisterScreeningMetrics registers Prometheus screening metrics. Must be called once from main.
func RegisterScreeningMetrics() {
	if screeningMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScreeningsTotal)
	prometheus.MustRegister(ScreeningErrorsTotal)
	prometheus.MustRegister(InferenceDuration)
	prometheus.MustRegister(ExportBytes)
	screeningMetricsRegistered = true
}
