package lexiscreen

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	screenings *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexiscreen",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by type and outcome (ok or the error kind).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lexiscreen",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		screenings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexiscreen",
			Subsystem: "sdk",
			Name:      "screenings_total",
			Help:      "Completed in-process screenings by risk level.",
		}, []string{"risk_level"}),
	}
	for _, c := range []**prometheus.CounterVec{&m.operations, &m.screenings} {
		if err := registerOrReuse(reg, c); err != nil {
			return nil, err
		}
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("lexiscreen: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("lexiscreen: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// observe records one operation. Failures are labelled with the screening
// error kind so callers can tell bad input from a broken model.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	status := "ok"
	if err != nil {
		status = screeninguc.Kind(err)
	}
	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil && err != nil {
		o.logger.Warn("operation failed",
			"op", op,
			"kind", status,
			"duration", dur,
			"error", err,
		)
	}
}

// screened records a completed screening by risk level.
func (o *observer) screened(res Result) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.screenings.WithLabelValues(res.RiskLevel).Inc()
	}
	if o.logger != nil {
		attrs := []any{
			"screening_id", res.ID,
			"risk_level", res.RiskLevel,
			"predicted_class", res.PredictedClass,
			"probability", res.Probability,
		}
		if len(res.TopFeatures) > 0 {
			attrs = append(attrs, "top_feature", res.TopFeatures[0].Feature)
		}
		o.logger.Debug("screening completed", attrs...)
	}
}
