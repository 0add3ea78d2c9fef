package inference

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/prediction"
	"github.com/kailas-cloud/lexiscreen/internal/metrics"
)

// Inferer runs inference for one feature vector.
type Inferer interface {
	Infer(ctx context.Context, v feature.Vector) (prediction.Result, error)
}

// Instrumented wraps an Inferer with duration metrics and logging.
type Instrumented struct {
	inner  Inferer
	model  string
	logger *zap.Logger
}

// NewInstrumented wraps inner. model labels the metrics (e.g. "xgboost").
func NewInstrumented(inner Inferer, model string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, model: model, logger: logger}
}

// Infer delegates to the inner service and records the outcome.
func (i *Instrumented) Infer(ctx context.Context, v feature.Vector) (prediction.Result, error) {
	start := time.Now()
	res, err := i.inner.Infer(ctx, v)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.InferenceDuration.WithLabelValues(i.model, status).Observe(duration.Seconds())

	if err != nil {
		i.logger.Error("Inference failed",
			zap.String("model", i.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return prediction.Result{}, err
	}

	i.logger.Debug("Inference completed",
		zap.String("model", i.model),
		zap.Duration("duration", duration),
		zap.Int("predicted_class", res.Class()),
		zap.Float64("probability", res.Probability()),
	)
	return res, nil
}
