package screening

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/domain/risk"
	"github.com/kailas-cloud/lexiscreen/internal/logger"
	"github.com/kailas-cloud/lexiscreen/internal/metrics"
)

// Top-K limits applied when none are configured.
const (
	DefaultTopK    = 5
	DefaultMaxTopK = 50
)

// Request is one subject's screening input.
type Request struct {
	Overrides   map[string]float64
	UseDefaults bool
	TopK        int // 0 selects the configured default
}

// Service runs the full screening pipeline: assemble, infer, classify, rank, build.
type Service struct {
	assembler   Assembler
	inferer     Inferer
	ranker      Ranker
	now         func() time.Time
	defaultTopK int
	maxTopK     int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTopK sets the default and maximum number of influential features per report.
func WithTopK(defaultK, maxK int) Option {
	return func(s *Service) {
		if defaultK > 0 {
			s.defaultTopK = defaultK
		}
		if maxK > 0 {
			s.maxTopK = maxK
		}
	}
}

// New creates a screening service.
func New(a Assembler, i Inferer, r Ranker, opts ...Option) *Service {
	s := &Service{
		assembler:   a,
		inferer:     i,
		ranker:      r,
		now:         time.Now,
		defaultTopK: DefaultTopK,
		maxTopK:     DefaultMaxTopK,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Screen runs one screening. Any stage failure aborts with no report.
func (s *Service) Screen(ctx context.Context, req Request) (report.Report, error) {
	start := time.Now()
	rep, err := s.screen(ctx, req)
	log := logger.FromContext(ctx)
	if err != nil {
		kind := Kind(err)
		metrics.ScreeningErrorsTotal.WithLabelValues(kind).Inc()
		log.Warn("Screening aborted",
			zap.String("kind", kind),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return report.Report{}, err
	}

	metrics.ScreeningsTotal.WithLabelValues(rep.Tier().String()).Inc()
	log.Info("Screening completed",
		zap.String("screening_id", rep.ID()),
		zap.Float64("age", rep.Age()),
		zap.Int("predicted_class", rep.PredictedClass()),
		zap.Float64("probability", rep.Probability()),
		zap.String("tier", rep.Tier().String()),
		zap.Int("overrides", len(req.Overrides)),
		zap.Bool("use_defaults", req.UseDefaults),
		zap.Duration("duration", time.Since(start)),
	)
	return rep, nil
}

func (s *Service) screen(ctx context.Context, req Request) (report.Report, error) {
	k, err := s.topK(req.TopK)
	if err != nil {
		return report.Report{}, err
	}

	vector, err := s.assembler.Assemble(req.Overrides, req.UseDefaults)
	if err != nil {
		return report.Report{}, fmt.Errorf("assemble: %w", err)
	}

	pred, err := s.inferer.Infer(ctx, vector)
	if err != nil {
		return report.Report{}, fmt.Errorf("infer: %w", err)
	}

	tier, err := risk.Classify(pred.Probability())
	if err != nil {
		return report.Report{}, fmt.Errorf("classify: %w", err)
	}

	top, err := s.ranker.TopFeatures(k)
	if err != nil {
		return report.Report{}, fmt.Errorf("rank: %w", err)
	}

	return report.Build(vector, pred, tier, top, s.now)
}

func (s *Service) topK(k int) (int, error) {
	if k == 0 {
		return s.defaultTopK, nil
	}
	if k < 0 || k > s.maxTopK {
		return 0, fmt.Errorf("%w: top_k must be within 1..%d, got %d", domain.ErrInvalidInput, s.maxTopK, k)
	}
	return k, nil
}

// Kind classifies a screening error for metrics and logs.
func Kind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrSchema):
		return "schema"
	// Inference wraps out-of-range probabilities, so check it before domain.
	case errors.Is(err, domain.ErrInference):
		return "inference"
	case errors.Is(err, domain.ErrDomain):
		return "domain"
	default:
		return "internal"
	}
}
