package inference

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/prediction"
)

// DefaultPositiveLabel is the class label the model was trained to use for dyslexia.
const DefaultPositiveLabel = 1

// Service runs the classifier on a single feature vector.
type Service struct {
	model         Model
	schema        feature.Schema
	positiveLabel int
	positiveIdx   int
	numClasses    int
}

// New creates an inference service. The position of the positive class in the
// model's probability output is resolved from its class labels, not assumed.
func New(model Model, schema feature.Schema, positiveLabel int) (*Service, error) {
	classes := model.Classes()
	idx := slices.Index(classes, positiveLabel)
	if idx < 0 {
		return nil, domain.NewInferenceError(
			fmt.Errorf("positive label %d not among model classes %v", positiveLabel, classes),
		)
	}
	return &Service{
		model:         model,
		schema:        schema,
		positiveLabel: positiveLabel,
		positiveIdx:   idx,
		numClasses:    len(classes),
	}, nil
}

// Infer classifies one vector and extracts the positive-class probability.
// The vector must hold exactly the schema's features; any mismatch or model
// failure aborts with an InferenceError and no partial result.
func (s *Service) Infer(ctx context.Context, v feature.Vector) (prediction.Result, error) {
	missing, extra := v.Diff(s.schema)
	if len(missing) > 0 || len(extra) > 0 {
		return prediction.Result{}, domain.NewFeatureMismatch(missing, extra)
	}
	row := v.Ordered(s.schema)

	label, err := s.model.Predict(ctx, row)
	if err != nil {
		return prediction.Result{}, domain.NewInferenceError(fmt.Errorf("predict: %w", err))
	}

	probs, err := s.model.PredictProba(ctx, row)
	if err != nil {
		return prediction.Result{}, domain.NewInferenceError(fmt.Errorf("predict proba: %w", err))
	}
	if len(probs) != s.numClasses {
		return prediction.Result{}, domain.NewInferenceError(
			fmt.Errorf("model returned %d probabilities for %d classes", len(probs), s.numClasses),
		)
	}

	p := probs[s.positiveIdx]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return prediction.Result{}, domain.NewInferenceError(domain.NewDomainError(p))
	}

	class := 0
	if label == s.positiveLabel {
		class = 1
	}

	res, err := prediction.New(class, p)
	if err != nil {
		return prediction.Result{}, domain.NewInferenceError(err)
	}
	return res, nil
}

// HealthCheck runs the model once on the fallback vector.
func (s *Service) HealthCheck(ctx context.Context) error {
	values := make([]float64, s.schema.Len())
	for i := range values {
		values[i] = feature.Fallback(s.schema.At(i))
	}
	_, err := s.Infer(ctx, feature.NewVector(s.schema, values))
	return err
}
