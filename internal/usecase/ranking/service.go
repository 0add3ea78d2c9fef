package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
)

// ImportanceSource exposes the model's global per-feature importance scores.
type ImportanceSource interface {
	FeatureImportances() []float64
}

// Service ranks the model's global feature importances.
// The ranking is computed once; it does not depend on any feature vector.
type Service struct {
	ranked []importance.Entry
}

// New pairs each schema feature with its importance score and ranks them by
// score descending. Equal scores keep schema order.
func New(src ImportanceSource, schema feature.Schema) (*Service, error) {
	scores := src.FeatureImportances()
	if len(scores) != schema.Len() {
		return nil, domain.NewInferenceError(fmt.Errorf(
			"model has %d importance scores for %d schema features", len(scores), schema.Len(),
		))
	}

	entries := make([]importance.Entry, len(scores))
	for i, score := range scores {
		name := schema.At(i)
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
			return nil, domain.NewInferenceError(fmt.Errorf("invalid importance %v for feature %q", score, name))
		}
		entries[i] = importance.New(name, score)
	}

	slices.SortStableFunc(entries, func(a, b importance.Entry) int {
		return cmp.Compare(b.Score(), a.Score())
	})

	return &Service{ranked: entries}, nil
}

// TopFeatures returns the k highest-scoring features (fewer if the schema is smaller).
func (s *Service) TopFeatures(k int) ([]importance.Entry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	return slices.Clone(s.ranked[:min(k, len(s.ranked))]), nil
}

// All returns the full ranking.
func (s *Service) All() []importance.Entry {
	return slices.Clone(s.ranked)
}

// Total returns the sum of all importance scores.
func (s *Service) Total() float64 {
	var total float64
	for _, e := range s.ranked {
		total += e.Score()
	}
	return total
}
