package screening

import (
	"context"

	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/prediction"
)

// Assembler builds a complete feature vector from caller overrides.
type Assembler interface {
	Assemble(overrides map[string]float64, useDefaults bool) (feature.Vector, error)
}

// Inferer runs the classifier on one vector.
type Inferer interface {
	Infer(ctx context.Context, v feature.Vector) (prediction.Result, error)
}

// Ranker returns the model's most influential features.
type Ranker interface {
	TopFeatures(k int) ([]importance.Entry, error)
}
