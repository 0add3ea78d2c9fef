package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/prediction"
	"github.com/kailas-cloud/lexiscreen/internal/domain/risk"
)

// Report is the outcome of one screening (immutable value object).
// It is owned by the caller for the duration of export and never stored.
type Report struct {
	id          string
	timestamp   time.Time
	age         float64
	class       int
	probability float64
	tier        risk.Tier
	top         []importance.Entry
}

// Build assembles a Report. now is read exactly once; the timestamp is stored
// in UTC at second resolution so every export of the report agrees on it.
func Build(
	vector feature.Vector,
	pred prediction.Result,
	tier risk.Tier,
	top []importance.Entry,
	now func() time.Time,
) (Report, error) {
	age, ok := vector.Get(feature.Age)
	if !ok {
		return Report{}, domain.NewSchemaError("feature vector has no age feature", feature.Age)
	}
	if !tier.IsValid() {
		return Report{}, fmt.Errorf("%w: unknown risk tier %q", domain.ErrInvalidInput, tier)
	}

	return Report{
		id:          uuid.NewString(),
		timestamp:   now().UTC().Truncate(time.Second),
		age:         age,
		class:       pred.Class(),
		probability: pred.Probability(),
		tier:        tier,
		top:         slices.Clone(top),
	}, nil
}

// Reconstruct creates a Report without validation (export decoding).
func Reconstruct(
	id string, timestamp time.Time, age float64, class int,
	probability float64, tier risk.Tier, top []importance.Entry,
) Report {
	return Report{
		id:          id,
		timestamp:   timestamp,
		age:         age,
		class:       class,
		probability: probability,
		tier:        tier,
		top:         slices.Clone(top),
	}
}

// ID returns the report identifier.
func (r Report) ID() string { return r.id }

// Timestamp returns the build time (UTC).
func (r Report) Timestamp() time.Time { return r.timestamp }

// Age returns the subject's age as fed to the model.
func (r Report) Age() float64 { return r.age }

// PredictedClass returns 1 for dyslexia, 0 otherwise.
func (r Report) PredictedClass() int { return r.class }

// Probability returns the dyslexia probability, unrounded.
func (r Report) Probability() float64 { return r.probability }

// Tier returns the risk tier.
func (r Report) Tier() risk.Tier { return r.tier }

// TopFeatures returns the most influential features, highest score first.
func (r Report) TopFeatures() []importance.Entry { return slices.Clone(r.top) }

// Alert returns the one-line banner for the predicted class.
func (r Report) Alert() string {
	if r.class == 1 {
		return "Possible dyslexia risk detected."
	}
	return "Low dyslexia risk."
}
