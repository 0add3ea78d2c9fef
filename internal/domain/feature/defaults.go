package feature

import (
	"maps"
	"math"
	"slices"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

// Fallback values used when neither an override nor a typical value is available.
const (
	FallbackValue    = 0.0
	FallbackAgeValue = 10.0
)

// Defaults maps feature names to typical values observed in training data.
// Entries are optional per feature.
type Defaults struct {
	values map[string]float64
}

// NewDefaults validates and creates Defaults. Every value must be finite.
func NewDefaults(values map[string]float64) (Defaults, error) {
	var bad []string
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		slices.Sort(bad)
		return Defaults{}, domain.NewSchemaError("non-finite default values", bad...)
	}
	return Defaults{values: maps.Clone(values)}, nil
}

// Typical returns the recorded typical value for name, if any.
func (d Defaults) Typical(name string) (float64, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Value returns the typical value for name, falling back to Fallback(name).
func (d Defaults) Value(name string) float64 {
	if v, ok := d.values[name]; ok {
		return v
	}
	return Fallback(name)
}

// Len returns the number of recorded typical values.
func (d Defaults) Len() int { return len(d.values) }

// Fallback is the value a feature takes when no typical value is used:
// 10.0 for Age, 0.0 otherwise.
func Fallback(name string) float64 {
	if name == Age {
		return FallbackAgeValue
	}
	return FallbackValue
}
