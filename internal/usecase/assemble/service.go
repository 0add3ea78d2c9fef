package assemble

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
)

// Default plausible age range, enforced only when configured.
const (
	DefaultAgeMin = 5.0
	DefaultAgeMax = 18.0
)

// Service merges caller overrides with schema defaults into a complete feature vector.
type Service struct {
	schema   feature.Schema
	defaults feature.Defaults
	clampAge bool
	ageMin   float64
	ageMax   float64
}

// New creates an assembler over a loaded schema and its typical values.
func New(schema feature.Schema, defaults feature.Defaults) *Service {
	return &Service{
		schema:   schema,
		defaults: defaults,
		ageMin:   DefaultAgeMin,
		ageMax:   DefaultAgeMax,
	}
}

// WithAgeRange enables clamping of the age feature to [minAge, maxAge].
func (s *Service) WithAgeRange(minAge, maxAge float64) *Service {
	s.clampAge = true
	s.ageMin = minAge
	s.ageMax = maxAge
	return s
}

// Assemble builds a vector with exactly the schema's features, in schema order.
// For each feature: the override if present; else the typical value when
// useDefaults is set; else the fallback (0.0, or 10.0 for age).
// Overrides naming unknown features or carrying non-finite values are rejected.
func (s *Service) Assemble(overrides map[string]float64, useDefaults bool) (feature.Vector, error) {
	if err := s.validate(overrides); err != nil {
		return feature.Vector{}, err
	}

	values := make([]float64, s.schema.Len())
	for i := range s.schema.Len() {
		name := s.schema.At(i)
		v, ok := overrides[name]
		switch {
		case ok:
		case useDefaults:
			v = s.defaults.Value(name)
		default:
			v = feature.Fallback(name)
		}
		if name == feature.Age && s.clampAge {
			v = min(max(v, s.ageMin), s.ageMax)
		}
		values[i] = v
	}

	return feature.NewVector(s.schema, values), nil
}

// Schema returns the schema the assembler was built over.
func (s *Service) Schema() feature.Schema { return s.schema }

// Defaults returns the typical values the assembler falls back to.
func (s *Service) Defaults() feature.Defaults { return s.defaults }

func (s *Service) validate(overrides map[string]float64) error {
	var unknown, nonFinite []string
	for name, v := range overrides {
		if !s.schema.Has(name) {
			unknown = append(unknown, name)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite = append(nonFinite, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: unknown features: %s", domain.ErrInvalidInput, strings.Join(unknown, ", "))
	}
	if len(nonFinite) > 0 {
		slices.Sort(nonFinite)
		return fmt.Errorf("%w: non-finite values for: %s", domain.ErrInvalidInput, strings.Join(nonFinite, ", "))
	}
	return nil
}
