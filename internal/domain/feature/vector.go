package feature

import "slices"

// Vector is a complete, ordered set of feature values ready for inference.
type Vector struct {
	names  []string
	values []float64
}

// NewVector creates a Vector over the schema's names. values must be in schema order.
func NewVector(s Schema, values []float64) Vector {
	return Vector{names: s.Names(), values: slices.Clone(values)}
}

// Reconstruct creates a Vector from parallel name/value slices without validation.
func Reconstruct(names []string, values []float64) Vector {
	return Vector{names: slices.Clone(names), values: slices.Clone(values)}
}

// Names returns the feature names in vector order.
func (v Vector) Names() []string { return slices.Clone(v.names) }

// Values returns the feature values in vector order.
func (v Vector) Values() []float64 { return slices.Clone(v.values) }

// Len returns the number of features.
func (v Vector) Len() int { return len(v.names) }

// Get returns the value of the named feature.
func (v Vector) Get(name string) (float64, bool) {
	i := slices.Index(v.names, name)
	if i < 0 {
		return 0, false
	}
	return v.values[i], true
}

// Map returns the vector as a name → value map.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.names))
	for i, n := range v.names {
		m[n] = v.values[i]
	}
	return m
}

// Diff compares the vector's names with the schema and returns the schema
// features it lacks and the features it has that the schema does not.
// Both are empty when the vector matches the schema exactly.
func (v Vector) Diff(s Schema) (missing, extra []string) {
	seen := make(map[string]bool, len(v.names))
	for _, n := range v.names {
		if !s.Has(n) || seen[n] {
			extra = append(extra, n)
		}
		seen[n] = true
	}
	for _, n := range s.names {
		if !seen[n] {
			missing = append(missing, n)
		}
	}
	return missing, extra
}

// Ordered returns the values rearranged into schema order.
// The caller must check Diff first.
func (v Vector) Ordered(s Schema) []float64 {
	row := make([]float64, s.Len())
	for i, n := range v.names {
		if pos, ok := s.Position(n); ok {
			row[pos] = v.values[i]
		}
	}
	return row
}
