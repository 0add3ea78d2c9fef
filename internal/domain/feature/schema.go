package feature

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

// Age is the name of the age feature. It has its own fallback default and an
// optional plausible range.
const Age = "Age"

// Schema is the ordered set of feature names the model was trained on (immutable value object).
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema validates and creates a Schema.
// Names must be non-empty, non-blank and unique. Order is preserved.
func NewSchema(names []string) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, domain.NewSchemaError("no features defined")
	}

	index := make(map[string]int, len(names))
	var blank, dups []string
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			blank = append(blank, "#"+strconv.Itoa(i))
			continue
		}
		if _, ok := index[n]; ok {
			if !slices.Contains(dups, n) {
				dups = append(dups, n)
			}
			continue
		}
		index[n] = i
	}
	if len(blank) > 0 {
		return Schema{}, domain.NewSchemaError("blank feature names at positions", blank...)
	}
	if len(dups) > 0 {
		return Schema{}, domain.NewSchemaError("duplicate feature names", dups...)
	}

	return Schema{names: slices.Clone(names), index: index}, nil
}

// Names returns a copy of the feature names in schema order.
func (s Schema) Names() []string { return slices.Clone(s.names) }

// Len returns the number of features.
func (s Schema) Len() int { return len(s.names) }

// Has reports whether name is part of the schema.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Position returns the zero-based position of name in the schema.
func (s Schema) Position(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// At returns the feature name at position i.
func (s Schema) At(i int) string { return s.names[i] }

// Equal reports whether other lists the same names in the same order.
func (s Schema) Equal(other []string) bool {
	return slices.Equal(s.names, other)
}
