package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema signals a malformed or empty feature definition.
	ErrSchema = errors.New("invalid feature schema")
	// ErrInference signals a feature-vector/model mismatch or an artifact failure.
	ErrInference = errors.New("inference failed")
	// ErrDomain signals a probability outside [0, 1].
	ErrDomain = errors.New("probability out of range")
	// ErrInvalidInput signals a caller-supplied value the pipeline cannot accept.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing artifact.
	ErrNotFound = errors.New("not found")
)

// SchemaError wraps ErrSchema with the offending feature names.
type SchemaError struct {
	Reason   string
	Features []string
}

func (e *SchemaError) Error() string {
	if len(e.Features) == 0 {
		return fmt.Sprintf("%s: %s", ErrSchema.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), e.Reason, strings.Join(e.Features, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NewSchemaError creates a schema error.
func NewSchemaError(reason string, features ...string) error {
	return &SchemaError{Reason: reason, Features: features}
}

// InferenceError wraps ErrInference with the features that did not line up
// with the schema, or with the artifact failure that aborted the request.
type InferenceError struct {
	Missing []string
	Extra   []string
	Err     error
}

func (e *InferenceError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInference.Error())
	if len(e.Missing) > 0 {
		b.WriteString(": missing features: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		b.WriteString(": unexpected features: ")
		b.WriteString(strings.Join(e.Extra, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *InferenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInference}
	}
	return []error{ErrInference, e.Err}
}

// NewInferenceError wraps an artifact failure.
func NewInferenceError(err error) error {
	return &InferenceError{Err: err}
}

// NewFeatureMismatch reports missing and unexpected features.
func NewFeatureMismatch(missing, extra []string) error {
	return &InferenceError{Missing: missing, Extra: extra}
}

// DomainError wraps ErrDomain with the out-of-range probability.
type DomainError struct {
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDomain.Error(), e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// NewDomainError creates a probability range error.
func NewDomainError(p float64) error {
	return &DomainError{Value: p}
}
