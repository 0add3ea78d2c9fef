package lexiscreen

import "github.com/kailas-cloud/lexiscreen/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSchema       = domain.ErrSchema
	ErrInference    = domain.ErrInference
	ErrDomain       = domain.ErrDomain
	ErrInvalidInput = domain.ErrInvalidInput
	ErrNotFound     = domain.ErrNotFound
)
