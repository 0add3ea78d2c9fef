package prediction

import (
	"fmt"
	"math"
)

// Result is the classifier output for one feature vector (immutable value object).
type Result struct {
	class       int
	probability float64
}

// New validates and creates a Result.
// class must be 0 or 1, probability must be within [0, 1].
func New(class int, probability float64) (Result, error) {
	if class != 0 && class != 1 {
		return Result{}, fmt.Errorf("predicted class must be 0 or 1, got %d", class)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return Result{}, fmt.Errorf("probability must be within [0, 1], got %v", probability)
	}
	return Result{class: class, probability: probability}, nil
}

// Class returns the predicted class (1 = dyslexia, 0 = no dyslexia).
func (r Result) Class() int { return r.class }

// Probability returns the positive-class probability.
func (r Result) Probability() float64 { return r.probability }

// Positive reports whether the predicted class is the dyslexia class.
func (r Result) Positive() bool { return r.class == 1 }
