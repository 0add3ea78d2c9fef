package prediction

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	r, err := New(1, 0.72)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Class() != 1 || !r.Positive() {
		t.Errorf("Class() = %d, Positive() = %v", r.Class(), r.Positive())
	}
	if r.Probability() != 0.72 {
		t.Errorf("Probability() = %v", r.Probability())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		class int
		p     float64
	}{
		{"class 2", 2, 0.5},
		{"negative class", -1, 0.5},
		{"probability above one", 0, 1.01},
		{"negative probability", 0, -0.01},
		{"NaN", 0, math.NaN()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.class, tc.p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_Bounds(t *testing.T) {
	for _, p := range []float64{0, 1} {
		if _, err := New(0, p); err != nil {
			t.Errorf("New(0, %v) unexpected error: %v", p, err)
		}
	}
}
