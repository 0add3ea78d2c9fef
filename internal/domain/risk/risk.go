package risk

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

// Tier is a qualitative risk band derived from the positive-class probability.
type Tier string

// Risk tier constants, in ascending order of risk.
const (
	Low      Tier = "Low"
	Moderate Tier = "Moderate"
	High     Tier = "High"
)

// Band lower bounds. Each band includes its lower bound.
const (
	ModerateThreshold = 0.30
	HighThreshold     = 0.60
)

// Classify maps a probability to its risk tier.
// p < 0.30 is Low, 0.30 <= p < 0.60 is Moderate, p >= 0.60 is High.
// NaN or values outside [0, 1] fail with a DomainError.
func Classify(p float64) (Tier, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return "", domain.NewDomainError(p)
	}
	switch {
	case p < ModerateThreshold:
		return Low, nil
	case p < HighThreshold:
		return Moderate, nil
	default:
		return High, nil
	}
}

// Parse converts a tier name back into a Tier.
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown risk level %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// IsValid checks if the tier is one of the three bands.
func (t Tier) IsValid() bool {
	return t == Low || t == Moderate || t == High
}

// String returns the tier name.
func (t Tier) String() string { return string(t) }

// Interpretation returns the human-readable paragraph shown for the tier.
func (t Tier) Interpretation() string {
	switch t {
	case Low:
		return "The screening model estimates a low likelihood of dyslexia for this student. " +
			"Task performance is broadly in line with peers who were not identified with dyslexia. " +
			"No follow-up is indicated by this screening alone, but continue to monitor reading " +
			"and spelling progress and rescreen if concerns arise."
	case Moderate:
		return "The screening model estimates a moderate likelihood of dyslexia for this student. " +
			"Some task results resemble patterns seen in students with dyslexia. Consider closer " +
			"observation of reading, spelling and phonological skills, and discuss the result with " +
			"the student's teacher or a learning specialist."
	case High:
		return "The screening model estimates a high likelihood of dyslexia for this student. " +
			"Several task results closely resemble patterns seen in students with dyslexia. A " +
			"referral for a comprehensive assessment by a qualified educational psychologist or " +
			"specialist is recommended."
	default:
		return ""
	}
}
