package lexiscreen

import "time"

// Risk tiers.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// Input is one subject's screening request.
type Input struct {
	// Overrides are explicit feature values keyed by feature name.
	Overrides map[string]float64
	// UseDefaults fills features without an override with their typical
	// value; otherwise they take 10 for Age and 0 for everything else.
	UseDefaults bool
	// TopK is the number of influential features to list. 0 selects the default.
	TopK int
}

// Result is the outcome of one screening.
type Result struct {
	ID             string
	Timestamp      time.Time
	Age            float64
	PredictedClass int // 1 = dyslexia, 0 = no dyslexia
	Probability    float64
	RiskLevel      string
	Alert          string
	Interpretation string
	TopFeatures    []FeatureImportance
}

// FeatureImportance is one feature's share of the model's total importance.
type FeatureImportance struct {
	Feature string
	Score   float64
}

// Feature describes one model input.
type Feature struct {
	Name string
	// Typical is the training-set typical value, if recorded.
	Typical *float64
	// Default is the value used when the feature is not overridden and defaults are on.
	Default float64
}
