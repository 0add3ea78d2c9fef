package inference

import "context"

// Model is the opaque trained classifier. Rows are passed in schema order.
type Model interface {
	// Predict returns the class label for a single row.
	Predict(ctx context.Context, row []float64) (int, error)
	// PredictProba returns per-class probabilities in Classes() order.
	PredictProba(ctx context.Context, row []float64) ([]float64, error)
	// Classes returns the class labels in probability order.
	Classes() []int
	// FeatureImportances returns one non-negative score per schema feature, in schema order.
	FeatureImportances() []float64
}
