// Package xgboost evaluates gradient boosted tree classifiers saved in
// XGBoost's JSON model format (Booster.save_model("model.json")).
package xgboost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Supported objective and booster.
const (
	ObjectiveBinaryLogistic = "binary:logistic"
	BoosterGBTree           = "gbtree"
)

// Classes are the labels of a binary:logistic model, in probability order.
var classes = []int{0, 1}

// Model is a loaded, read-only tree ensemble. Safe for concurrent use.
type Model struct {
	trees        []tree
	baseMargin   float64
	numFeatures  int
	featureNames []string
	importances  []float64
}

type tree struct {
	left, right []int
	feature     []int
	threshold   []float64 // split condition, or the leaf value on leaves
	cond        []float32 // threshold as XGBoost compares it
	defaultLeft []bool
	gain        []float64
}

// Load parses an XGBoost JSON model.
func Load(data []byte) (*Model, error) {
	var f modelFile
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode xgboost model: %w", err)
	}

	l := f.Learner
	if l.Objective.Name != ObjectiveBinaryLogistic {
		return nil, fmt.Errorf("unsupported objective %q (want %s)", l.Objective.Name, ObjectiveBinaryLogistic)
	}
	if l.GradientBooster.Name != BoosterGBTree {
		return nil, fmt.Errorf("unsupported booster %q (want %s)", l.GradientBooster.Name, BoosterGBTree)
	}

	numFeatures, err := strconv.Atoi(l.LearnerModelParam.NumFeature)
	if err != nil || numFeatures <= 0 {
		return nil, fmt.Errorf("invalid num_feature %q", l.LearnerModelParam.NumFeature)
	}
	if len(l.FeatureNames) > 0 && len(l.FeatureNames) != numFeatures {
		return nil, fmt.Errorf("model lists %d feature names for %d features", len(l.FeatureNames), numFeatures)
	}

	baseScore, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}
	if baseScore <= 0 || baseScore >= 1 {
		return nil, fmt.Errorf("base_score %v must be within (0, 1) for %s", baseScore, ObjectiveBinaryLogistic)
	}

	trees := make([]tree, len(l.GradientBooster.Model.Trees))
	for i, tj := range l.GradientBooster.Model.Trees {
		t, err := tj.build(numFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = t
	}

	m := &Model{
		trees:        trees,
		baseMargin:   math.Log(baseScore / (1 - baseScore)),
		numFeatures:  numFeatures,
		featureNames: slices.Clone(l.FeatureNames),
	}
	m.importances = gainImportances(trees, numFeatures)
	return m, nil
}

// Predict returns 1 when the positive-class probability exceeds 0.5, else 0.
func (m *Model) Predict(ctx context.Context, row []float64) (int, error) {
	p, err := m.probability(ctx, row)
	if err != nil {
		return 0, err
	}
	if p > 0.5 {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns [P(class 0), P(class 1)].
func (m *Model) PredictProba(ctx context.Context, row []float64) ([]float64, error) {
	p, err := m.probability(ctx, row)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

// Classes returns the class labels in probability order.
func (m *Model) Classes() []int { return slices.Clone(classes) }

// FeatureImportances returns per-feature average split gain, normalized to sum to 1.
func (m *Model) FeatureImportances() []float64 { return slices.Clone(m.importances) }

// FeatureNames returns the training feature names recorded in the model, if any.
func (m *Model) FeatureNames() []string { return slices.Clone(m.featureNames) }

// NumFeatures returns the input width the model expects.
func (m *Model) NumFeatures() int { return m.numFeatures }

// NumTrees returns the ensemble size.
func (m *Model) NumTrees() int { return len(m.trees) }

func (m *Model) probability(ctx context.Context, row []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(row) != m.numFeatures {
		return 0, fmt.Errorf("row has %d values, model expects %d", len(row), m.numFeatures)
	}
	margin := m.baseMargin
	for i := range m.trees {
		margin += m.trees[i].leaf(row)
	}
	return sigmoid(margin), nil
}

// leaf walks the tree for row. NaN inputs follow the node's default direction.
func (t *tree) leaf(row []float64) float64 {
	n := 0
	for t.left[n] != -1 {
		x := row[t.feature[n]]
		switch {
		case math.IsNaN(x):
			if t.defaultLeft[n] {
				n = t.left[n]
			} else {
				n = t.right[n]
			}
		// XGBoost tests float32(fvalue) < float32(split_condition).
		case float32(x) < t.cond[n]:
			n = t.left[n]
		default:
			n = t.right[n]
		}
	}
	// Leaf values are stored in split_conditions.
	return t.threshold[n]
}

func gainImportances(trees []tree, numFeatures int) []float64 {
	total := make([]float64, numFeatures)
	count := make([]int, numFeatures)
	for _, t := range trees {
		for n := range t.left {
			if t.left[n] == -1 {
				continue
			}
			total[t.feature[n]] += t.gain[n]
			count[t.feature[n]]++
		}
	}

	out := make([]float64, numFeatures)
	var sum float64
	for i := range out {
		if count[i] > 0 {
			out[i] = total[i] / float64(count[i])
			sum += out[i]
		}
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// parseBaseScore accepts both "5E-1" and the bracketed "[5E-1]" form newer releases write.
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", s, err)
	}
	return v, nil
}
