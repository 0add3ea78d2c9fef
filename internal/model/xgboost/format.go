package xgboost

import (
	"bytes"
	"fmt"
	"math"
)

// modelFile mirrors the subset of the XGBoost JSON schema the evaluator needs.
type modelFile struct {
	Learner struct {
		FeatureNames    []string `json:"feature_names"`
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees []treeJSON `json:"trees"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
	Version []int `json:"version"`
}

type treeJSON struct {
	LeftChildren    []int      `json:"left_children"`
	RightChildren   []int      `json:"right_children"`
	SplitIndices    []int      `json:"split_indices"`
	SplitConditions []float64  `json:"split_conditions"`
	DefaultLeft     []flexBool `json:"default_left"`
	LossChanges     []float64  `json:"loss_changes"`
}

// flexBool decodes both JSON booleans and the 0/1 integers older releases write.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

func (tj treeJSON) build(numFeatures int) (tree, error) {
	n := len(tj.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("no nodes")
	}
	for name, l := range map[string]int{
		"right_children":   len(tj.RightChildren),
		"split_indices":    len(tj.SplitIndices),
		"split_conditions": len(tj.SplitConditions),
		"default_left":     len(tj.DefaultLeft),
	} {
		if l != n {
			return tree{}, fmt.Errorf("%s has %d entries, want %d", name, l, n)
		}
	}

	gain := tj.LossChanges
	if len(gain) == 0 {
		gain = make([]float64, n)
	} else if len(gain) != n {
		return tree{}, fmt.Errorf("loss_changes has %d entries, want %d", len(gain), n)
	}

	t := tree{
		left:        tj.LeftChildren,
		right:       tj.RightChildren,
		feature:     tj.SplitIndices,
		threshold:   tj.SplitConditions,
		cond:        make([]float32, n),
		defaultLeft: make([]bool, n),
		gain:        gain,
	}
	for i := range n {
		t.defaultLeft[i] = bool(tj.DefaultLeft[i])
		if math.IsNaN(t.threshold[i]) {
			return tree{}, fmt.Errorf("node %d: NaN split condition", i)
		}
		t.cond[i] = float32(t.threshold[i])
		if t.left[i] == -1 {
			if t.right[i] != -1 {
				return tree{}, fmt.Errorf("node %d: leaf with a right child", i)
			}
			continue
		}
		// Children always follow their parent, which also rules out cycles.
		if t.left[i] <= i || t.left[i] >= n || t.right[i] <= i || t.right[i] >= n {
			return tree{}, fmt.Errorf("node %d: child index out of range", i)
		}
		if t.feature[i] < 0 || t.feature[i] >= numFeatures {
			return tree{}, fmt.Errorf("node %d: split feature %d out of range", i, t.feature[i])
		}
	}
	return t, nil
}
