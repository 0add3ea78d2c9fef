package xgboost

import (
	"context"
	"math"
	"strings"
	"testing"
)

// twoTrees splits TaskA at 0.5 (gain 10) and Age at 9 (gain 2).
const twoTrees = `{
  "learner": {
    "feature_names": ["Age", "TaskA"],
    "gradient_booster": {
      "name": "gbtree",
      "model": {
        "trees": [
          {
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [1, 0, 0],
            "split_conditions": [0.5, 0.4, -0.4],
            "default_left": [true, false, false],
            "loss_changes": [10, 0, 0]
          },
          {
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [0, 0, 0],
            "split_conditions": [9, 0.2, -0.1],
            "default_left": [0, 0, 0],
            "loss_changes": [2, 0, 0]
          }
        ]
      }
    },
    "learner_model_param": {"base_score": "BASE", "num_class": "0", "num_feature": "2"},
    "objective": {"name": "binary:logistic"}
  },
  "version": [2, 1, 0]
}`

func load(t *testing.T, base string) *Model {
	t.Helper()
	m, err := Load([]byte(strings.Replace(twoTrees, "BASE", base, 1)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestModel_PredictProba(t *testing.T) {
	m := load(t, "5E-1")
	ctx := context.Background()

	tests := []struct {
		name      string
		row       []float64
		margin    float64
		wantClass int
	}{
		{"left then right", []float64{12, 0}, 0.3, 1},
		{"right then left", []float64{8, 1}, -0.2, 0},
		{"threshold goes right", []float64{9, 0.5}, -0.5, 0},
		{"missing follows default", []float64{math.NaN(), math.NaN()}, 0.3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proba, err := m.PredictProba(ctx, tt.row)
			if err != nil {
				t.Fatalf("PredictProba: %v", err)
			}
			want := 1 / (1 + math.Exp(-tt.margin))
			if !near(proba[1], want) || !near(proba[0], 1-want) {
				t.Errorf("proba = %v, want [%v %v]", proba, 1-want, want)
			}
			class, err := m.Predict(ctx, tt.row)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if class != tt.wantClass {
				t.Errorf("class = %d, want %d", class, tt.wantClass)
			}
		})
	}
}

func TestModel_BaseScoreForms(t *testing.T) {
	row := []float64{12, 0}
	plain, _ := load(t, "5E-1").PredictProba(context.Background(), row)
	bracketed, _ := load(t, "[5E-1]").PredictProba(context.Background(), row)
	if !near(plain[1], bracketed[1]) {
		t.Errorf("bracketed base_score = %v, plain = %v", bracketed[1], plain[1])
	}

	shifted, _ := load(t, "2.5E-1").PredictProba(context.Background(), row)
	want := 1 / (1 + math.Exp(-(math.Log(0.25/0.75) + 0.3)))
	if !near(shifted[1], want) {
		t.Errorf("base_score 0.25: p = %v, want %v", shifted[1], want)
	}
}

func TestModel_Metadata(t *testing.T) {
	m := load(t, "5E-1")

	if c := m.Classes(); len(c) != 2 || c[0] != 0 || c[1] != 1 {
		t.Errorf("Classes() = %v", c)
	}
	if n := m.FeatureNames(); len(n) != 2 || n[0] != "Age" || n[1] != "TaskA" {
		t.Errorf("FeatureNames() = %v", n)
	}
	if m.NumTrees() != 2 || m.NumFeatures() != 2 {
		t.Errorf("NumTrees = %d, NumFeatures = %d", m.NumTrees(), m.NumFeatures())
	}

	imp := m.FeatureImportances()
	if !near(imp[0], 2.0/12) || !near(imp[1], 10.0/12) {
		t.Errorf("FeatureImportances() = %v", imp)
	}
	imp[0] = 99
	if m.FeatureImportances()[0] == 99 {
		t.Error("FeatureImportances() exposes internal state")
	}
}

func TestModel_RowWidth(t *testing.T) {
	m := load(t, "5E-1")
	if _, err := m.PredictProba(context.Background(), []float64{1}); err == nil {
		t.Error("expected error for short row")
	}
}

func TestModel_CancelledContext(t *testing.T) {
	m := load(t, "5E-1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Predict(ctx, []float64{1, 1}); err == nil {
		t.Error("expected context error")
	}
}

func TestLoad_Rejects(t *testing.T) {
	valid := strings.Replace(twoTrees, "BASE", "5E-1", 1)

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr string
	}{
		{"objective", `"binary:logistic"`, `"reg:squarederror"`, "unsupported objective"},
		{"booster", `"gbtree"`, `"gblinear"`, "unsupported booster"},
		{"num_feature", `"num_feature": "2"`, `"num_feature": "x"`, "invalid num_feature"},
		{"base_score", `"5E-1"`, `"1"`, "base_score"},
		{"child index", `"left_children": [1, -1, -1]`, `"left_children": [7, -1, -1]`, "child index"},
		{"split feature", `"split_indices": [1, 0, 0]`, `"split_indices": [5, 0, 0]`, "split feature"},
		{"array length", `"default_left": [true, false, false]`, `"default_left": [true]`, "default_left"},
		{"bad bool", `"default_left": [0, 0, 0]`, `"default_left": [2, 0, 0]`, "invalid boolean"},
		{"feature names", `["Age", "TaskA"]`, `["Age"]`, "feature names"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(strings.Replace(valid, tt.from, tt.to, 1)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestGainImportances_NoSplits(t *testing.T) {
	stump := tree{
		left: []int{-1}, right: []int{-1}, feature: []int{0},
		threshold: []float64{0.1}, defaultLeft: []bool{false}, gain: []float64{0},
	}
	imp := gainImportances([]tree{stump}, 3)
	for i, v := range imp {
		if v != 0 {
			t.Errorf("importance[%d] = %v, want 0", i, v)
		}
	}
}

// oneSplit splits Age at 2/7, a value float32 cannot hold exactly.
const oneSplit = `{
  "learner": {
    "gradient_booster": {
      "name": "gbtree",
      "model": {
        "trees": [
          {
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [0, 0, 0],
            "split_conditions": [0.2857143, 0.4, -0.4],
            "default_left": [0, 0, 0],
            "loss_changes": [1, 0, 0]
          }
        ]
      }
    },
    "learner_model_param": {"base_score": "5E-1", "num_class": "0", "num_feature": "1"},
    "objective": {"name": "binary:logistic"}
  }
}`

func TestModel_SplitComparesInFloat32(t *testing.T) {
	m, err := Load([]byte(oneSplit))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name   string
		x      float64
		margin float64
	}{
		// 2/7 < 0.2857143 in float64, but both round to the same float32.
		{"rounds onto threshold goes right", 2.0 / 7.0, -0.4},
		{"below in float32 goes left", 0.2857, 0.4},
		{"above goes right", 0.3, -0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proba, err := m.PredictProba(ctx, []float64{tt.x})
			if err != nil {
				t.Fatalf("PredictProba: %v", err)
			}
			want := 1 / (1 + math.Exp(-tt.margin))
			if !near(proba[1], want) {
				t.Errorf("p = %v, want %v", proba[1], want)
			}
		})
	}
}
