package artifact

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/lexiscreen/internal/db"
	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

func TestLoad_Dir(t *testing.T) {
	bundle, err := Load(context.Background(), NewDirSource("testdata"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bundle.Schema.Equal([]string{"Age", "TaskA", "TaskB"}) {
		t.Errorf("schema = %v", bundle.Schema.Names())
	}
	if v, ok := bundle.Defaults.Typical("Age"); !ok || v != 11.5 {
		t.Errorf("Typical(Age) = %v, %v", v, ok)
	}
	if bundle.Model.NumTrees() != 2 {
		t.Errorf("NumTrees = %d", bundle.Model.NumTrees())
	}

	imp := bundle.Model.FeatureImportances()
	want := []float64{2.0 / 18, 12.0 / 18, 4.0 / 18}
	for i := range want {
		if math.Abs(imp[i]-want[i]) > 1e-12 {
			t.Errorf("importance[%d] = %v, want %v", i, imp[i], want[i])
		}
	}
}

func TestLoad_DirMissingFile(t *testing.T) {
	b := testBlobs(t)
	b.Model = nil
	_, err := Load(context.Background(), NewDirSource(writeDir(t, b)))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParse_IgnoresUnknownDefaults(t *testing.T) {
	b := testBlobs(t)
	b.Defaults = []byte(`{"Age": 9, "Retired": 3}`)
	bundle, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v := bundle.Defaults.Value("TaskA"); v != 0 {
		t.Errorf("Value(TaskA) = %v, want fallback 0", v)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Blobs)
		wantErr error
	}{
		{"features not an array", func(b *Blobs) { b.Features = []byte(`{"Age": 1}`) }, domain.ErrSchema},
		{"features empty", func(b *Blobs) { b.Features = []byte(`[]`) }, domain.ErrSchema},
		{"features duplicate", func(b *Blobs) { b.Features = []byte(`["Age","Age","TaskB"]`) }, domain.ErrSchema},
		{"features invalid json", func(b *Blobs) { b.Features = []byte(`[`) }, domain.ErrSchema},
		{"features without age", func(b *Blobs) { b.Features = []byte(`["Years","TaskA","TaskB"]`) }, domain.ErrSchema},
		{"defaults non-numeric", func(b *Blobs) { b.Defaults = []byte(`{"Age": "ten"}`) }, domain.ErrSchema},
		{"model garbage", func(b *Blobs) { b.Model = []byte(`{}`) }, domain.ErrInference},
		{"width mismatch", func(b *Blobs) { b.Features = []byte(`["Age","TaskA"]`) }, domain.ErrSchema},
		{"name mismatch", func(b *Blobs) { b.Features = []byte(`["Age","TaskA","TaskC"]`) }, domain.ErrInference},
		{"order mismatch", func(b *Blobs) { b.Features = []byte(`["TaskA","Age","TaskB"]`) }, domain.ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBlobs(t)
			tt.mutate(&b)
			_, err := Parse(b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_NameMismatchListsFeatures(t *testing.T) {
	b := testBlobs(t)
	b.Features = []byte(`["Age","TaskA","TaskC"]`)
	_, err := Parse(b)
	var ie *domain.InferenceError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InferenceError, got %v", err)
	}
	if len(ie.Missing) != 1 || ie.Missing[0] != "TaskC" || len(ie.Extra) != 1 || ie.Extra[0] != "TaskB" {
		t.Errorf("Missing = %v, Extra = %v", ie.Missing, ie.Extra)
	}
}

func TestKVSource_Load(t *testing.T) {
	b := testBlobs(t)
	keys := Keys("lexiscreen:")
	store := &mockStore{data: map[string][]byte{
		keys[0]: b.Features,
		keys[1]: b.Defaults,
		keys[2]: b.Model,
	}}

	bundle, err := Load(context.Background(), NewKVSource(store, "lexiscreen:"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.Schema.Len() != 3 {
		t.Errorf("schema len = %d", bundle.Schema.Len())
	}
}

func TestKVSource_MissingKey(t *testing.T) {
	store := &mockStore{data: map[string][]byte{}}
	_, err := NewKVSource(store, "x:").Load(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected wrapped ErrKeyNotFound, got %v", err)
	}
}

func TestKVSource_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	store := &mockStore{getMultiFn: func(context.Context, []string) ([][]byte, error) {
		return nil, boom
	}}
	_, err := NewKVSource(store, "").Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("store failure must not look like a missing artifact")
	}
}

func TestPublish(t *testing.T) {
	b := testBlobs(t)
	store := &mockStore{}

	bundle, err := Publish(context.Background(), store, "p:", b)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if bundle.Schema.Len() != 3 {
		t.Errorf("schema len = %d", bundle.Schema.Len())
	}
	if !bytes.Equal(store.data["p:artifact:model"], b.Model) {
		t.Error("model blob not stored under p:artifact:model")
	}

	// Round-trip through the registry.
	if _, err := Load(context.Background(), NewKVSource(store, "p:")); err != nil {
		t.Fatalf("Load after Publish: %v", err)
	}
}

func TestPublish_InvalidWritesNothing(t *testing.T) {
	b := testBlobs(t)
	b.Defaults = []byte(`[1,2]`)
	called := false
	store := &mockStore{setMultiFn: func(context.Context, []db.SetItem) error {
		called = true
		return nil
	}}
	if _, err := Publish(context.Background(), store, "", b); !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if called {
		t.Error("SetMulti called for invalid artifacts")
	}
}
