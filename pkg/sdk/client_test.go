package lexiscreen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lexiscreen/internal/export/table"
)

const sampleArtifacts = "../../artifacts"

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no artifact source provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "memcached", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(context.Background(), WithArtifactDir(t.TempDir()))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNew_BadTopK(t *testing.T) {
	_, err := New(context.Background(), WithArtifactDir(sampleArtifacts), WithTopK(10, 3))
	if err == nil {
		t.Fatal("expected error when default top-k exceeds max")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithKeyPrefix("ls:").apply(cfg3)
	WithPositiveLabel(0).apply(cfg3)
	WithAgeRange(6, 17).apply(cfg3)
	WithTopK(3, 8).apply(cfg3)
	WithDocument("Report", 60).apply(cfg3)
	if cfg3.keyPrefix != "ls:" || cfg3.positiveLabel != 0 {
		t.Errorf("prefix/label = %q/%d", cfg3.keyPrefix, cfg3.positiveLabel)
	}
	if cfg3.ageRange == nil || *cfg3.ageRange != [2]float64{6, 17} {
		t.Errorf("ageRange = %v", cfg3.ageRange)
	}
	if cfg3.defaultTopK != 3 || cfg3.maxTopK != 8 {
		t.Errorf("topK = (%d, %d), want (3, 8)", cfg3.defaultTopK, cfg3.maxTopK)
	}
	if cfg3.title != "Report" || cfg3.wrapWidth != 60 {
		t.Errorf("document = (%q, %d)", cfg3.title, cfg3.wrapWidth)
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg4)
	if cfg4.metricsReg != reg {
		t.Error("expected registerer to be set")
	}
}

func newSampleClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithArtifactDir(sampleArtifacts)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestClient_ScreenTypicalSubject(t *testing.T) {
	c := newSampleClient(t)

	res, err := c.Screen(context.Background(), Input{UseDefaults: true})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if res.PredictedClass != 0 || res.RiskLevel != RiskLow {
		t.Errorf("class/risk = %d/%s, want 0/Low", res.PredictedClass, res.RiskLevel)
	}
	if res.Age != 11 {
		t.Errorf("Age = %v, want typical 11", res.Age)
	}
	if len(res.TopFeatures) != 5 {
		t.Errorf("top features = %d, want default 5", len(res.TopFeatures))
	}
	if res.TopFeatures[0].Feature != "Accuracy1" {
		t.Errorf("top feature = %q, want Accuracy1", res.TopFeatures[0].Feature)
	}
	if res.ID == "" || res.Interpretation == "" {
		t.Error("expected id and interpretation")
	}
}

func TestClient_ScreenHighRisk(t *testing.T) {
	c := newSampleClient(t)

	res, err := c.Screen(context.Background(), Input{
		Overrides: map[string]float64{
			"Age": 12, "Accuracy1": 0.4, "Missrate1": 0.5,
			"Hits1": 2, "Misses1": 5, "Nativelang": 0,
		},
		UseDefaults: true,
		TopK:        2,
	})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}
	if res.PredictedClass != 1 || res.RiskLevel != RiskHigh {
		t.Errorf("class/risk = %d/%s, want 1/High", res.PredictedClass, res.RiskLevel)
	}
	if res.Probability < 0.61 || res.Probability > 0.63 {
		t.Errorf("probability = %v, want ~0.619", res.Probability)
	}
	if len(res.TopFeatures) != 2 {
		t.Errorf("top features = %d, want 2", len(res.TopFeatures))
	}
}

func TestClient_ScreenUnknownFeature(t *testing.T) {
	c := newSampleClient(t)

	_, err := c.Screen(context.Background(), Input{Overrides: map[string]float64{"Bogus": 1}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_FeaturesAndImportances(t *testing.T) {
	c := newSampleClient(t)

	feats := c.Features()
	if len(feats) != 10 || feats[3].Name != "Age" {
		t.Fatalf("features = %+v", feats)
	}
	if feats[3].Typical == nil || *feats[3].Typical != 11 {
		t.Errorf("Age typical = %v", feats[3].Typical)
	}

	all, err := c.Importances(0)
	if err != nil {
		t.Fatalf("Importances: %v", err)
	}
	if len(all) != 10 {
		t.Errorf("all importances = %d, want 10", len(all))
	}
	var sum float64
	for _, e := range all {
		sum += e.Score
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("importances sum = %v, want 1", sum)
	}

	top, err := c.Importances(3)
	if err != nil {
		t.Fatalf("Importances(3): %v", err)
	}
	if len(top) != 3 || top[0].Feature != "Accuracy1" {
		t.Errorf("top3 = %+v", top)
	}
}

func TestClient_Exports(t *testing.T) {
	c := newSampleClient(t)
	res, err := c.Screen(context.Background(), Input{UseDefaults: true})
	if err != nil {
		t.Fatalf("Screen: %v", err)
	}

	csvData, err := c.ExportCSV(res)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	recs, err := table.Decode(bytes.NewReader(csvData))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(recs) != 1 || recs[0].Probability != res.Probability || !recs[0].Timestamp.Equal(res.Timestamp) {
		t.Errorf("decoded = %+v, want probability %v", recs, res.Probability)
	}

	pdfData, err := c.ExportPDF(res)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if !bytes.HasPrefix(pdfData, []byte("%PDF-")) {
		t.Error("expected PDF header")
	}
}

func TestClient_ExportUnknownRisk(t *testing.T) {
	c := &Client{renderer: &mockRenderer{}}
	_, err := c.ExportPDF(Result{RiskLevel: "Extreme"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	c := newSampleClient(t)
	h := c.Health(context.Background())
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok (checks %v)", h.Status, h.Checks)
	}
	if h.Checks["model"] != "ok" {
		t.Errorf("model check = %q", h.Checks["model"])
	}
	if _, ok := h.Checks["artifact_store"]; ok {
		t.Error("directory source should not report a store check")
	}
}
