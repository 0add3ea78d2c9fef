package report

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/prediction"
	"github.com/kailas-cloud/lexiscreen/internal/domain/risk"
)

func testVector(t *testing.T, age float64) feature.Vector {
	t.Helper()
	s, err := feature.NewSchema([]string{"Age", "TaskA"})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return feature.NewVector(s, []float64{age, 5})
}

func TestBuild(t *testing.T) {
	pred, _ := prediction.New(1, 0.6234)
	top := []importance.Entry{importance.New("TaskA", 0.7), importance.New("Age", 0.3)}
	loc := time.FixedZone("UTC+3", 3*3600)
	calls := 0
	now := func() time.Time {
		calls++
		return time.Date(2026, 3, 1, 12, 30, 45, 987654321, loc)
	}

	r, err := Build(testVector(t, 14), pred, risk.High, top, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("clock read %d times, want 1", calls)
	}
	want := time.Date(2026, 3, 1, 9, 30, 45, 0, time.UTC)
	if !r.Timestamp().Equal(want) || r.Timestamp().Location() != time.UTC {
		t.Errorf("Timestamp() = %v, want %v", r.Timestamp(), want)
	}
	if r.Age() != 14 || r.PredictedClass() != 1 || r.Probability() != 0.6234 || r.Tier() != risk.High {
		t.Errorf("unexpected report fields: %+v", r)
	}
	if r.ID() == "" {
		t.Error("ID() is empty")
	}
	if len(r.TopFeatures()) != 2 || r.TopFeatures()[0].Feature() != "TaskA" {
		t.Errorf("TopFeatures() = %v", r.TopFeatures())
	}
	if r.Alert() != "Possible dyslexia risk detected." {
		t.Errorf("Alert() = %q", r.Alert())
	}
}

func TestBuild_NoAge(t *testing.T) {
	s, _ := feature.NewSchema([]string{"TaskA"})
	pred, _ := prediction.New(0, 0.1)
	_, err := Build(feature.NewVector(s, []float64{1}), pred, risk.Low, nil, time.Now)
	if !errors.Is(err, domain.ErrSchema) {
		t.Errorf("error = %v, want ErrSchema", err)
	}
}

func TestBuild_InvalidTier(t *testing.T) {
	pred, _ := prediction.New(0, 0.1)
	_, err := Build(testVector(t, 9), pred, risk.Tier("Severe"), nil, time.Now)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestBuild_UniqueIDs(t *testing.T) {
	pred, _ := prediction.New(0, 0.1)
	a, _ := Build(testVector(t, 9), pred, risk.Low, nil, time.Now)
	b, _ := Build(testVector(t, 9), pred, risk.Low, nil, time.Now)
	if a.ID() == b.ID() {
		t.Error("two reports share an ID")
	}
	if a.Alert() != "Low dyslexia risk." {
		t.Errorf("Alert() = %q", a.Alert())
	}
}
