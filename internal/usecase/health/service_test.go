package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockModelChecker struct {
	err error
}

func (m *mockModelChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		model      error
		db         DBPinger
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{
			name:       "all healthy",
			db:         &mockDBPinger{},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{"model": CheckOK, "artifact_store": CheckOK},
		},
		{
			name:       "file source has no store check",
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{"model": CheckOK},
		},
		{
			name:       "store down degrades",
			db:         &mockDBPinger{err: down},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{"model": CheckOK, "artifact_store": CheckError},
		},
		{
			name:       "model down is unhealthy",
			model:      down,
			db:         &mockDBPinger{},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"model": CheckError, "artifact_store": CheckOK},
		},
		{
			name:       "both down",
			model:      down,
			db:         &mockDBPinger{err: down},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"model": CheckError, "artifact_store": CheckError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockModelChecker{err: tt.model}, tt.db)
			r := svc.Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, r.Status)
			}
			if len(r.Checks) != len(tt.wantChecks) {
				t.Errorf("checks = %v, want %v", r.Checks, tt.wantChecks)
			}
			for k, v := range tt.wantChecks {
				if r.Checks[k] != v {
					t.Errorf("check %s = %q, want %q", k, r.Checks[k], v)
				}
			}
		})
	}
}
