package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model ModelChecker
	db    DBPinger
}

// New creates a Service. db is nil when artifacts come from the filesystem.
func New(model ModelChecker, db DBPinger) *Service {
	return &Service{model: model, db: db}
}

// Check runs health checks against all components.
// A failing model makes the service unhealthy. A failing registry only
// degrades it, since artifacts are already loaded in memory.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["artifact_store"] = CheckError
			status = Degraded
		} else {
			checks["artifact_store"] = CheckOK
		}
	}

	if err := s.model.HealthCheck(ctx); err != nil {
		checks["model"] = CheckError
		status = Unhealthy
	} else {
		checks["model"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
