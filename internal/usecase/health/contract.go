package health

import "context"

// DBPinger checks artifact registry availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks that the loaded model still produces predictions.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
