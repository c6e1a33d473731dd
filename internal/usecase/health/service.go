package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional probe failed.
	Degraded Status = "degraded"
	// Unhealthy indicates the product store is unreachable.
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

// DefaultCheckTimeout bounds each check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	probes  map[string]Probe
	timeout time.Duration
}

// New creates a Service. probes may be nil.
func New(db DBPinger, probes map[string]Probe) *Service {
	return &Service{db: db, probes: probes, timeout: DefaultCheckTimeout}
}

// Check runs the database ping and every probe.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.probes))

	status := Healthy
	if err := s.run(ctx, s.db.Ping); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for name, p := range s.probes {
		if err := s.run(ctx, p.HealthCheck); err != nil {
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
			continue
		}
		checks[name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return check(ctx)
}
