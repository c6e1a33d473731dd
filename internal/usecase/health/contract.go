package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Probe is an optional dependency check. A failing probe degrades, but does not fail, the service.
type Probe interface {
	HealthCheck(ctx context.Context) error
}
