package domain

import "time"

// HealthCheck is the probe contract for a service.
type HealthCheck struct {
	// Test is the probe command, executed as-is by the probe executor.
	Test []string

	// Interval is the pause between consecutive probes.
	Interval time.Duration

	// Timeout bounds the whole health-checking phase for the service.
	Timeout time.Duration

	// Retries is the number of failed probes tolerated before the service
	// is declared Failed.
	Retries int
}

// Service represents a long-running unit whose startup must be ordered
// relative to the services it depends on.
type Service struct {
	// Name identifies the service within the deployment.
	Name string

	// DependsOn names the services that must be Healthy before this
	// service may start.
	DependsOn []string

	// Health is the probe contract. A service without one is considered
	// Healthy as soon as it starts.
	Health *HealthCheck

	// Resources holds the declared resource requests and limits.
	Resources ResourceSpec
}
