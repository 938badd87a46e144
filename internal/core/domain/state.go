package domain

// ServiceState represents the lifecycle state of a service during startup.
// Transitions are driven solely by the scheduler.
type ServiceState string

const (
	// StatePending indicates the service is waiting for its dependencies.
	StatePending ServiceState = "Pending"
	// StateStarting indicates every dependency is Healthy and the service is starting.
	StateStarting ServiceState = "Starting"
	// StateHealthChecking indicates the service is being probed.
	StateHealthChecking ServiceState = "HealthChecking"
	// StateHealthy indicates the service passed its health check.
	StateHealthy ServiceState = "Healthy"
	// StateFailed indicates the service exhausted its probe retry budget.
	StateFailed ServiceState = "Failed"
	// StateStopped indicates the service was halted by an external abort.
	StateStopped ServiceState = "Stopped"
)

// IsTerminal reports whether the state ends the service's startup lifecycle.
func (s ServiceState) IsTerminal() bool {
	switch s {
	case StateHealthy, StateFailed, StateStopped:
		return true
	default:
		return false
	}
}

// Transition is one observed state change of a service. The scheduler emits
// these as a stream while driving startup.
type Transition struct {
	// Service is the name of the service that changed state.
	Service string

	// From is the state the service left.
	From ServiceState

	// To is the state the service entered.
	To ServiceState

	// Err carries the cause for transitions into Failed or Stopped.
	Err error
}
