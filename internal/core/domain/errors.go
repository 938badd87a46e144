package domain

import "go.trai.ch/zerr"

var (
	// ErrStageAlreadyExists is returned when attempting to declare a stage with a name that already exists.
	ErrStageAlreadyExists = zerr.New("stage already exists")

	// ErrUnknownStageReference is returned when a stage copies artifacts from a stage that was never declared.
	ErrUnknownStageReference = zerr.New("unknown stage reference")

	// ErrCyclicStage is returned when the stage graph contains a dependency cycle.
	ErrCyclicStage = zerr.New("cyclic stage dependency")

	// ErrServiceAlreadyExists is returned when attempting to declare a service with a name that already exists.
	ErrServiceAlreadyExists = zerr.New("service already exists")

	// ErrUnknownServiceReference is returned when a service depends on a service that was never declared.
	ErrUnknownServiceReference = zerr.New("unknown service reference")

	// ErrCyclicService is returned when the service graph contains a dependency cycle.
	ErrCyclicService = zerr.New("cyclic service dependency")

	// ErrBudgetExceeded is returned when the sum of declared resource limits exceeds the configured budget.
	ErrBudgetExceeded = zerr.New("resource budget exceeded")

	// ErrInvalidResourceDeclaration is returned when a service declares a request greater than its own limit.
	ErrInvalidResourceDeclaration = zerr.New("resource request exceeds limit")

	// ErrHealthCheckExhausted is returned when a service fails its probe for the entire retry budget.
	ErrHealthCheckExhausted = zerr.New("health check retries exhausted")

	// ErrDependencyFailed is returned for a service whose transitive dependency reached Failed.
	ErrDependencyFailed = zerr.New("dependency failed")

	// ErrScheduleAborted is returned when a run is aborted before reaching a stable state.
	ErrScheduleAborted = zerr.New("schedule aborted")

	// ErrStoreReadFailed is returned when the fingerprint store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read fingerprint store")

	// ErrStoreUnmarshalFailed is returned when the fingerprint store cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal fingerprint store")

	// ErrStoreWriteFailed is returned when the fingerprint store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write fingerprint store")

	// ErrConfigReadFailed is returned when the deployment file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read deployment file")

	// ErrConfigParseFailed is returned when the deployment file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse deployment file")

	// ErrInvalidName is returned when a stage or service name is empty or malformed.
	ErrInvalidName = zerr.New("name can only contain alphanumeric characters, hyphens and underscores")

	// ErrInputNotFound is returned when a declared file input does not resolve to any file.
	ErrInputNotFound = zerr.New("input not found")

	// ErrProbeFailed is returned when a single health probe invocation fails.
	ErrProbeFailed = zerr.New("probe failed")
)
