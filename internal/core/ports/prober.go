package ports

import (
	"context"

	"go.trai.ch/stevedore/internal/core/domain"
)

// Prober issues a configured health check and reports pass/fail. The core
// treats it as a black-box boolean oracle: a nil error is a passing probe.
//
//go:generate mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type Prober interface {
	// Probe runs the health check once. The context carries the phase
	// deadline; implementations must respect cancellation.
	Probe(ctx context.Context, check *domain.HealthCheck) error
}
