package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/adapters/probe"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			probe.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			prober, err := graft.Dep[ports.Prober](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(prober, log, telemetry), nil
		},
	})
}
