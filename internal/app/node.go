package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/stevedore/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/stevedore/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/stevedore/internal/engine/planner"
	"go.trai.ch/stevedore/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			planner.NodeID,
			scheduler.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			plan, err := graft.Dep[*planner.Planner](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, plan, sched, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log, ConfigLoader: loader, Telemetry: telemetry}, nil
		},
	})
}
