package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/adapters/cas"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/adapters/fs"                  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/adapters/telemetry/progrock"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stevedore/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.FingerprinterNodeID,
			cas.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.FingerprintStore](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewPlanner(fingerprinter, store, telemetry), nil
		},
	})
}
