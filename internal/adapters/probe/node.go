package probe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/adapters/logger"
	"go.trai.ch/stevedore/internal/core/ports"
)

// NodeID is the unique identifier for the prober Graft node.
const NodeID graft.ID = "adapter.prober"

func init() {
	graft.Register(graft.Node[ports.Prober]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Prober, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecProber(log), nil
		},
	})
}
