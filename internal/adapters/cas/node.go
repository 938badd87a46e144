package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/core/ports"
)

// DefaultStorePath is where fingerprints are persisted between invocations.
const DefaultStorePath = ".stevedore/fingerprints.json"

// NodeID is the unique identifier for the fingerprint store Graft node.
const NodeID graft.ID = "adapter.fingerprint_store"

func init() {
	graft.Register(graft.Node[ports.FingerprintStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.FingerprintStore, error) {
			return NewStore(DefaultStorePath)
		},
	})
}
