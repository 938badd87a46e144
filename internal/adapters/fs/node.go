package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/internal/core/ports"
)

const (
	// ReaderNodeID is the unique identifier for the content reader Graft node.
	ReaderNodeID graft.ID = "adapter.fs.reader"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
)

func init() {
	graft.Register(graft.Node[ports.ContentReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ContentReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ReaderNodeID},
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			reader, err := graft.Dep[ports.ContentReader](ctx)
			if err != nil {
				return nil, err
			}
			return NewFingerprinter(reader), nil
		},
	})
}
