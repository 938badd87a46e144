package ports

import "go.trai.ch/stevedore/internal/core/domain"

// Fingerprinter computes content-derived digests for build stages.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// FingerprintStage digests the stage's declared file inputs, the
	// upstream digests (in the stage's From order) and the instruction
	// text. The same inputs always produce the same digest.
	FingerprintStage(stage *domain.Stage, upstream []string, root string) (string, error)
}
