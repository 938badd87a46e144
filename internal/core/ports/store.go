package ports

import "go.trai.ch/stevedore/internal/core/domain"

// FingerprintStore is the keyed store of last-committed stage fingerprints,
// persisted across invocations. Entries are only ever replaced, never
// partially updated; writes happen in a single commit phase.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type FingerprintStore interface {
	// Get retrieves the last-committed fingerprint for a stage.
	// Returns nil, nil if not found.
	Get(stage string) (*domain.Fingerprint, error)

	// Commit atomically replaces the entries for the given stages and
	// persists the store once.
	Commit(entries map[string]domain.Fingerprint) error
}
