// Package cas implements the content-addressed fingerprint store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/zerr"
)

// documentVersion is the schema version of the persisted store file.
const documentVersion = 1

// document is the on-disk layout of the store.
type document struct {
	Version int                           `json:"version"`
	Stages  map[string]domain.Fingerprint `json:"stages"`
}

// Store implements ports.FingerprintStore using a flat JSON file.
// Reads are safe during an invalidation pass; writes happen only through
// Commit, which replaces entries and persists the file once.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.Fingerprint
}

// NewStore creates a FingerprintStore backed by the file at the given path.
// The store starts empty on first use.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.Fingerprint),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", s.path)
	}
	if doc.Stages != nil {
		s.cache = doc.Stages
	}
	return nil
}

// Get retrieves the last-committed fingerprint for a stage.
// Returns nil, nil if not found.
func (s *Store) Get(stage string) (*domain.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, ok := s.cache[stage]
	if !ok {
		return nil, nil
	}
	return &fp, nil
}

// Commit replaces the entries for the given stages and persists the store in
// a single write. Entries for stages not named in the commit are kept.
func (s *Store) Commit(entries map[string]domain.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for stage, fp := range entries {
		s.cache[stage] = fp
	}
	return s.save()
}

// save persists the cache. Caller holds the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(document{Version: documentVersion, Stages: s.cache}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal fingerprint store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for fingerprint store")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}
