// Package fs provides file system adapters for resolving and fingerprinting
// declared stage inputs.
package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentReader = (*Reader)(nil)

// Reader implements ports.ContentReader over the local file system.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Resolve expands a declared input under root into a sorted list of concrete
// file paths. A directory yields every file beneath it (skipping .git); any
// other path is treated as a glob pattern, and a plain file path is just a
// pattern matching itself. An input resolving to nothing is an error: a
// declared input that does not exist cannot be fingerprinted.
func (r *Reader) Resolve(root, input string) ([]string, error) {
	path := filepath.Join(root, input)

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return walkFiles(path)
	}

	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob input"), "path", path)
	}
	if len(matches) == 0 {
		return nil, zerr.With(domain.ErrInputNotFound, "path", path)
	}

	sort.Strings(matches)
	return matches, nil
}

// Open returns the byte stream for a resolved file path.
func (r *Reader) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open input"), "path", path)
	}
	return f, nil
}

// walkFiles lists every regular file under root in lexical order, skipping
// version control directories.
func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name == ".git" || name == ".jj" {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk input directory"), "path", root)
	}
	return files, nil
}
