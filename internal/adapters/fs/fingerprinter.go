package fs

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter computes stage fingerprints with xxhash.
type Fingerprinter struct {
	reader ports.ContentReader
}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter(reader ports.ContentReader) *Fingerprinter {
	return &Fingerprinter{reader: reader}
}

// FingerprintStage digests, in order: the stage name, the instruction text,
// the upstream digests (caller passes them in the stage's From order) and the
// content of every declared file input. Fields are NUL-separated so adjacent
// values cannot collide.
func (f *Fingerprinter) FingerprintStage(stage *domain.Stage, upstream []string, root string) (string, error) {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(stage.Name)
	_, _ = hasher.Write([]byte{0})

	for _, instr := range stage.Instructions {
		_, _ = hasher.WriteString(instr)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // section separator

	for _, digest := range upstream {
		_, _ = hasher.WriteString(digest)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, input := range stage.Inputs {
		if err := f.hashInput(root, input, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashInput resolves one declared input and feeds each file's path and
// content into the digest. Paths are written relative to root so the digest
// survives a relocation of the build root.
func (f *Fingerprinter) hashInput(root, input string, hasher *xxhash.Digest) error {
	files, err := f.reader.Resolve(root, input)
	if err != nil {
		return err
	}

	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		_, _ = hasher.WriteString(rel)
		_, _ = hasher.Write([]byte{0})

		if err := f.hashFile(path, hasher); err != nil {
			return err
		}
		_, _ = hasher.Write([]byte{0})
	}
	return nil
}

func (f *Fingerprinter) hashFile(path string, hasher io.Writer) error {
	rc, err := f.reader.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	if _, err := io.Copy(hasher, rc); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to hash input content"), "path", path)
	}
	return nil
}
