package ports

import "io"

// ContentReader produces byte streams for declared file inputs. It is used
// for fingerprinting only; the planner never writes through it.
//
//go:generate mockgen -source=content_reader.go -destination=mocks/mock_content_reader.go -package=mocks
type ContentReader interface {
	// Resolve expands a declared input (file, directory or glob pattern)
	// under root into a sorted list of concrete file paths.
	Resolve(root, input string) ([]string, error)

	// Open returns the byte stream for a resolved file path.
	Open(path string) (io.ReadCloser, error)
}
