package ports

import (
	"context"
	"io"

	"go.trai.ch/stevedore/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records units of work (vertices) for progress reporting.
type Telemetry interface {
	// Record starts recording a new vertex.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing standard output for the vertex.
	Stdout() io.Writer
	// Stderr returns a writer capturing error output for the vertex.
	Stderr() io.Writer
	// Log records a structured log message associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
	// Cached marks the vertex as a cache hit.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex attaches a vertex to the context.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex attached to the context, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
