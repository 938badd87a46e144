// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/stevedore/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the progrock library.
// Vertices accumulate on a tape; Close renders the final vertex tree to out.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
	out io.Writer
}

// New creates a Recorder with a default tape rendering to stderr, keeping
// stdout free for command output.
func New() *Recorder {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a Recorder with a default tape rendering to out.
func NewWithOutput(out io.Writer) *Recorder {
	r := NewRecorder(progrock.NewTape())
	r.out = out
	return r
}

// NewRecorder creates a new Recorder with the given writer. No rendering
// happens on Close unless the writer is a tape with an output configured.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close renders the recorded vertex tree, then flushes and closes the
// recording session.
func (r *Recorder) Close() error {
	if tape, ok := r.w.(*progrock.Tape); ok && r.out != nil {
		if err := tape.Render(r.out, progrock.DefaultUI()); err != nil {
			return err
		}
	}
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
