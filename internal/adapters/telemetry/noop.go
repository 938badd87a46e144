// Package telemetry provides progress-recording adapters.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry.
type NoOp struct{}

// NewNoOp creates a new no-op telemetry recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that discards everything.
func (n *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &NoOpVertex{}
}

// Close does nothing.
func (n *NoOp) Close() error { return nil }

// NoOpVertex is a vertex that discards everything.
type NoOpVertex struct{}

// Stdout returns a writer that discards its input.
func (v *NoOpVertex) Stdout() io.Writer { return io.Discard }

// Stderr returns a writer that discards its input.
func (v *NoOpVertex) Stderr() io.Writer { return io.Discard }

// Log does nothing.
func (v *NoOpVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
