// Package probe provides the exec-based health probe adapter.
package probe

import (
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Prober = (*ExecProber)(nil)

// ExecProber implements ports.Prober by running the probe command via
// os/exec. Exit code zero is a passing probe; anything else is a failure.
type ExecProber struct {
	logger ports.Logger
}

// NewExecProber creates a new ExecProber.
func NewExecProber(logger ports.Logger) *ExecProber {
	return &ExecProber{logger: logger}
}

// Probe runs the health check command once under the given context. Probe
// output goes to the telemetry vertex when the context carries one, otherwise
// to the logger.
func (p *ExecProber) Probe(ctx context.Context, check *domain.HealthCheck) error {
	if len(check.Test) == 0 {
		return nil
	}

	name := check.Test[0]
	args := check.Test[1:]

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided probe command
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stdout = vertex.Stdout()
		cmd.Stderr = vertex.Stderr()
	} else {
		cmd.Stdout = &logWriter{logger: p.logger}
		cmd.Stderr = &logWriter{logger: p.logger}
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1 // unknown or signal
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrProbeFailed.Error()), "command", name)
		return zerr.With(wrapped, "exit_code", exitCode)
	}
	return nil
}

// logWriter forwards probe output line by line to the logger.
type logWriter struct {
	logger ports.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line != "" {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
