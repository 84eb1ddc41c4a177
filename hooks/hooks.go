// Package hooks runs the advisory shell steps around the audio engine:
// the JACK prelude before scsynth starts, and the PulseAudio/JACK wiring
// scripts after it does. These never affect boot success or failure.
package hooks

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"

	"boot-go/logging"
)

// Step describes a single advisory shell command.
type Step struct {
	// Name labels the step for logging ("jack-prelude", "pulse-wiring").
	Name string
	// Path is the script or binary to execute.
	Path string
	// Args are passed to Path.
	Args []string
	// Timeout bounds how long the step may run; zero means no timeout.
	Timeout time.Duration
}

// Run executes step and logs its outcome, reporting whether it
// succeeded. A failure is never escalated into an error the caller must
// handle — every invocation site treats these steps as advisory
// (SPEC_FULL.md §4.4 "these side commands are advisory; failures are
// logged, never fatal") — but the success/failure result is returned so
// callers that need to branch on it (e.g. a liveness probe) can do so
// without a second, separate check.
func Run(step Step, logger *slog.Logger) bool {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logging.WithOperation(logger, step.Name)

	ctx := context.Background()
	var cancel context.CancelFunc
	if step.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, step.Path, step.Args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		logger.Warn("advisory step failed",
			slog.String("path", step.Path),
			slog.String("error", err.Error()),
			slog.String("output", out.String()))
		return false
	}
	logger.Debug("advisory step completed", slog.String("path", step.Path))
	return true
}
