// Package safeexit implements the daemon's idempotent shutdown guard:
// the cleanup procedure runs exactly once no matter how many exit paths
// race to trigger it.
package safeexit

import (
	"log/slog"
	"sync"

	"boot-go/logging"
)

// Terminator is anything the cleanup procedure tears down: each
// supervised child's Kill (and, for BEAM, Wait) satisfies this.
type Terminator interface {
	Kill()
}

// Guard runs the cleanup procedure (terminate every child, join them,
// close the log file) exactly once across any number of concurrent Run
// callers (SPEC_FULL.md §4.7). Run is the only entry point: the
// Orchestrator calls it after the exit promise is delivered, and no
// process-exit or panic hook calls it. The two-lock-and-boolean-latch
// description in the original is an idiomatic fit for sync.Once here:
// concurrent Run calls block until the first completes, then return
// immediately as no-ops.
type Guard struct {
	once     sync.Once
	children []Terminator
	logSink  closer
	logger   *slog.Logger
}

// closer matches logging.Sink's Close method without importing logging
// just for the type.
type closer interface {
	Close() error
}

// New returns a Guard that will terminate children and close logSink
// exactly once when Run is called.
func New(logSink closer, logger *slog.Logger, children ...Terminator) *Guard {
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{
		children: children,
		logSink:  logSink,
		logger:   logging.WithOperation(logger, "safe-exit"),
	}
}

// Run performs the cleanup procedure exactly once. Safe to call from
// multiple goroutines; all but the first call block until cleanup
// finishes, then return.
func (g *Guard) Run() {
	g.once.Do(g.cleanup)
}

// cleanup spawns one termination goroutine per child, joins them all,
// then closes the log file.
func (g *Guard) cleanup() {
	g.logger.Info("safe exit: beginning cleanup")

	var wg sync.WaitGroup
	for _, child := range g.children {
		wg.Add(1)
		go func(c Terminator) {
			defer wg.Done()
			c.Kill()
		}(child)
	}
	wg.Wait()

	if g.logSink != nil {
		if err := g.logSink.Close(); err != nil {
			g.logger.Warn("safe exit: failed to close log", slog.String("error", err.Error()))
		}
	}

	g.logger.Info("safe exit: cleanup complete")
}
