// Package supervise builds the three concrete child supervisors — the
// audio engine, the runtime server, and the BEAM-based IO server — on
// top of process.Runner, wiring each one's exact argument vector and
// any pre/post steps.
package supervise

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"boot-go/logging"
)

// pidWaitTimeout bounds how long Wait() on a BeamPidPromise blocks
// before giving up (spec §3 BeamPidPromise, §4.4 restart's 30s wait).
const pidWaitTimeout = 30 * time.Second

// ErrPidTimeout is returned by BeamPidPromise.Wait when no pid arrives
// within pidWaitTimeout.
var ErrPidTimeout = errors.New("beam pid promise: timed out waiting for pid")

// BeamPidPromise is a single-assignment slot holding the OS pid the BEAM
// child reports back over the control channel. It transitions empty →
// filled exactly once per boot (or once per restart, since Restart
// replaces it with a fresh promise).
type BeamPidPromise struct {
	mu     sync.Mutex
	cond   *sync.Cond
	filled bool
	pid    int
}

// NewBeamPidPromise returns an empty promise.
func NewBeamPidPromise() *BeamPidPromise {
	p := &BeamPidPromise{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Fulfill assigns pid if the promise is still empty. Subsequent calls
// are no-ops: only the first report wins.
func (p *BeamPidPromise) Fulfill(pid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filled {
		return
	}
	p.pid = pid
	p.filled = true
	p.cond.Broadcast()
}

// Wait blocks until the promise is filled or pidWaitTimeout elapses.
func (p *BeamPidPromise) Wait() (int, error) {
	done := make(chan struct{})
	go func() {
		p.mu.Lock()
		for !p.filled {
			p.cond.Wait()
		}
		p.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.pid, nil
	case <-time.After(pidWaitTimeout):
		return 0, ErrPidTimeout
	}
}

// Reset clears the promise back to empty. BeamIO.Restart does not call
// it; it replaces the promise with NewBeamPidPromise instead.
func (p *BeamPidPromise) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filled = false
	p.pid = 0
}

// Filled reports whether the promise has already been fulfilled, without
// blocking.
func (p *BeamPidPromise) Filled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filled
}

// logChild returns a logger tagged with name, falling back to the
// package default if logger is nil.
func logChild(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = logging.Default()
	}
	return logging.WithChild(logger, name)
}

