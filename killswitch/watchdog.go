// Package killswitch implements the daemon's watchdog: a timer that
// arms after a startup grace period, expects a keep-alive tick at least
// every few ticks, and fires exactly once if the front-end goes silent.
package killswitch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"boot-go/logging"
)

const (
	// initGrace is the startup window during which no timeout can fire
	// (SPEC_FULL.md §4.6).
	initGrace = 40 * time.Second
	// tickInterval is how often the watcher checks for an observed
	// keep-alive.
	tickInterval = 10 * time.Second
	// maxMisses is the number of consecutive silent ticks tolerated
	// before firing (counter must exceed this, i.e. ~50s of silence).
	maxMisses = 4
)

// ExitPromise is a single-assignment signal delivered exactly once, when
// the watchdog fires or an explicit exit request arrives.
type ExitPromise struct {
	once chan struct{}
	initOnce sync.Once
}

// NewExitPromise returns an unfired ExitPromise.
func NewExitPromise() *ExitPromise {
	return &ExitPromise{once: make(chan struct{})}
}

// Fire delivers the exit signal. Safe to call more than once or from
// multiple goroutines; only the first call has an effect.
func (e *ExitPromise) Fire() {
	e.initOnce.Do(func() {
		close(e.once)
	})
}

// Wait blocks until Fire has been called.
func (e *ExitPromise) Wait() {
	<-e.once
}

// Watchdog is the KillSwitch state machine of SPEC_FULL.md §4.6: Init
// (startup grace) → Armed (tick/miss counting) → Fired (exit delivered,
// timer stopped, cannot be re-armed).
type Watchdog struct {
	mu       sync.Mutex
	queue    int
	misses   int
	deactivated bool
	fired    bool

	exit   *ExitPromise
	logger *slog.Logger
	notifySystemd bool

	grace    time.Duration
	interval time.Duration
}

// NewWatchdog constructs a Watchdog that will fire exit after the
// startup grace period elapses without sufficient keep-alive activity.
func NewWatchdog(exit *ExitPromise, logger *slog.Logger) *Watchdog {
	if logger == nil {
		logger = logging.Default()
	}
	return &Watchdog{
		exit:          exit,
		logger:        logging.WithOperation(logger, "kill-switch"),
		notifySystemd: true,
		grace:         initGrace,
		interval:      tickInterval,
	}
}

// newWatchdogWithIntervals is the test-only constructor used to exercise
// the Init→Armed→Fired transitions without waiting out the real
// 40s/10s timings.
func newWatchdogWithIntervals(exit *ExitPromise, logger *slog.Logger, grace, interval time.Duration) *Watchdog {
	w := NewWatchdog(exit, logger)
	w.grace = grace
	w.interval = interval
	w.notifySystemd = false
	return w
}

// Run starts the watcher: it waits out the grace period, then checks
// every interval for an observed keep-alive, firing once more than
// maxMisses consecutive ticks have passed silently. Run blocks until the watchdog fires or is
// deactivated; callers invoke it on its own goroutine.
func (w *Watchdog) Run() {
	time.Sleep(w.grace)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		if w.tick() {
			return
		}
	}
}

// tick performs one Armed-state check. It returns true once the
// watchdog has fired or been deactivated, signaling Run to stop.
func (w *Watchdog) tick() bool {
	w.mu.Lock()
	if w.deactivated || w.fired {
		w.mu.Unlock()
		return true
	}

	observed := w.queue > 0
	w.queue = 0

	if observed {
		w.misses = 0
		if w.notifySystemd {
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	} else {
		w.misses++
	}

	fire := w.misses > maxMisses
	if fire {
		w.fired = true
	}
	w.mu.Unlock()

	if fire {
		w.logger.Warn("kill switch timed out")
		w.exit.Fire()
	}
	return fire
}

// KeepAlive enqueues a tick into the internal queue; the watcher drains
// it on its next check.
func (w *Watchdog) KeepAlive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue++
}

// Deactivate cancels the watcher. Only used in tests
// (SPEC_FULL.md §4.6).
func (w *Watchdog) Deactivate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deactivated = true
}
