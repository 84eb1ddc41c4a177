package supervise

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"boot-go/logging"
	"boot-go/platform"
	"boot-go/process"
)

// pidRequestInterval is how often the daemon re-requests the BEAM
// child's pid over the control channel until it is reported
// (SPEC_FULL.md §4.4 and §6).
const pidRequestInterval = time.Second

// BeamIOPorts names the ports BeamIO's argument vector needs.
type BeamIOPorts struct {
	OSCCues uint16
	API     uint16
	Spider  uint16
	Daemon  uint16
}

// BeamIO supervises the BEAM-based IO server ("tau"). Restart is
// guarded by a mutex and a re-entry flag so concurrent restart requests
// collapse to at most one in-flight restart.
type BeamIO struct {
	mu         sync.Mutex
	restarting bool
	runner     *process.Runner
	pid        *BeamPidPromise
	stopPidReq chan struct{}

	launcher    string
	logPath     string
	ports       BeamIOPorts
	midiEnabled bool
	linkEnabled bool
	phxPort     uint16
	token       int32
	env         string
	sink        *logging.Sink
	logger      *slog.Logger
	ctx         context.Context

	// OnPidTick, if set, is invoked on each pid-request interval while
	// the child's pid remains unreported. The Orchestrator wires this
	// to the control server's outbound "/send-pid-to-daemon" send.
	OnPidTick func()
}

// StartBeamIO builds the 15-item argument vector of SPEC_FULL.md §4.4 and
// spawns tau, then starts the background pid-request loop.
func StartBeamIO(ctx context.Context, launcher, logPath string, ports BeamIOPorts, midiEnabled, linkEnabled bool, phxPort uint16, token int32, env string, sink *logging.Sink, logger *slog.Logger) *BeamIO {
	b := &BeamIO{
		launcher:    launcher,
		logPath:     logPath,
		ports:       ports,
		midiEnabled: midiEnabled,
		linkEnabled: linkEnabled,
		phxPort:     phxPort,
		token:       token,
		env:         env,
		sink:        sink,
		logger:      logChild(logger, "tau"),
		ctx:         ctx,
		pid:         NewBeamPidPromise(),
	}
	b.spawn()
	b.startPidRequestLoop()
	return b
}

// buildArgs constructs the 15-item fixed-order argument vector:
// cues-on, udp-loopback-restricted, midi-on, link-on, udp-cues-port,
// api-port, spider-port, daemon-port, log-path, midi-enabled,
// link-enabled, phx-port, phx-secret, token, env.
func (b *BeamIO) buildArgs() []string {
	return []string{
		"1",
		"1",
		boolFlag(b.midiEnabled),
		boolFlag(b.linkEnabled),
		strconv.Itoa(int(b.ports.OSCCues)),
		strconv.Itoa(int(b.ports.API)),
		strconv.Itoa(int(b.ports.Spider)),
		strconv.Itoa(int(b.ports.Daemon)),
		b.logPath,
		boolFlag(b.midiEnabled),
		boolFlag(b.linkEnabled),
		strconv.Itoa(int(b.phxPort)),
		newPhxSecret(),
		strconv.Itoa(int(b.token)),
		b.env,
	}
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// newPhxSecret returns a fresh 64-byte random value, base64-encoded, for
// the Phoenix endpoint secret (SPEC_FULL.md §4.4).
func newPhxSecret() string {
	buf := make([]byte, 64)
	_, _ = rand.Read(buf)
	return base64.StdEncoding.EncodeToString(buf)
}

// spawn starts the launcher: a bare invocation on a platform without a
// shell, otherwise prefixed with "sh".
func (b *BeamIO) spawn() {
	args := b.buildArgs()

	name := b.launcher
	finalArgs := args
	if prefix := platform.Current().ShellPrefix(); len(prefix) > 0 {
		name = prefix[0]
		finalArgs = append(append([]string{}, prefix[1:]...), append([]string{b.launcher}, args...)...)
	}

	b.runner = process.Spawn(b.ctx, name, finalArgs, b.sink, b.logger)
}

// startPidRequestLoop re-requests the BEAM child's pid at
// pidRequestInterval until the promise is fulfilled or the loop is
// stopped.
func (b *BeamIO) startPidRequestLoop() {
	stop := make(chan struct{})
	b.stopPidReq = stop

	go func() {
		ticker := time.NewTicker(pidRequestInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if b.pid.Filled() {
					return
				}
				if b.OnPidTick != nil {
					b.OnPidTick()
				}
			}
		}
	}()
}

// stopPidRequestLoop stops the pid-request loop if it is running. Safe
// to call more than once.
func (b *BeamIO) stopPidRequestLoop() {
	b.mu.Lock()
	stop := b.stopPidReq
	b.stopPidReq = nil
	b.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

// WaitForPid blocks (bounded) until the BEAM child reports its pid, or
// until the wait times out. Used by the Orchestrator's boot step 5
// (SPEC_FULL.md §4.8).
func (b *BeamIO) WaitForPid() (int, error) {
	b.mu.Lock()
	p := b.pid
	b.mu.Unlock()
	return p.Wait()
}

// ReportPid fulfills the pid promise; called by the control server when
// a "/tau/pid" message arrives.
func (b *BeamIO) ReportPid(pid int) {
	b.mu.Lock()
	p := b.pid
	b.mu.Unlock()
	p.Fulfill(pid)
}

// Restart collapses concurrent restart requests into at most one
// in-flight restart: a request arriving while one is already running is
// dropped. Restart waits up to 30s for the child's self-reported pid,
// then kills the child and spawns a fresh incarnation.
func (b *BeamIO) Restart() {
	b.mu.Lock()
	if b.restarting {
		b.mu.Unlock()
		return
	}
	b.restarting = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.restarting = false
		b.mu.Unlock()
	}()

	b.stopPidRequestLoop()
	_, _ = b.pid.Wait()
	b.runner.Kill()

	b.mu.Lock()
	b.pid = NewBeamPidPromise()
	b.mu.Unlock()

	b.spawn()
	b.startPidRequestLoop()
}

// Liveness reports whether tau is still running.
func (b *BeamIO) Liveness() bool { return b.runner.Liveness() }

// Kill terminates tau, first tearing down the pid-request loop.
func (b *BeamIO) Kill() {
	b.stopPidRequestLoop()
	b.runner.Kill()
}

// Wait blocks until tau exits.
func (b *BeamIO) Wait() error { return b.runner.Wait() }
