package supervise

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"boot-go/config"
	"boot-go/hooks"
	"boot-go/logging"
	"boot-go/platform"
	"boot-go/process"
)

// jackPostStartDelay is how long the audio-engine supervisor waits
// before wiring up PulseAudio↔JACK loopback modules (SPEC_FULL.md §4.4).
const jackPostStartDelay = 5 * time.Second

// AudioEngine supervises scsynth, optionally starting and later killing
// a local JACK daemon it spawned itself.
type AudioEngine struct {
	runner       *process.Runner
	jack         *process.Runner
	startedJACK  bool
	logger       *slog.Logger
}

// StartAudioEngine runs the pre-start/start/post-start sequence of
// SPEC_FULL.md §4.4: probe for JACK on Linux-family platforms, spawn one
// if absent, start scsynth with the merged options, then (again only on
// Linux-family platforms) wire up the system's audio I/O after a short
// delay. Wiring failures are advisory and never fatal.
func StartAudioEngine(ctx context.Context, enginePath string, scsynthPort uint16, opts config.AudioOptions, sink *logging.Sink, logger *slog.Logger) *AudioEngine {
	logger = logChild(logger, "scsynth")
	a := &AudioEngine{logger: logger}

	plat := platform.Current()
	if plat.HasJACK() {
		a.ensureJACK(ctx, sink, logger)
	}

	args := append([]string{"-u", strconv.Itoa(int(scsynthPort))}, opts.Flags...)
	a.runner = process.Spawn(ctx, enginePath, args, sink, logger)

	if plat.HasJACK() {
		go a.wireAudioIO()
	}

	return a
}

// ensureJACK probes for a running JACK server and, if absent, spawns a
// local one with a dummy driver at 48kHz/1024-frame buffer.
func (a *AudioEngine) ensureJACK(ctx context.Context, sink *logging.Sink, logger *slog.Logger) {
	online := hooks.Run(hooks.Step{
		Name:    "jack-probe",
		Path:    "jack_control",
		Args:    []string{"status"},
		Timeout: 2 * time.Second,
	}, logger)

	if online {
		return
	}

	a.jack = process.Spawn(ctx, "jackd", []string{
		"-d", "dummy",
		"-r", "48000",
		"-p", "1024",
	}, sink, logger)
	a.startedJACK = true
}

// wireAudioIO waits jackPostStartDelay and then runs the PulseAudio↔JACK
// loopback wiring scripts — a different script depending on whether this
// supervisor started JACK itself.
func (a *AudioEngine) wireAudioIO() {
	time.Sleep(jackPostStartDelay)

	script := "wire-pulse-jack-external.sh"
	if a.startedJACK {
		script = "wire-pulse-jack-owned.sh"
	}

	hooks.Run(hooks.Step{
		Name:    "pulse-jack-wiring",
		Path:    script,
		Timeout: 10 * time.Second,
	}, a.logger)
}

// Liveness reports whether scsynth is still running.
func (a *AudioEngine) Liveness() bool { return a.runner.Liveness() }

// Kill terminates scsynth and, if this supervisor started a local JACK
// daemon, kills it too.
func (a *AudioEngine) Kill() {
	a.runner.Kill()
	if a.startedJACK && a.jack != nil {
		a.jack.Kill()
	}
}

// Wait blocks until scsynth exits.
func (a *AudioEngine) Wait() error { return a.runner.Wait() }
