package daemon

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-uuid"

	"log/slog"

	"boot-go/config"
	"boot-go/control"
	cerrors "boot-go/errors"
	"boot-go/killswitch"
	"boot-go/logging"
	"boot-go/ports"
	"boot-go/safeexit"
	"boot-go/supervise"
)

// Boot runs the strictly-ordered startup sequence of SPEC_FULL.md §4.8
// and blocks until shutdown. It returns a nonzero-exit-worthy error only
// for the fatal conditions that can occur before the main loop begins
// (port exhaustion, BEAM spawn failure); everything after the children
// are up funnels through SafeExit instead of an error return.
func Boot(ctx context.Context, opts *Options) error {
	opts = opts.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	bootID, _ := uuid.GenerateUUID()
	logger = logging.WithBoot(logger, bootID)

	// Step 1: open the daemon log file.
	daemonLog := logging.OpenSink(filepath.Join(opts.LogDir, "daemon.log"))

	// Step 2: rotate logs. Never fatal.
	if err := logging.RotateLogs(opts.LogDir); err != nil {
		logger.Warn("log rotation failed", slog.String("error", err.Error()))
	}

	// Step 3: discover ports. Failure is fatal.
	portMap, err := ports.Allocate(opts.LoopbackAddr, logger)
	if err != nil {
		logger.Error("port allocation failed", slog.String("error", err.Error()))
		daemonLog.Close()
		return err
	}

	// Step 4: construct the kill switch, armed at t+40s.
	exitPromise := killswitch.NewExitPromise()
	watchdog := killswitch.NewWatchdog(exitPromise, logger)
	go watchdog.Run()

	token := newToken()

	audioConfig := config.LoadAudioConfig(opts.AudioConfigPath, logger)
	runtimeConfig := config.LoadRuntimeConfig(opts.RuntimeConfigPath, logger)
	env := runtimeConfig.Env
	if opts.RuntimeEnvOverride != "" {
		env = opts.RuntimeEnvOverride
	}
	if runtimeConfig.HTTPPort > 0 {
		logger.Info("overriding dynamically-allocated phx port from runtime config",
			slog.Int("http_port", runtimeConfig.HTTPPort))
		portMap["phx"] = uint16(runtimeConfig.HTTPPort)
	}

	// Step 5: boot the BEAM child and wait (best-effort) for its pid.
	beamSink := logging.OpenSink(filepath.Join(opts.LogDir, "beam-child.log"))
	beamPorts := supervise.BeamIOPorts{
		OSCCues: portMap["osc-cues"],
		API:     portMap["phx"],
		Spider:  portMap["spider"],
		Daemon:  portMap["daemon"],
	}
	beam := supervise.StartBeamIO(ctx, opts.BeamLauncherPath, filepath.Join(opts.LogDir, "beam-child.log"),
		beamPorts, opts.MidiEnabled, opts.LinkEnabled, portMap["phx"], token, env, beamSink, logger)
	if !beam.Liveness() {
		logger.Error("beam child could not be spawned", slog.String("launcher", opts.BeamLauncherPath))
		beam.Kill()
		watchdog.Deactivate()
		_ = beamSink.Close()
		daemonLog.Close()
		return cerrors.ErrBeamSpawnFailed
	}

	pidRequester := control.NewPidRequester(opts.LoopbackAddr, portMap["tau"], token, logger)
	beam.OnPidTick = pidRequester.Tick

	if _, err := beam.WaitForPid(); err != nil {
		logger.Warn("beam child pid not reported within bound, proceeding anyway",
			slog.String("error", err.Error()))
	}

	// Step 6: start the control server.
	controlServer := control.NewServer(opts.LoopbackAddr, portMap["daemon"], token, watchdog, exitPromise, beam, logger)
	go controlServer.Run()

	// Step 7: emit the stdout handshake line and flush.
	fmt.Printf("%d %d %d %d %d %d %d %d\n",
		portMap["daemon"],
		portMap["gui-listen-to-spider"],
		portMap["gui-send-to-spider"],
		portMap["scsynth"],
		portMap["osc-cues"],
		portMap["tau"],
		portMap["phx"],
		token,
	)
	os.Stdout.Sync()

	// Step 8: boot the audio engine.
	audioSink := logging.OpenSink(filepath.Join(opts.LogDir, "audio-engine.log"))
	audioEngine := supervise.StartAudioEngine(ctx, opts.AudioEnginePath, portMap["scsynth"], audioConfig, audioSink, logger)

	// Step 9: boot the runtime server.
	runtimeSink := logging.OpenSink(filepath.Join(opts.LogDir, "runtime-server.log"))
	runtimeServer := supervise.StartRuntimeServer(ctx, opts.RuntimeInterpreter, opts.RuntimeEntryScript,
		supervise.RuntimeServerPorts{
			ListenFromGUI: portMap["gui-listen-to-spider"],
			SendToGUI:     portMap["gui-send-to-spider"],
			Scsynth:       portMap["scsynth"],
			ScsynthSend:   portMap["scsynth-send"],
			OSCCues:       portMap["osc-cues"],
			Tau:           portMap["tau"],
			ListenFromTau: portMap["spider-listen-to-tau"],
		}, token, runtimeSink, logger)

	guard := safeexit.New(daemonLog, logger, audioEngine, runtimeServer, beam)

	// Step 10: block on the exit promise, then run cleanup exactly once.
	exitPromise.Wait()
	guard.Run()

	_ = audioSink.Close()
	_ = runtimeSink.Close()
	_ = beamSink.Close()

	return nil
}

// newToken returns a signed 32-bit token (SPEC_FULL.md §8: "fits in a
// signed 32-bit integer and is stable across the process lifetime").
func newToken() int32 {
	return int32(rand.Uint32())
}
