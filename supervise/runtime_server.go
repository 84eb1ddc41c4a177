package supervise

import (
	"context"
	"log/slog"
	"strconv"

	"boot-go/logging"
	"boot-go/process"
)

// RuntimeServer supervises the language/runtime server ("spider"). It
// has no pre/post steps and no restart support — it lives for the
// daemon's whole lifetime.
type RuntimeServer struct {
	runner *process.Runner
}

// StartRuntimeServer builds the runtime server's command line — the
// interpreter, the entry script, "-u", the seven ports it needs in
// order, and the token — and spawns it (SPEC_FULL.md §4.4).
func StartRuntimeServer(ctx context.Context, interpreter, entryScript string, ports RuntimeServerPorts, token int32, sink *logging.Sink, logger *slog.Logger) *RuntimeServer {
	args := []string{
		entryScript,
		"-u",
		strconv.Itoa(int(ports.ListenFromGUI)),
		strconv.Itoa(int(ports.SendToGUI)),
		strconv.Itoa(int(ports.Scsynth)),
		strconv.Itoa(int(ports.ScsynthSend)),
		strconv.Itoa(int(ports.OSCCues)),
		strconv.Itoa(int(ports.Tau)),
		strconv.Itoa(int(ports.ListenFromTau)),
		strconv.Itoa(int(token)),
	}

	runner := process.Spawn(ctx, interpreter, args, sink, logChild(logger, "spider"))
	return &RuntimeServer{runner: runner}
}

// RuntimeServerPorts names the seven ports the runtime server's command
// line needs, in the fixed order SPEC_FULL.md §4.4 specifies.
type RuntimeServerPorts struct {
	ListenFromGUI uint16
	SendToGUI     uint16
	Scsynth       uint16
	ScsynthSend   uint16
	OSCCues       uint16
	Tau           uint16
	ListenFromTau uint16
}

// Liveness reports whether the runtime server is still running.
func (s *RuntimeServer) Liveness() bool { return s.runner.Liveness() }

// Kill terminates the runtime server.
func (s *RuntimeServer) Kill() { s.runner.Kill() }

// Wait blocks until the runtime server exits.
func (s *RuntimeServer) Wait() error { return s.runner.Wait() }
