// Package daemon wires every other package into the Orchestrator: the
// strictly-ordered boot sequence that opens logs, discovers ports, boots
// the three children, announces the stdout handshake, and blocks until
// shutdown.
package daemon

import (
	"log/slog"
	"os"
)

// envRuntimeEnv is the optional environment variable that selects the
// BEAM child's runtime environment (SPEC_FULL.md §6 "one optional
// variable selects the BEAM child's runtime environment, accepting
// only dev or prod"). The CLI's --env flag takes precedence over it.
const envRuntimeEnv = "BOOT_GO_ENV"

// Options configures a single Boot call. LoopbackAddr and LogDir get a
// default when left empty; the other paths have none. Missing config
// files are normal (SPEC_FULL.md §6).
type Options struct {
	// LogDir holds the six canonical logs and the history/ subdirectory.
	LogDir string
	// AudioConfigPath is the optional scsynth options file.
	AudioConfigPath string
	// RuntimeConfigPath is the optional BEAM-child environment file.
	RuntimeConfigPath string

	// RuntimeInterpreter and RuntimeEntryScript launch the runtime server.
	RuntimeInterpreter string
	RuntimeEntryScript string

	// AudioEnginePath launches scsynth.
	AudioEnginePath string

	// BeamLauncherPath launches tau.
	BeamLauncherPath string

	// LoopbackAddr is the address every UDP listener binds to.
	LoopbackAddr string

	// RuntimeEnvOverride, if non-empty, takes precedence over the
	// runtime config file's env field and the environment variable
	// (SPEC_FULL.md §6 "one optional variable selects the BEAM child's
	// runtime environment").
	RuntimeEnvOverride string

	// MidiEnabled and LinkEnabled are passed straight through to the
	// BEAM child's argument vector.
	MidiEnabled bool
	LinkEnabled bool

	// Logger is the base logger; a per-boot correlation id is attached
	// to it before use.
	Logger *slog.Logger
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.LoopbackAddr == "" {
		out.LoopbackAddr = "127.0.0.1"
	}
	if out.LogDir == "" {
		out.LogDir = "."
	}
	if out.RuntimeEnvOverride == "" {
		if v := os.Getenv(envRuntimeEnv); v == "dev" || v == "prod" {
			out.RuntimeEnvOverride = v
		}
	}
	return &out
}
