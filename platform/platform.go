// Package platform isolates the handful of OS-dependent decisions the
// daemon makes: whether signal-based termination is available, what
// shell prefix to use when launching a script, and whether the host is
// part of the Linux audio stack the audio-engine supervisor wires up.
package platform

import "runtime"

// Platform exposes the OS-dependent facts the rest of the daemon needs.
type Platform interface {
	// SupportsSignals reports whether os.Process.Signal can deliver a
	// real termination signal on this platform.
	SupportsSignals() bool
	// ShellPrefix returns the argv prefix used to run a shell script
	// (e.g. ["sh"]), or nil on a platform without a shell.
	ShellPrefix() []string
	// HasJACK reports whether this platform runs the Linux JACK/PulseAudio
	// wiring steps around the audio engine.
	HasJACK() bool
}

// Current returns the Platform implementation for runtime.GOOS/GOARCH.
func Current() Platform {
	switch runtime.GOOS {
	case "windows":
		return windowsPlatform{}
	default:
		return unixPlatform{}
	}
}
