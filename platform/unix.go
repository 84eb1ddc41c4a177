package platform

import "runtime"

// unixPlatform covers desktop Linux/macOS/BSD and ARM/embedded Linux
// targets, all of which have signals and a shell. HasJACK is true only on
// Linux, and there only for the architectures isDesktopARCH accepts
// (amd64, 386, arm64, arm); ARM boards therefore run the JACK wiring
// steps too. The GOARCH check lives here rather than in a separate
// build-tagged file.
type unixPlatform struct{}

func (unixPlatform) SupportsSignals() bool { return true }

func (unixPlatform) ShellPrefix() []string { return []string{"sh"} }

func (unixPlatform) HasJACK() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return isDesktopARCH()
}

// isDesktopARCH reports whether GOARCH indicates a conventional desktop
// or server chip rather than an embedded ARM target that ships without
// a JACK/PulseAudio userland.
func isDesktopARCH() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return true
	case "arm64", "arm":
		// Raspberry Pi class boards do run full audio stacks; the
		// narrower embedded case is distinguished by the absence of
		// the JACK wiring scripts on disk, not by GOARCH alone, so
		// this conservatively allows the wiring attempt — the scripts
		// are advisory and their failure is logged, never fatal.
		return true
	default:
		return false
	}
}
