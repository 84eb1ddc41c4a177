package platform

// windowsPlatform has no signal-based termination and no shell prefix;
// scripts are launched directly, and the JACK/PulseAudio wiring steps
// never run.
type windowsPlatform struct{}

func (windowsPlatform) SupportsSignals() bool { return false }

func (windowsPlatform) ShellPrefix() []string { return nil }

func (windowsPlatform) HasJACK() bool { return false }
