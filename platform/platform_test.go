package platform

import "testing"

func TestCurrent_ReturnsNonNil(t *testing.T) {
	p := Current()
	if p == nil {
		t.Fatal("Current() returned nil")
	}
	// Exercise every method so a panic in a platform impl surfaces here.
	_ = p.SupportsSignals()
	_ = p.ShellPrefix()
	_ = p.HasJACK()
}

func TestUnixPlatform_SupportsSignalsAndShell(t *testing.T) {
	p := unixPlatform{}
	if !p.SupportsSignals() {
		t.Error("unix platform should support signals")
	}
	if len(p.ShellPrefix()) == 0 {
		t.Error("unix platform should have a shell prefix")
	}
}

func TestWindowsPlatform_NoSignalsNoShell(t *testing.T) {
	p := windowsPlatform{}
	if p.SupportsSignals() {
		t.Error("windows platform should not support signal-based termination")
	}
	if p.ShellPrefix() != nil {
		t.Error("windows platform should have no shell prefix")
	}
	if p.HasJACK() {
		t.Error("windows platform should never run JACK wiring")
	}
}
