package control

import (
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
)

type fakeKeepAliver struct{ calls int }

func (f *fakeKeepAliver) KeepAlive() { f.calls++ }

type fakeExiter struct{ calls int }

func (f *fakeExiter) Fire() { f.calls++ }

type fakeRestarter struct {
	restarts   int
	reportedPid int
}

func (f *fakeRestarter) Restart()           { f.restarts++ }
func (f *fakeRestarter) ReportPid(pid int)  { f.reportedPid = pid }

func TestServer_KeepAliveTokenMatch(t *testing.T) {
	ka := &fakeKeepAliver{}
	s := NewServer("127.0.0.1", 0, 42, ka, &fakeExiter{}, &fakeRestarter{}, nil)

	msg := osc.NewMessage("/daemon/keep-alive")
	msg.Append(int32(42))
	s.handleKeepAlive(msg)

	if ka.calls != 1 {
		t.Errorf("KeepAlive called %d times, want 1", ka.calls)
	}
}

func TestServer_TokenMismatchDropped(t *testing.T) {
	ka := &fakeKeepAliver{}
	s := NewServer("127.0.0.1", 0, 42, ka, &fakeExiter{}, &fakeRestarter{}, nil)

	msg := osc.NewMessage("/daemon/keep-alive")
	msg.Append(int32(999))
	s.handleKeepAlive(msg)

	if ka.calls != 0 {
		t.Errorf("KeepAlive should not be called on token mismatch, got %d calls", ka.calls)
	}
}

func TestServer_MalformedPacketDropped(t *testing.T) {
	ka := &fakeKeepAliver{}
	s := NewServer("127.0.0.1", 0, 42, ka, &fakeExiter{}, &fakeRestarter{}, nil)

	msg := osc.NewMessage("/daemon/keep-alive")
	s.handleKeepAlive(msg)

	if ka.calls != 0 {
		t.Errorf("KeepAlive should not be called on malformed packet, got %d calls", ka.calls)
	}
}

func TestServer_Exit(t *testing.T) {
	ex := &fakeExiter{}
	s := NewServer("127.0.0.1", 0, 7, &fakeKeepAliver{}, ex, &fakeRestarter{}, nil)

	msg := osc.NewMessage("/daemon/exit")
	msg.Append(int32(7))
	s.handleExit(msg)

	if ex.calls != 1 {
		t.Errorf("Fire called %d times, want 1", ex.calls)
	}
}

func TestServer_RestartTau(t *testing.T) {
	beam := &fakeRestarter{}
	s := NewServer("127.0.0.1", 0, 7, &fakeKeepAliver{}, &fakeExiter{}, beam, nil)

	msg := osc.NewMessage("/daemon/restart-tau")
	msg.Append(int32(7))
	s.handleRestartTau(msg)

	if beam.restarts != 1 {
		t.Errorf("Restart called %d times, want 1", beam.restarts)
	}
}

func TestServer_TauPid(t *testing.T) {
	beam := &fakeRestarter{}
	s := NewServer("127.0.0.1", 0, 7, &fakeKeepAliver{}, &fakeExiter{}, beam, nil)

	msg := osc.NewMessage("/tau/pid")
	msg.Append(int32(7))
	msg.Append(int32(12345))
	s.handleTauPid(msg)

	if beam.reportedPid != 12345 {
		t.Errorf("reportedPid = %d, want 12345", beam.reportedPid)
	}
}

func TestServer_TauPidMissingArgDropped(t *testing.T) {
	beam := &fakeRestarter{}
	s := NewServer("127.0.0.1", 0, 7, &fakeKeepAliver{}, &fakeExiter{}, beam, nil)

	msg := osc.NewMessage("/tau/pid")
	msg.Append(int32(7))
	s.handleTauPid(msg)

	if beam.reportedPid != 0 {
		t.Errorf("reportedPid should remain 0 on malformed packet, got %d", beam.reportedPid)
	}
}

func TestPidRequester_TickDoesNotPanic(t *testing.T) {
	r := NewPidRequester("127.0.0.1", 0, 1, nil)
	r.Tick()
	time.Sleep(time.Millisecond)
}
