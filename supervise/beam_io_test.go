package supervise

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boot-go/logging"
)

func TestStartBeamIO_SpawnsAndReportsPid(t *testing.T) {
	dir := t.TempDir()
	sink := logging.OpenSink(filepath.Join(dir, "tau.log"))
	defer sink.Close()

	launcher := filepath.Join(dir, "tau.sh")
	if err := os.WriteFile(launcher, []byte("#!/bin/sh\nsleep 30\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ports := BeamIOPorts{OSCCues: 4560, API: 30020, Spider: 30021, Daemon: 30022}
	b := StartBeamIO(context.Background(), launcher, filepath.Join(dir, "beam-child.log"), ports, true, true, 30023, 99, "dev", sink, nil)
	defer b.Kill()

	if !b.Liveness() {
		t.Fatal("expected tau to be alive immediately after spawn")
	}
	if b.pid.Filled() {
		t.Fatal("pid promise should be unfilled before any report")
	}

	b.ReportPid(54321)
	pid, err := b.pid.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if pid != 54321 {
		t.Errorf("pid = %d, want 54321", pid)
	}
}

func TestBeamIO_RestartCollapsesConcurrentRequests(t *testing.T) {
	dir := t.TempDir()
	sink := logging.OpenSink(filepath.Join(dir, "tau.log"))
	defer sink.Close()

	launcher := filepath.Join(dir, "tau.sh")
	if err := os.WriteFile(launcher, []byte("#!/bin/sh\ntrap 'exit 0' TERM\nsleep 30\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ports := BeamIOPorts{OSCCues: 4560, API: 30030, Spider: 30031, Daemon: 30032}
	b := StartBeamIO(context.Background(), launcher, filepath.Join(dir, "beam-child.log"), ports, false, false, 30033, 1, "dev", sink, nil)
	defer b.Kill()

	b.ReportPid(111)

	done := make(chan struct{})
	go func() {
		b.Restart()
		close(done)
	}()
	// Fire a second restart request almost immediately; it should be
	// dropped rather than queued, per SPEC_FULL.md §4.4.
	time.Sleep(2 * time.Millisecond)
	b.Restart()

	<-done

	if !b.Liveness() {
		t.Error("expected tau to be alive again after restart completes")
	}
}

