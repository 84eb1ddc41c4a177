package supervise

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"boot-go/logging"
)

func TestStartRuntimeServer_SpawnsAndReportsLiveness(t *testing.T) {
	dir := t.TempDir()
	sink := logging.OpenSink(filepath.Join(dir, "spider.log"))
	defer sink.Close()

	entryScript := filepath.Join(dir, "spider.sh")
	if err := os.WriteFile(entryScript, []byte("#!/bin/sh\nsleep 30\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ports := RuntimeServerPorts{
		ListenFromGUI: 30000,
		SendToGUI:     30001,
		Scsynth:       30002,
		ScsynthSend:   30003,
		OSCCues:       4560,
		Tau:           30004,
		ListenFromTau: 30005,
	}

	rs := StartRuntimeServer(context.Background(), "sh", entryScript, ports, 123, sink, nil)
	if !rs.Liveness() {
		t.Fatal("expected runtime server to be alive immediately after spawn")
	}
	rs.Kill()
	if rs.Liveness() {
		t.Error("expected runtime server to be dead after Kill")
	}
}
