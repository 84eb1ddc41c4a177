package supervise

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"boot-go/config"
	"boot-go/logging"
)

func TestStartAudioEngine_SpawnsAndReportsLiveness(t *testing.T) {
	dir := t.TempDir()
	sink := logging.OpenSink(filepath.Join(dir, "scsynth.log"))
	defer sink.Close()

	enginePath := filepath.Join(dir, "scsynth.sh")
	if err := os.WriteFile(enginePath, []byte("#!/bin/sh\nsleep 30\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a := StartAudioEngine(context.Background(), enginePath, 30010, config.AudioOptions{}, sink, nil)
	if !a.Liveness() {
		t.Fatal("expected audio engine to be alive immediately after spawn")
	}
	a.Kill()
	if a.Liveness() {
		t.Error("expected audio engine to be dead after Kill")
	}
}
