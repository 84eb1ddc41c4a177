package supervise

import (
	"testing"
	"time"
)

func TestBeamPidPromise_FulfillOnce(t *testing.T) {
	p := NewBeamPidPromise()
	if p.Filled() {
		t.Fatal("fresh promise should not be filled")
	}

	p.Fulfill(1234)
	if !p.Filled() {
		t.Fatal("promise should be filled after Fulfill")
	}

	p.Fulfill(5678)
	pid, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if pid != 1234 {
		t.Errorf("pid = %d, want 1234 (first Fulfill wins)", pid)
	}
}

func TestBeamPidPromise_WaitBlocksUntilFulfilled(t *testing.T) {
	p := NewBeamPidPromise()

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.Fulfill(42)
	}()

	pid, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if pid != 42 {
		t.Errorf("pid = %d, want 42", pid)
	}
}

func TestBeamPidPromise_Reset(t *testing.T) {
	p := NewBeamPidPromise()
	p.Fulfill(1)
	p.Reset()
	if p.Filled() {
		t.Error("promise should be unfilled after Reset")
	}
}
