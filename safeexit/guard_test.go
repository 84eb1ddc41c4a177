package safeexit

import (
	"sync"
	"sync/atomic"
	"testing"
)

type countingTerminator struct {
	kills atomic.Int32
}

func (c *countingTerminator) Kill() { c.kills.Add(1) }

type countingCloser struct {
	closes atomic.Int32
}

func (c *countingCloser) Close() error {
	c.closes.Add(1)
	return nil
}

func TestGuard_RunKillsAllChildrenAndClosesLog(t *testing.T) {
	a := &countingTerminator{}
	b := &countingTerminator{}
	log := &countingCloser{}

	g := New(log, nil, a, b)
	g.Run()

	if a.kills.Load() != 1 {
		t.Errorf("child a killed %d times, want 1", a.kills.Load())
	}
	if b.kills.Load() != 1 {
		t.Errorf("child b killed %d times, want 1", b.kills.Load())
	}
	if log.closes.Load() != 1 {
		t.Errorf("log closed %d times, want 1", log.closes.Load())
	}
}

func TestGuard_RunIsIdempotentUnderConcurrency(t *testing.T) {
	a := &countingTerminator{}
	log := &countingCloser{}
	g := New(log, nil, a)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Run()
		}()
	}
	wg.Wait()

	if a.kills.Load() != 1 {
		t.Errorf("child killed %d times across concurrent Run calls, want exactly 1", a.kills.Load())
	}
	if log.closes.Load() != 1 {
		t.Errorf("log closed %d times across concurrent Run calls, want exactly 1", log.closes.Load())
	}
}

func TestGuard_NilLogSinkDoesNotPanic(t *testing.T) {
	g := New(nil, nil)
	g.Run()
}
