package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Sink is an append-only, timestamped log file. It is safe for concurrent
// use: every WriteLine call is serialized so interleaved writers (a
// ProcessRunner's stdout/stderr relay goroutines, the Orchestrator itself)
// always produce whole, line-oriented records.
//
// Opening a Sink never fails loudly: if the file cannot be opened, the Sink
// degrades to an in-memory no-op and every WriteLine call returns nil. This
// matches the daemon's transient-I/O policy (SPEC_FULL.md §7): logging
// failures are reported once and never propagate as fatal errors.
type Sink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// OpenSink opens (or creates) path for appending. On failure it logs once
// to stderr and returns a degraded Sink that silently drops writes.
func OpenSink(path string) *Sink {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: could not open %s: %v (degrading to no-op)\n", path, err)
		return &Sink{path: path}
	}
	return &Sink{file: f, path: path}
}

// WriteLine appends a single timestamped line. Trailing newlines in line
// are not duplicated.
func (s *Sink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	stamp := time.Now().Format(time.RFC3339)
	line = strings.TrimRight(line, "\n")
	_, err := fmt.Fprintf(s.file, "[%s] %s\n", stamp, line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: write to %s failed: %v\n", s.path, err)
		return nil
	}
	return nil
}

// Writer returns an io.Writer suitable for io.Copy-style relays; each
// Write call is treated as one (possibly multi-line) chunk and is not
// split into individually timestamped lines. Prefer WriteLine for
// line-oriented output.
func (s *Sink) Writer() io.Writer {
	return sinkWriter{s}
}

type sinkWriter struct{ s *Sink }

func (w sinkWriter) Write(p []byte) (int, error) {
	_ = w.s.WriteLine(string(p))
	return len(p), nil
}

// Close closes the underlying file, if any. Idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// FormatError renders an error as "<op>: <err>", or just op when err is
// nil. The other packages in this daemon do not call it; their log sites
// use err.Error() directly.
func FormatError(op string, err error) string {
	if err == nil {
		return op
	}
	return fmt.Sprintf("%s: %v", op, err)
}
