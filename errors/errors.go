// Package errors provides typed error handling for the boot-go daemon.
//
// It defines the four error categories the daemon distinguishes (see
// SPEC_FULL.md §7): transient I/O, transient child errors, configuration
// errors, and fatal conditions. All errors support errors.Is/errors.As.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DaemonError.
type ErrorKind int

const (
	// ErrTransient indicates a transient I/O error (log open/write failure).
	// Policy: report once, degrade to a no-op, never fatal.
	ErrTransient ErrorKind = iota
	// ErrChildIO indicates a transient error to or from a child process
	// (closed pipe, unknown pid, missing signal target).
	// Policy: log and continue; Kill treats "no such process" as success.
	ErrChildIO
	// ErrConfig indicates a configuration error (missing/malformed file,
	// unknown key, out-of-range value).
	// Policy: log, fall back to defaults, continue.
	ErrConfig
	// ErrFatal indicates an unrecoverable condition (no free ports, BEAM
	// child cannot be spawned, a Paired port references an unresolved
	// partner).
	// Policy: log with full context and invoke SafeExit.
	ErrFatal
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrTransient:
		return "transient I/O"
	case ErrChildIO:
		return "child I/O"
	case ErrConfig:
		return "configuration"
	case ErrFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// DaemonError represents an error that occurred during a daemon operation.
type DaemonError struct {
	// Op is the operation that failed (e.g. "allocate", "spawn", "kill").
	Op string
	// Component names the component the error occurred in (e.g. "scsynth", "tau").
	Component string
	// Err is the underlying error, if any.
	Err error
	// Kind is the error classification.
	Kind ErrorKind
	// Detail provides additional human-readable context.
	Detail string
}

// Error returns the error message.
func (e *DaemonError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Component != "" {
		msg = fmt.Sprintf("%s: ", e.Component)
	}
	if e.Op != "" {
		msg += fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DaemonError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the error matches the target. It matches if the
// target is a *DaemonError with the same Kind.
func (e *DaemonError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if t, ok := target.(*DaemonError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Option attaches optional context to a DaemonError built by New or Wrap.
type Option func(*DaemonError)

// WithComponent attaches a component name (e.g. "scsynth", "tau").
func WithComponent(component string) Option {
	return func(e *DaemonError) { e.Component = component }
}

// WithDetail attaches a human-readable detail string.
func WithDetail(detail string) Option {
	return func(e *DaemonError) { e.Detail = detail }
}

// New creates a DaemonError with the given kind and operation, applying
// any options (WithComponent, WithDetail).
func New(kind ErrorKind, op string, opts ...Option) *DaemonError {
	e := &DaemonError{Op: op, Kind: kind}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wrap wraps err with an operation and kind, applying any options
// (WithComponent, WithDetail).
func Wrap(err error, kind ErrorKind, op string, opts ...Option) *DaemonError {
	e := &DaemonError{Op: op, Err: err, Kind: kind}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsKind reports whether err is a DaemonError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var derr *DaemonError
	if errors.As(err, &derr) {
		return derr.Kind == kind
	}
	return false
}

// GetKind returns the error kind if err is a DaemonError.
func GetKind(err error) (ErrorKind, bool) {
	var derr *DaemonError
	if errors.As(err, &derr) {
		return derr.Kind, true
	}
	return 0, false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
