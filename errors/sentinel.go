// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Port allocation errors.
var (
	// ErrPortsExhausted indicates the dynamic port search rolled past 65535.
	ErrPortsExhausted = &DaemonError{
		Kind:   ErrFatal,
		Detail: "no free dynamic port found in range",
	}

	// ErrPairedBeforePartner indicates a Paired policy references a name
	// that has not been resolved yet, or that is itself Paired.
	ErrPairedBeforePartner = &DaemonError{
		Kind:   ErrFatal,
		Detail: "paired port references an unresolved or chained partner",
	}
)

// Child process errors.
var (
	// ErrBeamSpawnFailed indicates the BEAM child could not be spawned at all.
	ErrBeamSpawnFailed = &DaemonError{
		Kind:   ErrFatal,
		Detail: "could not spawn BEAM child",
	}

	// ErrChildNotRunning indicates an operation was attempted on a child
	// that is not alive.
	ErrChildNotRunning = &DaemonError{
		Kind:   ErrChildIO,
		Detail: "child is not running",
	}

	// ErrNoSuchProcess indicates a signal targeted a pid that has already
	// exited. Kill treats this as success.
	ErrNoSuchProcess = &DaemonError{
		Kind:   ErrChildIO,
		Detail: "no such process",
	}
)

// Control protocol errors.
var (
	// ErrTokenMismatch indicates a control message carried the wrong token.
	ErrTokenMismatch = &DaemonError{
		Kind:   ErrChildIO,
		Detail: "token mismatch",
	}

	// ErrMalformedPacket indicates an inbound datagram could not be parsed.
	ErrMalformedPacket = &DaemonError{
		Kind:   ErrChildIO,
		Detail: "malformed control packet",
	}
)

// Configuration errors.
var (
	// ErrConfigUnreadable indicates a config file could not be opened or parsed.
	ErrConfigUnreadable = &DaemonError{
		Kind:   ErrConfig,
		Detail: "config file unreadable",
	}
)

// Log/IO errors.
var (
	// ErrLogUnopenable indicates a log file could not be opened for append.
	ErrLogUnopenable = &DaemonError{
		Kind:   ErrTransient,
		Detail: "log file unopenable",
	}
)
