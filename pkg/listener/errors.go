package listener

import "errors"

var (
	// ErrStart indicates that the listener failed to start.
	ErrStart = errors.New("failed to start notification listener")
	// ErrShutdown indicates that open connections did not close in time.
	ErrShutdown = errors.New("failed to shutdown notification listener gracefully")
)
