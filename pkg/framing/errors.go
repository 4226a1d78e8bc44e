package framing

import "errors"

var (
	// ErrFrameTooLarge is returned when buffered bytes without a terminator exceed the cap.
	ErrFrameTooLarge = errors.New("framing: buffered frame exceeds maximum size")
)
