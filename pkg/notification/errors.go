package notification

import "errors"

var (
	// ErrDecode wraps every failure to turn a frame into a Record.
	ErrDecode = errors.New("notification: malformed frame")
)
