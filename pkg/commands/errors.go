package commands

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not in the allow-list.
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrUnknownCommand is returned for names missing from the command table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArgs is returned when an option is outside its bounds.
	ErrInvalidArgs = errors.New("invalid command arguments")

	// ErrHandlerPanic is returned when a command handler panicked.
	ErrHandlerPanic = errors.New("command handler panicked")

	// ErrInvalidTransition is returned for a lifecycle change the table does not allow.
	ErrInvalidTransition = errors.New("invalid invocation state transition")
)
