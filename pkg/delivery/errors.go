package delivery

import "errors"

var (
	// ErrDelivery wraps the failure of one target.
	ErrDelivery = errors.New("delivery failed")

	// ErrUnknownTargetKind is returned for targets that are neither channels nor direct messages.
	ErrUnknownTargetKind = errors.New("unknown target kind")

	// ErrSenderPanic is returned when the sender panicked while sending to a target.
	ErrSenderPanic = errors.New("sender panicked")
)
