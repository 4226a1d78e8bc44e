package discord

import "errors"

var (
	// ErrSession indicates the gateway session could not be opened.
	ErrSession = errors.New("discord session failed")

	// ErrNotReady is returned when the session did not become ready in time.
	ErrNotReady = errors.New("discord session not ready")

	// ErrSend wraps failures of Discord REST calls made for a delivery.
	ErrSend = errors.New("discord send failed")
)
