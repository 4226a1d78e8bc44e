package controlapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream wraps every failure to get a usable answer from the control API.
	ErrUpstream = errors.New("control API request failed")

	ErrInvalidURL      = errors.New("invalid control API URL")
	ErrTimeout         = errors.New("control API request timeout")
	ErrUnreachable     = errors.New("control API unreachable")
	ErrInvalidResponse = errors.New("invalid control API response")
	ErrCircuitOpen     = errors.New("control API circuit breaker is open")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	// Message is the API's {"error": ...} text when present, sanitized and truncated.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("control API returned status %d", e.Code)
	}
	return fmt.Sprintf("control API returned status %d: %s", e.Code, e.Message)
}

// Reason returns a short description of err that is safe to display to end users.
// Transport details and raw response bodies are never included.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	switch {
	case errors.As(err, &se):
		if se.Message != "" {
			return fmt.Sprintf("HTTP %d: %s", se.Code, se.Message)
		}
		return fmt.Sprintf("HTTP %d", se.Code)
	case errors.Is(err, ErrTimeout):
		return "request timed out"
	case errors.Is(err, ErrCircuitOpen):
		return "control API temporarily disabled after repeated failures"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid response from control API"
	default:
		return "control API unreachable"
	}
}
