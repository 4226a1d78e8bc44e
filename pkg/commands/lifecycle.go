package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/shokoauto/notifybridge/pkg/logger"
)

// State is a step of a command invocation.
type State string

const (
	StateReceived    State = "received"
	StateAuthorizing State = "authorizing"
	StateRejected    State = "rejected"
	StateDispatching State = "dispatching"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

var transitions = map[State][]State{
	StateReceived:    {StateAuthorizing},
	StateAuthorizing: {StateRejected, StateDispatching},
	StateDispatching: {StateCompleted, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Invocation tracks one Execute call. It is owned by that call and never shared.
type Invocation struct {
	ID      string
	Command string
	Caller  string
	Started time.Time

	state   State
	history []State
}

func newInvocation(command, caller string) *Invocation {
	return &Invocation{
		ID:      uuid.NewString(),
		Command: command,
		Caller:  caller,
		Started: time.Now(),
		state:   StateReceived,
		history: []State{StateReceived},
	}
}

// State returns the current state.
func (inv *Invocation) State() State { return inv.state }

// History returns every state entered so far, oldest first.
func (inv *Invocation) History() []State { return slices.Clone(inv.history) }

func (inv *Invocation) transition(to State) error {
	if !slices.Contains(transitions[inv.state], to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.state, to)
	}
	inv.state = to
	inv.history = append(inv.history, to)
	return nil
}

type invocationKey struct{}

// ContextWithInvocation stores the invocation id in ctx for log correlation.
func ContextWithInvocation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

// InvocationFromContext returns the invocation id stored in ctx, if any.
func InvocationFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invocationKey{}).(string)
	return id, ok && id != ""
}

// LoggerExtractor adds the invocation id to log records written with a command's context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := InvocationFromContext(ctx); ok {
			return logger.InvocationID(id), true
		}
		return slog.Attr{}, false
	}
}
