package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/metrics"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// Request is one command invocation.
type Request struct {
	Command string
	Args    Args
	Caller  string

	// OnProgress, when set, receives interim records such as the search
	// "started" notice before the final result is ready.
	OnProgress func(ctx context.Context, rec notification.Record)
}

// Result is the outcome of Execute. Record is always set.
type Result struct {
	Record       notification.Record
	InvocationID string
	State        State
	History      []State
	// Private marks replies meant only for the caller, such as a denial.
	Private bool
}

// Bridge executes commands. Safe for concurrent use; invocations share no
// mutable state.
type Bridge struct {
	api      API
	tr       i18n.Renderer
	allowed  map[string]struct{}
	commands []Command
	byName   map[string]Command
	logger   *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithAllowedUsers restricts commands to the given caller ids. An empty list
// allows everyone.
func WithAllowedUsers(ids ...string) Option {
	return func(b *Bridge) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				b.allowed[id] = struct{}{}
			}
		}
	}
}

// WithLogger sets the logger for the Bridge.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Bridge over api that renders text with tr.
func New(api API, tr i18n.Renderer, opts ...Option) *Bridge {
	b := &Bridge{
		api:      api,
		tr:       tr,
		allowed:  make(map[string]struct{}),
		commands: builtinCommands(),
		logger:   slog.Default(),
	}
	b.byName = make(map[string]Command, len(b.commands))
	for _, cmd := range b.commands {
		b.byName[cmd.Name] = cmd
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Commands returns the command table in registration order.
func (b *Bridge) Commands() []Command {
	return append([]Command(nil), b.commands...)
}

// Authorized reports whether caller may run commands.
func (b *Bridge) Authorized(caller string) bool {
	if len(b.allowed) == 0 {
		return true
	}
	_, ok := b.allowed[caller]
	return ok
}

// Execute runs req through the invocation lifecycle and returns the record to
// show the caller. The returned error is ErrUnauthorized, ErrUnknownCommand,
// ErrInvalidArgs, ErrHandlerPanic or a wrapped controlapi.ErrUpstream; in
// every case Result.Record holds the matching user-facing message.
func (b *Bridge) Execute(ctx context.Context, req Request) (Result, error) {
	inv := newInvocation(req.Command, req.Caller)
	ctx = ContextWithInvocation(ctx, inv.ID)

	b.logger.LogAttrs(ctx, slog.LevelDebug, "Command received",
		logger.Command(req.Command),
		logger.Caller(req.Caller),
	)

	rec, private, err := b.run(ctx, inv, req)
	b.finish(ctx, inv, err)

	return Result{
		Record:       rec,
		InvocationID: inv.ID,
		State:        inv.State(),
		History:      inv.History(),
		Private:      private,
	}, err
}

func (b *Bridge) run(ctx context.Context, inv *Invocation, req Request) (notification.Record, bool, error) {
	b.mustTransition(inv, StateAuthorizing)
	if !b.Authorized(req.Caller) {
		b.mustTransition(inv, StateRejected)
		rec := notification.New(b.tr.T("discord.cmd.error.unauthorized", nil),
			notification.WithType("command.unauthorized"),
			notification.WithColor(notification.ColorError),
		)
		return rec, true, fmt.Errorf("%w: %q", ErrUnauthorized, req.Caller)
	}

	b.mustTransition(inv, StateDispatching)

	cmd, ok := b.byName[req.Command]
	if !ok {
		return b.commandError(), true, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}

	limit, err := cmd.resolveLimit(req.Args)
	if err != nil {
		rec := notification.New(b.tr.T("discord.cmd.error.invalid_args", i18n.Params{
			"name": cmd.Limit.Name,
			"min":  cmd.Limit.Min,
			"max":  cmd.Limit.Max,
		}),
			notification.WithType("command.error"),
			notification.WithColor(notification.ColorError),
		)
		return rec, true, err
	}

	return b.dispatch(ctx, cmd, &call{
		api:      b.api,
		tr:       b.tr,
		limit:    limit,
		progress: req.OnProgress,
	})
}

// dispatch runs the handler, turning a panic into a generic error reply.
func (b *Bridge) dispatch(ctx context.Context, cmd Command, c *call) (rec notification.Record, private bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, private = b.commandError(), true
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, cmd.Name, r)
		}
	}()
	rec, err = cmd.run(ctx, c)
	return rec, false, err
}

func (b *Bridge) commandError() notification.Record {
	return notification.New(b.tr.T("discord.cmd.error.command_error", nil),
		notification.WithType("command.error"),
		notification.WithColor(notification.ColorError),
	)
}

func (b *Bridge) finish(ctx context.Context, inv *Invocation, err error) {
	if inv.State() == StateDispatching {
		if err != nil {
			b.mustTransition(inv, StateFailed)
		} else {
			b.mustTransition(inv, StateCompleted)
		}
	}

	label := inv.Command
	if _, ok := b.byName[label]; !ok {
		label = "unknown"
	}
	metrics.Commands.WithLabelValues(label, string(inv.State())).Inc()

	attrs := []slog.Attr{
		logger.Command(inv.Command),
		logger.Caller(inv.Caller),
		slog.String("state", string(inv.State())),
		logger.Duration(time.Since(inv.Started)),
	}
	switch {
	case err == nil:
		b.logger.LogAttrs(ctx, slog.LevelInfo, "Command completed", attrs...)
	case errors.Is(err, ErrUnauthorized):
		b.logger.LogAttrs(ctx, slog.LevelWarn, "Command rejected", attrs...)
	default:
		b.logger.LogAttrs(ctx, slog.LevelError, "Command failed", append(attrs, logger.Error(err))...)
	}
}

// mustTransition panics on a transition the lifecycle table forbids; every
// call site follows the table.
func (b *Bridge) mustTransition(inv *Invocation, to State) {
	if err := inv.transition(to); err != nil {
		panic(err)
	}
}
