package commands

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// API is the part of the control API the commands use.
type API interface {
	Status(ctx context.Context) (controlapi.Status, error)
	Missing(ctx context.Context, limit int) (controlapi.MissingList, error)
	Search(ctx context.Context, limit int) (controlapi.SearchResult, error)
}

// IntOption describes an optional integer argument and its bounds.
// A Default outside [Min, Max] is still accepted when passed explicitly.
type IntOption struct {
	Name        string
	Description string
	Min         int
	Max         int
	Default     int
}

func (o IntOption) rule() string {
	if o.Default < o.Min || o.Default > o.Max {
		return fmt.Sprintf("eq=%d|min=%d,max=%d", o.Default, o.Min, o.Max)
	}
	return fmt.Sprintf("min=%d,max=%d", o.Min, o.Max)
}

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	Limit       *IntOption

	run func(ctx context.Context, c *call) (notification.Record, error)
}

// call is the per-invocation input of a command handler.
type call struct {
	api      API
	tr       i18n.Renderer
	limit    int
	progress func(context.Context, notification.Record)
}

func (c *call) t(key string, params ...i18n.Params) string {
	if len(params) == 0 {
		return c.tr.T(key, nil)
	}
	return c.tr.T(key, params[0])
}

// report hands an interim record to the caller, if it asked for one.
func (c *call) report(ctx context.Context, rec notification.Record) {
	if c.progress != nil {
		c.progress(ctx, rec)
	}
}

// Args holds the optional arguments of an invocation.
type Args struct {
	Limit *int
}

// LimitArg returns Args with the limit option set.
func LimitArg(n int) Args {
	return Args{Limit: &n}
}

var validate = validator.New()

// resolveLimit applies the default and validates an explicit value.
func (cmd Command) resolveLimit(args Args) (int, error) {
	if cmd.Limit == nil {
		return 0, nil
	}
	if args.Limit == nil {
		return cmd.Limit.Default, nil
	}
	if err := validate.Var(*args.Limit, cmd.Limit.rule()); err != nil {
		return 0, fmt.Errorf("%w: %s=%d must be between %d and %d: %w",
			ErrInvalidArgs, cmd.Limit.Name, *args.Limit, cmd.Limit.Min, cmd.Limit.Max, err)
	}
	return *args.Limit, nil
}

// builtinCommands is the command table.
func builtinCommands() []Command {
	return []Command{
		{
			Name:        "status",
			Description: "Display current automation status",
			run:         runStatus,
		},
		{
			Name:        "missing",
			Description: "List missing episodes in the media library",
			Limit: &IntOption{
				Name:        "limit",
				Description: "Maximum number of episodes to display",
				Min:         1,
				Max:         25,
				Default:     10,
			},
			run: runMissing,
		},
		{
			Name:        "search",
			Description: "Manually trigger a search for missing episodes",
			Limit: &IntOption{
				Name:        "limit",
				Description: "Maximum number of episodes to search for",
				Min:         1,
				Max:         50,
				Default:     0,
			},
			run: runSearch,
		},
	}
}
