package bridge

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/shokoauto/notifybridge/locales"
	"github.com/shokoauto/notifybridge/pkg/commands"
	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/delivery"
	"github.com/shokoauto/notifybridge/pkg/discord"
	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/listener"
	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/notification"
	"github.com/shokoauto/notifybridge/pkg/opsserver"
	"github.com/shokoauto/notifybridge/pkg/redisfeed"
)

// ShutdownColor is the embed color of the shutdown notice.
const ShutdownColor = 0xe74c3c

// Platform is the chat platform session: it delivers records and is opened
// once before anything is delivered.
type Platform interface {
	delivery.Sender
	Open(ctx context.Context) error
	Close() error
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. If nil, slog.Default is used.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithPlatform replaces the Discord session built from the bot token.
func WithPlatform(p Platform) Option {
	return func(a *App) { a.platform = p }
}

// WithLocales replaces the catalog source chosen from LOCALES_DIR.
func WithLocales(fsys fs.FS) Option {
	return func(a *App) { a.localesFS = fsys }
}

// App holds every component of the bridge. Nothing is shared through
// package-level state; all collaborators hang off this value.
type App struct {
	cfg       Config
	log       *slog.Logger
	localesFS fs.FS

	locales  *i18n.Store
	api      *controlapi.Client
	commands *commands.Bridge
	platform Platform
	fanout   *delivery.FanOut
	listener *listener.Server
	ops      *opsserver.Server
	redis    *redis.Client
	feed     *redisfeed.Feed
}

// New builds the bridge from cfg. It connects to Redis when the feed is
// enabled but does not open the platform session; Run does.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	adapter := i18n.NewFSAdapter(locales.FS, ".")
	switch {
	case a.localesFS != nil:
		adapter = i18n.NewFSAdapter(a.localesFS, ".")
	case cfg.LocalesDir != "":
		adapter = i18n.NewDirectoryAdapter(cfg.LocalesDir)
	}
	a.locales = i18n.NewStore(ctx, adapter, cfg.Locale(),
		i18n.WithLogger(a.log.With(logger.Component("i18n"))),
	)

	apiOpts := []controlapi.Option{
		controlapi.WithTimeouts(cfg.Timeouts()),
		controlapi.WithLogger(a.log.With(logger.Component("controlapi"))),
	}
	if cfg.BreakerFailures > 0 {
		apiOpts = append(apiOpts, controlapi.WithBreaker(controlapi.NewBreaker(cfg.BreakerFailures, 1, cfg.BreakerRecovery)))
	}
	api, err := controlapi.New(cfg.APIURL, apiOpts...)
	if err != nil {
		return nil, err
	}
	a.api = api

	a.commands = commands.New(api, a.locales,
		commands.WithAllowedUsers(cfg.AllowedUserIDs...),
		commands.WithLogger(a.log.With(logger.Component("commands"))),
	)

	if a.platform == nil {
		bot, err := discord.NewBot(cfg.BotToken, a.commands,
			discord.WithLogger(a.log.With(logger.Component("discord"))),
		)
		if err != nil {
			return nil, err
		}
		a.platform = bot
	}

	a.fanout = delivery.NewFanOut(a.platform, delivery.Targets(cfg.ChannelID, cfg.AllowedUserIDs),
		delivery.WithSendTimeout(cfg.SendTimeout),
		delivery.WithLogger(a.log.With(logger.Component("delivery"))),
	)

	a.listener = listener.New(
		listener.WithAddr(cfg.ListenAddr),
		listener.WithMaxFrameBytes(cfg.MaxFrameBytes),
		listener.WithShutdownTimeout(cfg.ShutdownTimeout),
		listener.WithLogger(a.log.With(logger.Component("listener"))),
	)

	if cfg.OpsAddr != "" {
		a.ops = opsserver.New(
			opsserver.WithAddr(cfg.OpsAddr),
			opsserver.WithShutdownTimeout(cfg.ShutdownTimeout),
			opsserver.WithLogger(a.log.With(logger.Component("ops"))),
		)
	}

	if cfg.Redis.Enabled() {
		client, err := redisfeed.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.feed = redisfeed.New(client, cfg.Redis.Channel,
			redisfeed.WithMaxPayload(cfg.MaxFrameBytes),
			redisfeed.WithLogger(a.log.With(logger.Component("redisfeed"))),
		)
	}

	return a, nil
}

// Locales returns the locale store.
func (a *App) Locales() *i18n.Store { return a.locales }

// Commands returns the command bridge.
func (a *App) Commands() *commands.Bridge { return a.commands }

// Listener returns the socket server.
func (a *App) Listener() *listener.Server { return a.listener }

// HandleRecord fans rec out to every configured target.
func (a *App) HandleRecord(ctx context.Context, rec notification.Record) {
	report := a.fanout.Deliver(ctx, rec)
	a.log.LogAttrs(ctx, slog.LevelDebug, "Notification fanned out",
		logger.RecordID(rec.ID),
		slog.Int("delivered", report.Succeeded()),
		slog.Int("failed", report.Failed()),
	)
}

// SetLanguage switches the active catalog. Renders already in progress finish
// with the previous one.
func (a *App) SetLanguage(ctx context.Context, locale string) {
	c := a.locales.SetLanguage(ctx, locale)
	a.log.InfoContext(ctx, "Language reloaded", logger.Locale(c.Locale()))
}

// ReloadLanguage re-reads the language from the env file at path and
// switches to it.
func (a *App) ReloadLanguage(ctx context.Context, path string) error {
	locale, err := LocaleFromFile(path)
	if err != nil {
		return err
	}
	a.SetLanguage(ctx, locale)
	return nil
}

// Notice renders a bot notice from titleKey and descKey and delivers it.
// Zero color keeps the default.
func (a *App) Notice(ctx context.Context, titleKey, descKey string, color int) delivery.Report {
	rec := notification.New(a.locales.T(titleKey, nil),
		notification.WithType("bot.notice"),
		notification.WithDescription(a.locales.T(descKey, nil)),
		notification.WithColor(color),
	)
	return a.fanout.Deliver(ctx, rec)
}

// Run opens the platform session, announces startup and serves every ingress
// until ctx is done or one of them fails. On the way out it stops the
// ingresses, attempts a shutdown notice and closes the session.
func (a *App) Run(ctx context.Context) error {
	if err := a.platform.Open(ctx); err != nil {
		return errors.Join(err, a.Close())
	}
	a.Notice(ctx, "discord.bot.startup_title", "discord.bot.startup_desc", 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Persistent producers that outlive the drain window are closed by the
		// listener; that is a normal stop, not a failure.
		if err := a.listener.Run(gctx, a); err != nil && !errors.Is(err, listener.ErrShutdown) {
			return err
		}
		return nil
	})
	if a.ops != nil {
		g.Go(func() error { return a.ops.Run(gctx, opsserver.Router(a.log, a.readinessChecks()...)) })
	}
	if a.feed != nil {
		g.Go(func() error { return a.feed.Run(gctx, a) })
	}
	runErr := g.Wait()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()
	a.Notice(stopCtx, "discord.bot.shutdown_title", "discord.bot.shutdown_desc", ShutdownColor)

	return errors.Join(runErr, a.Close())
}

// Close releases the platform session and the Redis connection.
func (a *App) Close() error {
	var errs []error
	if err := a.platform.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) readinessChecks() []opsserver.Check {
	checks := []opsserver.Check{{Name: "control_api", Func: a.api.Health}}
	if a.redis != nil {
		checks = append(checks, opsserver.Check{Name: "redis", Func: redisfeed.Healthcheck(a.redis)})
	}
	return checks
}
