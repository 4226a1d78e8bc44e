package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shokoauto/notifybridge/pkg/commands"
	"github.com/shokoauto/notifybridge/pkg/config"
	"github.com/shokoauto/notifybridge/pkg/environment"
	"github.com/shokoauto/notifybridge/pkg/listener"
	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/svc/bridge"
)

const serviceName = "notifybridge"

func main() {
	envFile := flag.String("env-file", "", "additional env file to load before reading the environment")
	flag.Parse()

	if *envFile != "" {
		if err := config.LoadFile(*envFile); err != nil {
			slog.Error("Failed to read env file", logger.Error(err))
			os.Exit(1)
		}
	}

	var cfg bridge.Config
	if err := config.Load(&cfg); err != nil {
		slog.Error("Invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, serviceName),
		logger.WithContextExtractors(listener.LoggerExtractor(), commands.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = environment.WithContext(ctx, environment.Parse(cfg.AppEnv))

	log.InfoContext(ctx, "Starting notification bridge",
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("api_url", cfg.APIURL),
		logger.Locale(cfg.Locale()),
		slog.Bool("channel", cfg.ChannelID != ""),
		slog.Int("allowed_users", len(cfg.AllowedUserIDs)),
		slog.Bool("redis_feed", cfg.Redis.Enabled()),
		slog.String("ops_addr", cfg.OpsAddr),
	)

	app, err := bridge.New(ctx, cfg, bridge.WithLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bridge", logger.Error(err))
		os.Exit(1)
	}

	reloadFrom := *envFile
	if reloadFrom == "" {
		reloadFrom = bridge.DefaultEnvFile
	}
	go reloadOnHangup(ctx, app, reloadFrom, log)

	if err := app.Run(ctx); err != nil {
		log.ErrorContext(ctx, "Bridge stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.InfoContext(ctx, "Notification bridge stopped")
}

// reloadOnHangup re-reads the language from envFile on SIGHUP.
func reloadOnHangup(ctx context.Context, app *bridge.App, envFile string, log *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := app.ReloadLanguage(ctx, envFile); err != nil {
				log.WarnContext(ctx, "Failed to reload language", slog.String("env_file", envFile), logger.Error(err))
			}
		}
	}
}
