// Package redisfeed is an optional second ingress for notification records.
// Producers that already talk to Redis can PUBLISH one JSON record per message
// on a channel instead of opening a TCP connection to the listener.
//
// The package wraps go-redis with:
//
//   - Connect, which retries the initial ping according to Config.
//   - Healthcheck, a readiness probe for opsserver.
//   - Feed, which subscribes to the channel and hands decoded records to a
//     notification.Handler in publish order.
//
// Configuration is described by Config, populated from the environment:
//
//	var cfg redisfeed.Config
//	err := config.Load(&cfg)
//	client, err := redisfeed.Connect(ctx, cfg)
//	feed := redisfeed.New(client, cfg.Channel, redisfeed.WithLogger(log))
//	err = feed.Run(ctx, handler)
package redisfeed
