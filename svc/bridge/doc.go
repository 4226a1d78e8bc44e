// Package bridge assembles the notification bridge from its parts.
//
// App is the single context object of the process: it owns the locale store,
// the control API client, the command bridge, the chat platform session, the
// delivery fan-out and every ingress (TCP listener, optional Redis feed and
// optional ops server). Components receive their collaborators explicitly
// when App is built.
//
//	var cfg bridge.Config
//	err := config.Load(&cfg)
//	app, err := bridge.New(ctx, cfg, bridge.WithLogger(log))
//	err = app.Run(ctx)
package bridge
