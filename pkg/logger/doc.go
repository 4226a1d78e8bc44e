// Package logger builds the service's *slog.Logger and holds the attribute
// constructors used across the bridge so that keys stay consistent.
//
// New applies Option functions, picks a text or JSON handler and wraps it in
// LogHandlerDecorator, which runs registered ContextExtractor callbacks on
// every record. Packages that carry request-scoped identifiers in a context
// (the ingress listener's connection id, a command invocation id) expose an
// extractor that is registered here at startup.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithEnvironment(cfg.AppEnv, "notifybridge"),
//	    logger.WithContextExtractors(listener.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.ErrorContext(ctx, "Failed to deliver notification",
//	    logger.Target(target.String()),
//	    logger.Error(err),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
