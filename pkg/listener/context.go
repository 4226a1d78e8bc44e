package listener

import (
	"context"
	"log/slog"

	"github.com/shokoauto/notifybridge/pkg/logger"
)

type connKey struct{}

// ContextWithConnID stores a connection id in ctx.
func ContextWithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connKey{}, id)
}

// ConnIDFromContext returns the connection id stored in ctx, if any.
func ConnIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(connKey{}).(string)
	return id, ok && id != ""
}

// LoggerExtractor adds the producer connection id to records logged while
// handling that connection's frames.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := ConnIDFromContext(ctx); ok {
			return logger.ConnID(id), true
		}
		return slog.Attr{}, false
	}
}
