package redisfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/metrics"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// Ingress is the metrics label for records received over Redis.
const Ingress = "redis"

// DefaultMaxPayload matches the TCP listener's frame cap.
const DefaultMaxPayload = 1 << 20

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger. If nil, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.log = l
		}
	}
}

// WithMaxPayload caps the accepted message size in bytes.
func WithMaxPayload(n int) Option {
	if n <= 0 {
		panic("WithMaxPayload: size must be > 0")
	}
	return func(f *Feed) { f.maxPayload = n }
}

// Feed consumes notification records published on a Redis channel.
// Each message carries exactly one JSON record.
type Feed struct {
	client     redis.UniversalClient
	channel    string
	maxPayload int
	log        *slog.Logger
}

// New returns a Feed subscribed to channel once Run is called.
func New(client redis.UniversalClient, channel string, opts ...Option) *Feed {
	f := &Feed{
		client:     client,
		channel:    channel,
		maxPayload: DefaultMaxPayload,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run subscribes and passes each decoded record to h until ctx is done.
func (f *Feed) Run(ctx context.Context, h notification.Handler) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	// Wait for the subscription confirmation so errors surface here.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Join(ErrSubscribe, fmt.Errorf("channel %q: %w", f.channel, err))
	}

	f.log.InfoContext(ctx, "Redis feed subscribed", slog.String("channel", f.channel))
	metrics.ActiveConnections.WithLabelValues(Ingress).Inc()
	defer metrics.ActiveConnections.WithLabelValues(Ingress).Dec()

	f.Consume(ctx, sub.Channel(), h)
	f.log.InfoContext(ctx, "Redis feed stopped", slog.String("channel", f.channel))
	return nil
}

// Consume handles messages from msgs sequentially until ctx is done or msgs is closed.
func (f *Feed) Consume(ctx context.Context, msgs <-chan *redis.Message, h notification.Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			f.handleMessage(ctx, msg, h)
		}
	}
}

func (f *Feed) handleMessage(ctx context.Context, msg *redis.Message, h notification.Handler) {
	if len(msg.Payload) > f.maxPayload {
		metrics.Frames.WithLabelValues(Ingress, metrics.ResultOversized).Inc()
		f.log.WarnContext(ctx, "Dropping oversized Redis message",
			slog.String("channel", msg.Channel),
			slog.Int("size", len(msg.Payload)),
			slog.Int("max", f.maxPayload),
		)
		return
	}

	rec, err := notification.Decode([]byte(msg.Payload), time.Now())
	if err != nil {
		metrics.Frames.WithLabelValues(Ingress, metrics.ResultMalformed).Inc()
		f.log.WarnContext(ctx, "Dropping malformed Redis message",
			slog.String("channel", msg.Channel),
			logger.Error(err),
		)
		return
	}
	metrics.Frames.WithLabelValues(Ingress, metrics.ResultOK).Inc()

	defer func() {
		if r := recover(); r != nil {
			f.log.ErrorContext(ctx, "Notification handler panicked",
				logger.RecordID(rec.ID),
				slog.Any("panic", r),
			)
		}
	}()
	h.HandleRecord(ctx, rec)
}
