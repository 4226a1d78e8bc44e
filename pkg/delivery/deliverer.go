package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/metrics"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// Sender is the chat-platform side of a delivery.
type Sender interface {
	// SendChannel posts rec to a channel.
	SendChannel(ctx context.Context, channelID string, rec notification.Record) error

	// SendDirect posts rec as a direct message to a user.
	SendDirect(ctx context.Context, userID string, rec notification.Record) error
}

// Deliverer hands a record to every configured target.
type Deliverer interface {
	Deliver(ctx context.Context, rec notification.Record) Report
}

// Outcome is the result of the single attempt made for one target.
type Outcome struct {
	Target   Target
	Err      error
	Duration time.Duration
}

// OK reports whether the send succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Report lists one Outcome per target, in target order.
type Report struct {
	RecordID string
	Outcomes []Outcome
}

// Failed returns the number of failed targets.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded returns the number of targets that accepted the record.
func (r Report) Succeeded() int {
	return len(r.Outcomes) - r.Failed()
}

// Err joins the failures, or returns nil when every target succeeded.
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// FanOut delivers records to a fixed target set.
type FanOut struct {
	sender      Sender
	targets     []Target
	sendTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a FanOut.
type Option func(*FanOut)

// WithLogger sets the logger for the FanOut.
func WithLogger(l *slog.Logger) Option {
	return func(f *FanOut) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithSendTimeout bounds every single send. Zero leaves bounding to the sender.
func WithSendTimeout(d time.Duration) Option {
	return func(f *FanOut) {
		if d > 0 {
			f.sendTimeout = d
		}
	}
}

// NewFanOut creates a FanOut over targets. The slice is copied.
func NewFanOut(sender Sender, targets []Target, opts ...Option) *FanOut {
	f := &FanOut{
		sender:  sender,
		targets: append([]Target(nil), targets...),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Targets returns a copy of the configured targets.
func (f *FanOut) Targets() []Target {
	return append([]Target(nil), f.targets...)
}

// Deliver sends rec to every configured target.
func (f *FanOut) Deliver(ctx context.Context, rec notification.Record) Report {
	return f.DeliverTo(ctx, rec, f.targets)
}

// DeliverTo sends rec once to each target and waits for every attempt.
// Sends start in target order; completion order is not defined.
func (f *FanOut) DeliverTo(ctx context.Context, rec notification.Record, targets []Target) Report {
	report := Report{RecordID: rec.ID, Outcomes: make([]Outcome, len(targets))}
	if len(targets) == 0 {
		f.logger.DebugContext(ctx, "No delivery targets configured", logger.RecordID(rec.ID))
		return report
	}

	// The group only joins; it never cancels siblings because sends never return an error.
	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			report.Outcomes[i] = f.send(ctx, target, rec)
			return nil
		})
	}
	_ = g.Wait()

	if failed := report.Failed(); failed > 0 {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "Notification partially delivered",
			logger.RecordID(rec.ID),
			slog.Int("failed", failed),
			slog.Int("total", len(targets)),
		)
	}
	return report
}

func (f *FanOut) send(ctx context.Context, target Target, rec notification.Record) (out Outcome) {
	out.Target = target
	start := time.Now()

	if f.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.sendTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("%w: %s: %w: %v", ErrDelivery, target, ErrSenderPanic, r)
		}
		out.Duration = time.Since(start)
		f.observe(ctx, rec, out)
	}()

	var err error
	switch target.Kind {
	case KindChannel:
		err = f.sender.SendChannel(ctx, target.ID, rec)
	case KindDirectMessage:
		err = f.sender.SendDirect(ctx, target.ID, rec)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownTargetKind, target.Kind)
	}
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrDelivery, target, err)
	}
	return out
}

func (f *FanOut) observe(ctx context.Context, rec notification.Record, out Outcome) {
	result := metrics.ResultOK
	if out.Err != nil {
		result = metrics.ResultFailed
		f.logger.LogAttrs(ctx, slog.LevelError, "Failed to deliver notification",
			logger.RecordID(rec.ID),
			logger.Target(out.Target.String()),
			logger.Duration(out.Duration),
			logger.Error(out.Err),
		)
	} else {
		f.logger.LogAttrs(ctx, slog.LevelDebug, "Notification delivered",
			logger.RecordID(rec.ID),
			logger.Target(out.Target.String()),
			logger.Duration(out.Duration),
		)
	}
	metrics.Deliveries.WithLabelValues(string(out.Target.Kind), result).Inc()
	metrics.DeliveryDuration.WithLabelValues(string(out.Target.Kind)).Observe(out.Duration.Seconds())
}
