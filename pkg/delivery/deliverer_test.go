package delivery_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/delivery"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// MockSender is a testify mock of the chat platform.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendChannel(ctx context.Context, channelID string, rec notification.Record) error {
	args := m.Called(ctx, channelID, rec)
	return args.Error(0)
}

func (m *MockSender) SendDirect(ctx context.Context, userID string, rec notification.Record) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFanOutDeliver(t *testing.T) {
	t.Parallel()

	rec := notification.New("Added")
	targets := delivery.Targets("chan-1", []string{"user-1", "user-2"})

	tests := []struct {
		name       string
		setup      func(m *MockSender)
		wantFailed []delivery.Target
	}{
		{
			name: "all targets succeed",
			setup: func(m *MockSender) {
				m.On("SendChannel", mock.Anything, "chan-1", rec).Return(nil).Once()
				m.On("SendDirect", mock.Anything, "user-1", rec).Return(nil).Once()
				m.On("SendDirect", mock.Anything, "user-2", rec).Return(nil).Once()
			},
		},
		{
			name: "first direct message fails, others still delivered",
			setup: func(m *MockSender) {
				m.On("SendChannel", mock.Anything, "chan-1", rec).Return(nil).Once()
				m.On("SendDirect", mock.Anything, "user-1", rec).Return(errors.New("cannot send messages to this user")).Once()
				m.On("SendDirect", mock.Anything, "user-2", rec).Return(nil).Once()
			},
			wantFailed: []delivery.Target{delivery.DirectMessage("user-1")},
		},
		{
			name: "channel fails, direct messages still delivered",
			setup: func(m *MockSender) {
				m.On("SendChannel", mock.Anything, "chan-1", rec).Return(errors.New("unknown channel")).Once()
				m.On("SendDirect", mock.Anything, "user-1", rec).Return(nil).Once()
				m.On("SendDirect", mock.Anything, "user-2", rec).Return(nil).Once()
			},
			wantFailed: []delivery.Target{delivery.Channel("chan-1")},
		},
		{
			name: "every target fails",
			setup: func(m *MockSender) {
				m.On("SendChannel", mock.Anything, "chan-1", rec).Return(errors.New("e1")).Once()
				m.On("SendDirect", mock.Anything, "user-1", rec).Return(errors.New("e2")).Once()
				m.On("SendDirect", mock.Anything, "user-2", rec).Return(errors.New("e3")).Once()
			},
			wantFailed: targets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := new(MockSender)
			tt.setup(sender)

			fan := delivery.NewFanOut(sender, targets, delivery.WithLogger(discardLogger()))
			report := fan.Deliver(context.Background(), rec)

			sender.AssertExpectations(t)
			require.Len(t, report.Outcomes, len(targets))
			assert.Equal(t, rec.ID, report.RecordID)
			assert.Equal(t, len(tt.wantFailed), report.Failed())
			assert.Equal(t, len(targets)-len(tt.wantFailed), report.Succeeded())

			var failed []delivery.Target
			for i, o := range report.Outcomes {
				assert.Equal(t, targets[i], o.Target, "outcomes keep target order")
				if !o.OK() {
					failed = append(failed, o.Target)
					assert.ErrorIs(t, o.Err, delivery.ErrDelivery)
				}
			}
			assert.Equal(t, tt.wantFailed, failed)

			if len(tt.wantFailed) == 0 {
				assert.NoError(t, report.Err())
			} else {
				assert.ErrorIs(t, report.Err(), delivery.ErrDelivery)
			}
		})
	}
}

// panicSender panics for one user and records every attempt.
type panicSender struct {
	mu       sync.Mutex
	attempts []string
}

func (p *panicSender) SendChannel(_ context.Context, id string, _ notification.Record) error {
	p.record("channel:" + id)
	return nil
}

func (p *panicSender) SendDirect(_ context.Context, id string, _ notification.Record) error {
	p.record("dm:" + id)
	if id == "boom" {
		panic("sender exploded")
	}
	return nil
}

func (p *panicSender) record(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts = append(p.attempts, s)
}

func TestFanOutIsolatesPanics(t *testing.T) {
	t.Parallel()

	sender := &panicSender{}
	fan := delivery.NewFanOut(sender, delivery.Targets("c", []string{"boom", "ok"}), delivery.WithLogger(discardLogger()))

	report := fan.Deliver(context.Background(), notification.New("x"))

	assert.ElementsMatch(t, []string{"channel:c", "dm:boom", "dm:ok"}, sender.attempts)
	require.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, report.Outcomes[1].Err, delivery.ErrSenderPanic)
}

// blockingSender blocks until the context is done.
type blockingSender struct{}

func (blockingSender) SendChannel(ctx context.Context, _ string, _ notification.Record) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingSender) SendDirect(context.Context, string, notification.Record) error {
	return nil
}

func TestFanOutSendTimeout(t *testing.T) {
	t.Parallel()

	fan := delivery.NewFanOut(blockingSender{}, delivery.Targets("slow", []string{"fast"}),
		delivery.WithLogger(discardLogger()),
		delivery.WithSendTimeout(20*time.Millisecond),
	)

	start := time.Now()
	report := fan.Deliver(context.Background(), notification.New("x"))

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, 1, report.Failed())
	assert.ErrorIs(t, report.Outcomes[0].Err, context.DeadlineExceeded)
	assert.True(t, report.Outcomes[1].OK())
}

func TestFanOutUnknownKindAndEmpty(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	fan := delivery.NewFanOut(sender, nil, delivery.WithLogger(discardLogger()))

	report := fan.Deliver(context.Background(), notification.New("x"))
	assert.Empty(t, report.Outcomes)
	assert.NoError(t, report.Err())

	report = fan.DeliverTo(context.Background(), notification.New("x"), []delivery.Target{{Kind: "pigeon", ID: "1"}})
	require.Len(t, report.Outcomes, 1)
	assert.ErrorIs(t, report.Outcomes[0].Err, delivery.ErrUnknownTargetKind)
	sender.AssertNotCalled(t, "SendChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestTargets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []delivery.Target{
		delivery.Channel("c"),
		delivery.DirectMessage("a"),
		delivery.DirectMessage("b"),
	}, delivery.Targets(" c ", []string{"a", " ", "b", "a"}))

	assert.Equal(t, []delivery.Target{delivery.DirectMessage("a")}, delivery.Targets("", []string{"a"}))
	assert.Empty(t, delivery.Targets("", nil))
	assert.Equal(t, "dm:a", delivery.DirectMessage("a").String())
}
