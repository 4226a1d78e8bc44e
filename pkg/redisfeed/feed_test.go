package redisfeed_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/notification"
	"github.com/shokoauto/notifybridge/pkg/redisfeed"
)

type collector struct {
	mu      sync.Mutex
	records []notification.Record
}

func (c *collector) HandleRecord(_ context.Context, rec notification.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *collector) titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.Title)
	}
	return out
}

func feedMessages(payloads ...string) <-chan *redis.Message {
	ch := make(chan *redis.Message, len(payloads))
	for _, p := range payloads {
		ch <- &redis.Message{Channel: "notifications", Payload: p}
	}
	close(ch)
	return ch
}

func TestConsumeDecodesInOrder(t *testing.T) {
	t.Parallel()
	var c collector
	f := redisfeed.New(nil, "notifications")

	f.Consume(context.Background(), feedMessages(
		`{"title":"first","fields":[{"name":"Series","value":"Show"}]}`,
		`{"title":"second","color":3066993}`,
	), &c)

	require.Equal(t, []string{"first", "second"}, c.titles())
	assert.Equal(t, "Show", c.records[0].Fields[0].Value)
	assert.True(t, c.records[0].Fields[0].Inline)
	assert.Equal(t, 3066993, c.records[1].Color)
}

func TestConsumeSkipsBadMessages(t *testing.T) {
	t.Parallel()
	var c collector
	f := redisfeed.New(nil, "notifications", redisfeed.WithMaxPayload(64))

	f.Consume(context.Background(), feedMessages(
		`not json`,
		`{"title":"`+strings.Repeat("x", 100)+`"}`,
		`[1,2]`,
		`{"title":"kept"}`,
	), &c)

	assert.Equal(t, []string{"kept"}, c.titles())
}

func TestConsumeRecoversHandlerPanic(t *testing.T) {
	t.Parallel()
	calls := 0
	h := notification.HandlerFunc(func(_ context.Context, rec notification.Record) {
		calls++
		if rec.Title == "boom" {
			panic("handler failure")
		}
	})
	f := redisfeed.New(nil, "notifications")

	assert.NotPanics(t, func() {
		f.Consume(context.Background(), feedMessages(`{"title":"boom"}`, `{"title":"after"}`), h)
	})
	assert.Equal(t, 2, calls)
}

func TestConsumeStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	f := redisfeed.New(nil, "notifications")
	msgs := make(chan *redis.Message)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.Consume(ctx, msgs, &collector{})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "consume did not stop")
	}
}

func TestConnectValidation(t *testing.T) {
	t.Parallel()
	_, err := redisfeed.Connect(context.Background(), redisfeed.Config{})
	assert.ErrorIs(t, err, redisfeed.ErrEmptyConnectionURL)

	_, err = redisfeed.Connect(context.Background(), redisfeed.Config{
		ConnectionURL:  "http://not-redis",
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, redisfeed.ErrFailedToParseRedisConnString)
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()
	assert.False(t, redisfeed.Config{}.Enabled())
	assert.True(t, redisfeed.Config{ConnectionURL: "redis://localhost:6379/0"}.Enabled())
}

func TestWithMaxPayloadPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { redisfeed.WithMaxPayload(0) })
}
