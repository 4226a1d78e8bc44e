package listener_test

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shokoauto/notifybridge/pkg/listener"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

type collector struct {
	mu      sync.Mutex
	records []notification.Record
	conns   []string
	ch      chan notification.Record
}

func newCollector() *collector {
	return &collector{ch: make(chan notification.Record, 64)}
}

func (c *collector) HandleRecord(ctx context.Context, rec notification.Record) {
	id, _ := listener.ConnIDFromContext(ctx)
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.conns = append(c.conns, id)
	c.mu.Unlock()
	c.ch <- rec
}

func (c *collector) next(t *testing.T) notification.Record {
	t.Helper()
	select {
	case rec := <-c.ch:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for record")
		return notification.Record{}
	}
}

func (c *collector) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case rec := <-c.ch:
		t.Fatalf("unexpected record %+v", rec)
	case <-time.After(wait):
	}
}

func startServer(t *testing.T, h notification.Handler, opts ...listener.Option) (*listener.Server, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := listener.New(append([]listener.Option{listener.WithListener(ln)}, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("listener not ready")
	}
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	})
	return srv, cancel, done
}

func dial(t *testing.T, srv *listener.Server) net.Conn {
	t.Helper()
	c, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func write(t *testing.T, c net.Conn, s string) {
	t.Helper()
	_, err := io.WriteString(c, s)
	require.NoError(t, err)
}

func TestServer_SplitFrame(t *testing.T) {
	t.Parallel()

	col := newCollector()
	srv, _, _ := startServer(t, col)
	c := dial(t, srv)

	frame := `{"title":"Added","fields":[{"name":"Series","value":"Foo"}]}` + "\n"
	mid := strings.Index(frame, `"fields"`)
	write(t, c, frame[:mid])
	time.Sleep(20 * time.Millisecond)
	write(t, c, frame[mid:])

	rec := col.next(t)
	assert.Equal(t, "Added", rec.Title)
	assert.Equal(t, []notification.Field{{Name: "Series", Value: "Foo", Inline: true}}, rec.Fields)
	assert.Equal(t, notification.DefaultColor, rec.Color)
	assert.False(t, rec.Timestamp.IsZero())
	col.none(t, 50*time.Millisecond)
}

func TestServer_MalformedFrameKeepsConnection(t *testing.T) {
	t.Parallel()

	col := newCollector()
	srv, _, _ := startServer(t, col)
	c := dial(t, srv)

	write(t, c, "not json\n\n   \n{\"title\":\"first\"}\n{\"title\": 5\n{\"title\":\"second\",\"color\":15158332}\n")

	assert.Equal(t, "first", col.next(t).Title)
	second := col.next(t)
	assert.Equal(t, "second", second.Title)
	assert.Equal(t, notification.ColorError, second.Color)
	col.none(t, 50*time.Millisecond)
}

func TestServer_OrderAndConnectionIsolation(t *testing.T) {
	t.Parallel()

	col := newCollector()
	srv, _, _ := startServer(t, col)
	a := dial(t, srv)
	b := dial(t, srv)

	write(t, a, `{"title":"a1"}`+"\n"+`{"title":"a`)
	write(t, b, `{"title":"b1"}`+"\n"+`{"title":"b`)
	time.Sleep(20 * time.Millisecond)
	write(t, b, `2"}`+"\n")
	write(t, a, `2"}`+"\n")

	got := map[string][]string{}
	for range 4 {
		rec := col.next(t)
		got[rec.Title[:1]] = append(got[rec.Title[:1]], rec.Title)
	}
	assert.Equal(t, []string{"a1", "a2"}, got["a"])
	assert.Equal(t, []string{"b1", "b2"}, got["b"])

	col.mu.Lock()
	defer col.mu.Unlock()
	ids := map[string]struct{}{}
	for _, id := range col.conns {
		assert.NotEmpty(t, id)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestServer_OversizedFrameClosesConnection(t *testing.T) {
	t.Parallel()

	col := newCollector()
	srv, _, _ := startServer(t, col, listener.WithMaxFrameBytes(64))
	c := dial(t, srv)

	write(t, c, `{"title":"ok"}`+"\n"+strings.Repeat("x", 200))
	assert.Equal(t, "ok", col.next(t).Title)

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := c.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF, "server closes the connection")

	other := dial(t, srv)
	write(t, other, `{"title":"still serving"}`+"\n")
	assert.Equal(t, "still serving", col.next(t).Title)
}

func TestServer_HandlerPanicKeepsConnection(t *testing.T) {
	t.Parallel()

	col := newCollector()
	h := notification.HandlerFunc(func(ctx context.Context, rec notification.Record) {
		if rec.Title == "boom" {
			panic("handler exploded")
		}
		col.HandleRecord(ctx, rec)
	})
	srv, _, _ := startServer(t, h)
	c := dial(t, srv)

	write(t, c, `{"title":"boom"}`+"\n"+`{"title":"after"}`+"\n")
	assert.Equal(t, "after", col.next(t).Title)
}

func TestServer_ShutdownWaitsForConnections(t *testing.T) {
	t.Parallel()

	col := newCollector()
	srv, cancel, done := startServer(t, col, listener.WithShutdownTimeout(2*time.Second))
	c := dial(t, srv)
	write(t, c, `{"title":"before"}`+"\n")
	assert.Equal(t, "before", col.next(t).Title)

	cancel()
	time.Sleep(50 * time.Millisecond)

	_, err := net.DialTimeout("tcp", srv.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err, "no new connections after shutdown starts")

	write(t, c, `{"title":"draining"}`+"\n")
	assert.Equal(t, "draining", col.next(t).Title)
	require.NoError(t, c.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServer_ShutdownTimeoutClosesConnections(t *testing.T) {
	t.Parallel()

	srv, cancel, done := startServer(t, newCollector(), listener.WithShutdownTimeout(50*time.Millisecond))
	c := dial(t, srv)
	write(t, c, "")

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, listener.ErrShutdown)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}

	require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
	_, err := c.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestServer_RunErrors(t *testing.T) {
	t.Parallel()

	srv := listener.New()
	assert.ErrorIs(t, srv.Run(context.Background(), nil), listener.ErrStart)
	assert.Nil(t, srv.Addr())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	busy := listener.New(listener.WithAddr(ln.Addr().String()))
	assert.ErrorIs(t, busy.Run(context.Background(), newCollector()), listener.ErrStart)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	attr, ok := listener.LoggerExtractor()(listener.ContextWithConnID(context.Background(), "c1"))
	require.True(t, ok)
	assert.Equal(t, "conn_id", attr.Key)
	assert.Equal(t, "c1", attr.Value.String())

	_, ok = listener.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
