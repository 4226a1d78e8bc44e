package listener

import (
	"log/slog"
	"net"
	"time"
)

// Option configures the listener.
type Option func(*config)

// WithAddr sets the address the listener binds to.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithListener serves on an already bound listener instead of binding addr.
func WithListener(l net.Listener) Option {
	if l == nil {
		panic("WithListener: nil listener")
	}
	return func(c *config) { c.listener = l }
}

// WithMaxFrameBytes caps unterminated data buffered per connection.
func WithMaxFrameBytes(n int) Option {
	if n <= 0 {
		panic("WithMaxFrameBytes: size must be > 0")
	}
	return func(c *config) { c.maxFrameBytes = n }
}

// WithReadBufferSize sets the size of each read from a connection.
func WithReadBufferSize(n int) Option {
	if n <= 0 {
		panic("WithReadBufferSize: size must be > 0")
	}
	return func(c *config) { c.readBufferSize = n }
}

// WithShutdownTimeout sets how long Shutdown waits for connections to close.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithLogger supplies an external slog.Logger instance. If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}
