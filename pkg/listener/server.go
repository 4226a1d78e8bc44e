package listener

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shokoauto/notifybridge/pkg/framing"
	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/metrics"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// Ingress is the metrics label of records received by this package.
const Ingress = "tcp"

type config struct {
	addr            string
	listener        net.Listener
	maxFrameBytes   int
	readBufferSize  int
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

func defaultConfig() *config {
	return &config{
		addr:            "127.0.0.1:8766",
		maxFrameBytes:   framing.DefaultMaxBuffered,
		readBufferSize:  32 << 10,
		shutdownTimeout: 5 * time.Second,
	}
}

// Server accepts producer connections.
type Server struct {
	cfg   *config
	ready chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	mu      sync.Mutex
	ln      net.Listener
	conns   map[net.Conn]struct{}
	closing bool
	// cancelConns cancels the context of every connection handler.
	cancelConns context.CancelFunc
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:   cfg,
		ready: make(chan struct{}),
		conns: make(map[net.Conn]struct{}),
	}
}

// Ready is closed once the server is bound and accepting.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, or nil before Run has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run binds the listener and serves connections until ctx is done or the
// listener fails. Each record is passed to h.
func (s *Server) Run(ctx context.Context, h notification.Handler) error {
	if h == nil {
		return errors.Join(ErrStart, errors.New("nil record handler"))
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("listener already shut down"))
	}
	if s.ln != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("listener already running"))
	}
	ln := s.cfg.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.cfg.addr); err != nil {
			s.mu.Unlock()
			return errors.Join(ErrStart, err)
		}
	}
	s.ln = ln
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelConns = cancel
	s.mu.Unlock()
	close(s.ready)

	s.cfg.logger.InfoContext(ctx, "Notification listener started", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.accept(connCtx, ln, h) }()

	select {
	case <-ctx.Done():
		err := s.Shutdown(context.Background())
		<-errCh
		return err
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		if err != nil {
			return errors.Join(ErrStart, err)
		}
		return nil
	}
}

func (s *Server) accept(ctx context.Context, ln net.Listener, h notification.Handler) error {
	var delay time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if s.isClosing() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				delay = min(max(delay*2, 5*time.Millisecond), time.Second)
				s.cfg.logger.WarnContext(ctx, "Accept failed, retrying", logger.Error(err), logger.Duration(delay))
				time.Sleep(delay)
				continue
			}
			return err
		}
		delay = 0

		if !s.track(c) {
			_ = c.Close()
			continue
		}
		go s.serve(ctx, c, h)
	}
}

func (s *Server) serve(ctx context.Context, c net.Conn, h notification.Handler) {
	defer s.wg.Done()
	defer s.untrack(c)

	ctx = ContextWithConnID(ctx, uuid.NewString())
	log := s.cfg.logger
	log.LogAttrs(ctx, slog.LevelInfo, "Producer connected", logger.RemoteAddr(c.RemoteAddr().String()))

	gauge := metrics.ActiveConnections.WithLabelValues(Ingress)
	gauge.Inc()
	defer gauge.Dec()

	dec := framing.NewDecoder(framing.WithMaxBuffered(s.cfg.maxFrameBytes))
	buf := make([]byte, s.cfg.readBufferSize)
	for {
		n, err := c.Read(buf)
		if n > 0 {
			frames, ferr := dec.Feed(buf[:n])
			for _, frame := range frames {
				s.handleFrame(ctx, frame, h)
			}
			if ferr != nil {
				metrics.Frames.WithLabelValues(Ingress, metrics.ResultOversized).Inc()
				log.LogAttrs(ctx, slog.LevelError, "Closing producer connection", logger.Error(ferr))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.LogAttrs(ctx, slog.LevelWarn, "Producer connection read failed", logger.Error(err))
			}
			break
		}
	}

	if rest := dec.Flush(); len(rest) > 0 {
		log.LogAttrs(ctx, slog.LevelWarn, "Discarding unterminated frame at connection close", slog.Int("bytes", len(rest)))
	}
	log.LogAttrs(ctx, slog.LevelInfo, "Producer disconnected")
}

func (s *Server) handleFrame(ctx context.Context, frame []byte, h notification.Handler) {
	rec, err := notification.Decode(frame, time.Now())
	if err != nil {
		metrics.Frames.WithLabelValues(Ingress, metrics.ResultMalformed).Inc()
		s.cfg.logger.LogAttrs(ctx, slog.LevelWarn, "Dropping malformed notification frame",
			slog.Int("bytes", len(frame)),
			logger.Error(err),
		)
		return
	}
	metrics.Frames.WithLabelValues(Ingress, metrics.ResultOK).Inc()

	defer func() {
		if r := recover(); r != nil {
			s.cfg.logger.LogAttrs(ctx, slog.LevelError, "Notification handler panicked",
				logger.RecordID(rec.ID),
				slog.Any("panic", r),
			)
		}
	}()
	h.HandleRecord(ctx, rec)
}

// Shutdown stops accepting, then waits for open connections to close up to the
// shutdown timeout or ctx, whichever ends first, and closes the rest.
// It is safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closing = true
		ln := s.ln
		s.mu.Unlock()

		if ln != nil {
			_ = ln.Close()
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			s.mu.Lock()
			open := len(s.conns)
			for c := range s.conns {
				_ = c.Close()
			}
			if s.cancelConns != nil {
				s.cancelConns()
			}
			s.mu.Unlock()
			<-done
			err = errors.Join(ErrShutdown, ctx.Err())
			s.cfg.logger.Warn("Closed producer connections after shutdown timeout", slog.Int("connections", open))
		}

		s.mu.Lock()
		if s.cancelConns != nil {
			s.cancelConns()
		}
		s.mu.Unlock()
		if ln != nil {
			s.cfg.logger.Info("Notification listener stopped")
		}
	})
	return err
}

func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	_ = c.Close()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}
