package redisserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/kvlite-go/internal/protocol/resp"
	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
	"github.com/yndnr/kvlite-go/internal/telemetry/metric"
)

// Config holds the protocol server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero waits forever.
	IdleTimeout time.Duration
	// WriteTimeout bounds writing and flushing one reply. Zero disables it.
	WriteTimeout time.Duration
	// AcceptRate limits new connections per second. Zero disables it.
	AcceptRate float64
	// AcceptBurst is the number of connections accepted back to back before
	// AcceptRate applies. Values below 1 are treated as 1.
	AcceptBurst int
	// MaxBulkLen and MaxArrayLen bound declared lengths. Zero means no limit.
	MaxBulkLen  int
	MaxArrayLen int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr: "127.0.0.1:6379",
	}
}

// Server accepts client connections and serves them against a Keyspace.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	metrics    Metrics
	logger     logger.Logger
	limiter    *rate.Limiter

	mu    sync.Mutex
	ln    net.Listener
	conns map[*conn]struct{}

	running atomic.Bool
	wg      sync.WaitGroup
}

// conn is one client connection.
type conn struct {
	netConn net.Conn
	id      string
	br      *bufio.Reader
	bw      *bufio.Writer

	closed atomic.Bool
}

func newConn(c net.Conn) *conn {
	return &conn{
		netConn: c,
		id:      ulid.Make().String(),
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// New creates a server. A nil cfg uses DefaultConfig; a nil m disables metrics.
func New(cfg *Config, ks Keyspace, m Metrics, log logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if m == nil {
		m = nopMetrics{}
	}
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		cfg:        cfg,
		dispatcher: NewDispatcher(ks, m),
		metrics:    m,
		logger:     log,
		conns:      make(map[*conn]struct{}),
	}
	if cfg.AcceptRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), max(cfg.AcceptBurst, 1))
	}
	return s
}

// Start binds the listener and serves connections in the background until
// Shutdown is called. Bind errors are returned directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to exit or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := newConn(nc)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

// track registers c unless the server is shutting down.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnOpened()
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.metrics.ConnClosed()
}

func (s *Server) serveConn(ctx context.Context, c *conn) {
	defer c.Close()

	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.id)
	log := logger.L(ctx).With("remote", c.netConn.RemoteAddr().String())
	log.Debug("connection opened")

	dec := resp.NewDecoder(c.br,
		resp.WithMaxBulkLen(s.cfg.MaxBulkLen),
		resp.WithMaxArrayLen(s.cfg.MaxArrayLen),
	)
	emit := func(r resp.Reply) error {
		return s.writeReply(c, r)
	}

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		v, err := dec.Decode()
		if err != nil {
			if err == io.EOF {
				log.Debug("connection closed by client")
				return
			}
			s.connError(log, err)
			return
		}

		req, ok := v.(resp.Array)
		if !ok {
			s.connError(log, fmt.Errorf("%w: request is %T, want array", ErrProtocolViolation, v))
			return
		}
		if err := s.dispatcher.Execute(ctx, req, emit); err != nil {
			s.connError(log, err)
			return
		}
	}
}

// writeReply writes r and flushes it before the next command runs.
func (s *Server) writeReply(c *conn, r resp.Reply) error {
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	if err := resp.WriteReply(c.bw, r); err != nil {
		return err
	}
	return c.bw.Flush()
}

// connError records why a connection is being torn down.
func (s *Server) connError(log logger.Logger, err error) {
	kind := errorKind(err)
	if kind == metric.ErrKindIO && !s.running.Load() {
		return
	}
	s.metrics.ConnError(kind)
	log.Debug("closing connection", "kind", kind, "error", err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, resp.ErrProtocol), errors.Is(err, resp.ErrLimitExceeded):
		return metric.ErrKindDecode
	case errors.Is(err, ErrProtocolViolation):
		return metric.ErrKindProtocol
	default:
		return metric.ErrKindIO
	}
}
