package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds reading the rest of a burst once its first byte
	// arrived. Zero disables it.
	ReadTimeout time.Duration
	// WriteTimeout bounds flushing the replies of one batch.
	WriteTimeout time.Duration
	// IdleTimeout closes connections idle between bursts.
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per
	// connection. Set to 0 to disable rate limiting.
	RateLimit int
	// MaxConnections caps concurrent connections. 0 means unlimited.
	MaxConnections int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  5 * time.Minute,
	}
}

const maxClientsReply = "-ERR max number of clients reached\r\n"

// Server accepts RESP connections and runs one session per connection.
type Server struct {
	cfg     *Config
	store   *shard.Store
	metrics *metric.Registry
	logger  *slog.Logger

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	// ctx is the parent of every session context; cancel aborts sessions
	// waiting on shards.
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New creates a RESP server over store. metrics may be nil.
func New(cfg *Config, store *shard.Store, metrics *metric.Registry, log *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		metrics: metrics,
		logger:  log,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("redisserver: already running")
	}
	s.ln = ln
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ln); err != nil {
			s.logger.Error("redis accept loop failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Shutdown stops accepting, cancels every session and closes their
// connections, then waits for the session goroutines to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	err := s.ln.Close()
	s.cancel()

	s.mu.Lock()
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

	s.logger.Info("redis server stopped")
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop(ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		if err := s.track(c); err != nil {
			if errors.Is(err, errStopped) {
				_ = c.Close()
				return nil
			}
			s.reject(c)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(c)
		}()
	}
}

func (s *Server) serveConn(c net.Conn) {
	id := ulid.Make().String()
	ctx := logger.WithConnID(s.ctx, id)
	ctx = logger.WithLogger(ctx, logger.Wrap(s.logger).With("remote", c.RemoteAddr().String()))

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	logger.L(ctx).Debug("connection opened")
	newSession(id, c, s.store, s.cfg, s.metrics).serve(ctx)
}

var (
	errStopped = errors.New("redisserver: stopped")
	errFull    = errors.New("redisserver: max connections reached")
)

// track registers c unless the server is stopping or the connection cap is
// reached. Shutdown closes every tracked connection under the same lock.
func (s *Server) track(c net.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return errStopped
	}
	if s.cfg.MaxConnections > 0 && len(s.conns) >= s.cfg.MaxConnections {
		return errFull
	}
	s.conns[c] = struct{}{}
	return nil
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) reject(c net.Conn) {
	s.metrics.ConnRejected()
	s.logger.Warn("connection rejected", "remote", c.RemoteAddr().String(), "max_connections", s.cfg.MaxConnections)
	_ = c.SetWriteDeadline(time.Now().Add(errorReplyTimeout))
	_, _ = c.Write([]byte(maxClientsReply))
	_ = c.Close()
}
