package redisserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
)

// MaxBatchLen caps the number of pipelined commands collected into one
// batch. Further buffered commands go into the next batch.
const MaxBatchLen = 1024

// errorReplyTimeout bounds the best-effort error write before closing.
const errorReplyTimeout = time.Second

type sessionState uint8

const (
	stateReading sessionState = iota
	stateAwaitingShards
	stateFlushing
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateReading:
		return "READING"
	case stateAwaitingShards:
		return "AWAITING_SHARDS"
	case stateFlushing:
		return "FLUSHING"
	case stateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// session serves one client connection.
//
// It reads every request already buffered into one batch, hands the batch
// to the shard owning its first key, waits for the workers to resolve it,
// then writes all replies with a single flush.
type session struct {
	id      string
	conn    net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	store   *shard.Store
	cfg     *Config
	limiter *rate.Limiter
	metrics *metric.Registry
	log     logger.Logger

	batch        *shard.Batch
	state        sessionState
	outputFailed bool
}

func newSession(id string, c net.Conn, store *shard.Store, cfg *Config, metrics *metric.Registry) *session {
	s := &session{
		id:      id,
		conn:    c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		batch:   shard.NewBatch(16),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return s
}

// serve runs the session until the client goes away or an error ends it.
// It logs through the connection logger carried by ctx.
func (s *session) serve(ctx context.Context) {
	s.log = logger.L(ctx).WithContext(ctx)
	err := s.run(ctx)
	s.fail(err)
}

func (s *session) run(ctx context.Context) error {
	for {
		s.state = stateReading
		if err := s.readBatch(); err != nil {
			return err
		}

		if err := s.throttle(ctx); err != nil {
			return err
		}

		s.state = stateAwaitingShards
		if err := s.batch.Dispatch(s.store); err != nil {
			return err
		}
		select {
		case <-s.batch.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := s.batch.Err(); err != nil {
			return err
		}
		s.metrics.ObserveBatch(s.batch.Len(), s.batch.Hops())

		s.state = stateFlushing
		if err := s.flush(); err != nil {
			s.outputFailed = true
			return err
		}
		s.batch.Reset()
	}
}

// readBatch blocks for the first request of a burst, then keeps decoding as
// long as another complete line is already buffered.
func (s *session) readBatch() error {
	if err := s.setReadDeadline(s.cfg.IdleTimeout); err != nil {
		return errors.Join(ErrIO, err)
	}
	if _, err := s.br.Peek(1); err != nil {
		return readError(err)
	}
	if err := s.setReadDeadline(s.cfg.ReadTimeout); err != nil {
		return errors.Join(ErrIO, err)
	}

	for {
		args, err := ReadCommand(s.br)
		if err != nil {
			return err
		}
		cmd, err := ParseCommand(args)
		if err != nil {
			return err
		}
		s.batch.Add(cmd.Op, cmd.Key, cmd.Value)
		s.metrics.RecordCommand(cmd.Op.String())

		if s.batch.Len() >= MaxBatchLen || !lineBuffered(s.br) {
			return nil
		}
	}
}

// throttle waits until the rate limiter admits every command in the batch.
func (s *session) throttle(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	for n := s.batch.Len(); n > 0; {
		chunk := min(n, s.limiter.Burst())
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (s *session) flush() error {
	if err := s.setWriteDeadline(s.cfg.WriteTimeout); err != nil {
		return errors.Join(ErrIO, err)
	}
	if err := WriteReplies(s.bw, s.batch); err != nil {
		return errors.Join(ErrIO, err)
	}
	if err := s.bw.Flush(); err != nil {
		return errors.Join(ErrIO, err)
	}
	return nil
}

// fail moves the session to CLOSED: it logs the cause, sends a best-effort
// error reply when the output is still usable, and closes the connection.
func (s *session) fail(err error) {
	from := s.state
	s.state = stateClosed

	kind := errorKind(err)
	switch {
	case errors.Is(err, ErrProtocol), errors.Is(err, ErrUnknownCommand):
		s.metrics.RecordError(kind)
		s.log.Warn("closing connection", "state", from.String(), "kind", kind, "error", err)
	case errors.Is(err, shard.ErrWorkPanicked):
		s.log.Error("closing connection", "state", from.String(), "kind", kind, "error", err)
	default:
		s.log.Debug("closing connection", "state", from.String(), "kind", kind, "error", err)
	}

	if !s.outputFailed && wantsReply(err) {
		s.writeErrorReply(err)
	}
	_ = s.conn.Close()
}

// writeErrorReply writes err as "-" lines and flushes. Failures are ignored;
// the connection is closed right after.
func (s *session) writeErrorReply(err error) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(errorReplyTimeout))
	_ = WriteError(s.bw, fmt.Sprintf("ERR %v", err))
	_ = s.bw.Flush()
}

func (s *session) setReadDeadline(d time.Duration) error {
	if d <= 0 {
		return s.conn.SetReadDeadline(time.Time{})
	}
	return s.conn.SetReadDeadline(time.Now().Add(d))
}

func (s *session) setWriteDeadline(d time.Duration) error {
	if d <= 0 {
		return s.conn.SetWriteDeadline(time.Time{})
	}
	return s.conn.SetWriteDeadline(time.Now().Add(d))
}
