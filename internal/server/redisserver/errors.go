package redisserver

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

var (
	// ErrProtocol reports a malformed frame.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded reports a frame over one of the protocol limits. It is
	// always wrapped together with ErrProtocol.
	ErrLimitExceeded = errors.New("resp: limit exceeded")

	// ErrUnknownCommand reports an unsupported verb or a wrong arity.
	ErrUnknownCommand = errors.New("resp: unknown command")

	// ErrConnectionClosed reports an orderly end of stream.
	ErrConnectionClosed = errors.New("resp: connection closed")

	// ErrIO reports a transport failure.
	ErrIO = errors.New("resp: i/o failure")
)

// errorKind names an error for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrLimitExceeded):
		return "limit"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, ErrConnectionClosed):
		return "closed"
	case isTimeout(err):
		return "timeout"
	case errors.Is(err, shard.ErrWorkPanicked):
		return "internal"
	default:
		return "io"
	}
}

// wantsReply reports whether a best-effort error reply should be sent before
// the connection is closed.
func wantsReply(err error) bool {
	switch {
	case errors.Is(err, ErrConnectionClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, shard.ErrClosed),
		isTimeout(err):
		return false
	}
	return true
}

// readError classifies an error returned by the buffered reader.
func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return ErrConnectionClosed
	}
	return errors.Join(ErrIO, err)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
