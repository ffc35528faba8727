package connection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedReply is returned when the server sends something other than
// a bulk string, a null bulk string or an error.
var ErrMalformedReply = errors.New("connection: malformed reply")

// MaxBulkLen is the largest bulk reply accepted, matching the server's
// argument limit.
const MaxBulkLen = 512 * 1024

// ServerError is an error reply ("-..." lines) sent by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

// Reply is one decoded reply.
type Reply struct {
	// Value is the bulk string payload. It is nil when Nil is set.
	Value []byte
	// Nil is set for the null bulk string ($-1), a GET miss.
	Nil bool
}

// String renders the reply the way the CLI prints it.
func (r Reply) String() string {
	if r.Nil {
		return "(nil)"
	}
	return string(r.Value)
}

// writeCommand encodes args as a RESP multibulk request.
func writeCommand(w *bufio.Writer, args []string) error {
	if _, err := fmt.Fprintf(w, "*%d\r\n", len(args)); err != nil {
		return err
	}
	for _, a := range args {
		if _, err := fmt.Fprintf(w, "$%d\r\n%s\r\n", len(a), a); err != nil {
			return err
		}
	}
	return nil
}

// readReply decodes one reply.
//
// Error replies may span several "-" lines; the server closes the
// connection right after them, so every consecutive "-" line is collected
// until EOF or a line of another kind.
func readReply(r *bufio.Reader) (Reply, error) {
	line, err := readLine(r)
	if err != nil {
		return Reply{}, err
	}
	if line == "" {
		return Reply{}, fmt.Errorf("%w: empty line", ErrMalformedReply)
	}

	switch line[0] {
	case '$':
		n, err := strconv.Atoi(line[1:])
		if err != nil || n < -1 {
			return Reply{}, fmt.Errorf("%w: bad length %q", ErrMalformedReply, line)
		}
		if n == -1 {
			return Reply{Nil: true}, nil
		}
		if n > MaxBulkLen {
			return Reply{}, fmt.Errorf("%w: bulk length %d exceeds %d", ErrMalformedReply, n, MaxBulkLen)
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Reply{}, err
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return Reply{}, fmt.Errorf("%w: missing CRLF after bulk", ErrMalformedReply)
		}
		return Reply{Value: buf[:n]}, nil
	case '-':
		msgs := []string{line[1:]}
		for {
			next, err := r.Peek(1)
			if err != nil || next[0] != '-' {
				break
			}
			more, err := readLine(r)
			if err != nil {
				break
			}
			msgs = append(msgs, more[1:])
		}
		return Reply{}, &ServerError{Message: strings.Join(msgs, "\n")}
	default:
		return Reply{}, fmt.Errorf("%w: unexpected %q", ErrMalformedReply, line)
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
