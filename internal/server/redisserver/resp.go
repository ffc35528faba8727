package redisserver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/shardkv-go/internal/telemetry/logger"
)

// Protocol limits to prevent DoS attacks.
const (
	// MaxArrayLen limits the number of elements in a request array.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single argument (512KB).
	MaxBulkLen = 512 * 1024

	// MaxHeaderLen limits "*<n>" and "$<n>" lines, CRLF included.
	MaxHeaderLen = 64
)

// ReadCommand decodes one request: "*<argc>" followed by argc pairs of
// "$<len>" and a line of exactly len bytes.
//
// End of stream while a line is expected is reported as ErrConnectionClosed,
// malformed frames as ErrProtocol, other read failures as ErrIO.
func ReadCommand(r *bufio.Reader) ([][]byte, error) {
	line, err := readLine(r, MaxHeaderLen)
	if err != nil {
		return nil, err
	}
	if len(line) < 2 || line[0] != '*' {
		return nil, fmt.Errorf("%w: cannot understand arg batch: %q", ErrProtocol, logger.Truncate(string(line)))
	}
	argc, err := strconv.Atoi(string(line[1:]))
	if err != nil || argc < 0 {
		return nil, fmt.Errorf("%w: cannot understand arg batch: %q", ErrProtocol, logger.Truncate(string(line)))
	}
	if argc > MaxArrayLen {
		return nil, fmt.Errorf("%w: %w: array length %d exceeds limit %d", ErrProtocol, ErrLimitExceeded, argc, MaxArrayLen)
	}

	args := make([][]byte, 0, argc)
	for i := 0; i < argc; i++ {
		arg, err := readArg(r)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func readArg(r *bufio.Reader) ([]byte, error) {
	line, err := readLine(r, MaxHeaderLen)
	if err != nil {
		return nil, err
	}
	if len(line) < 2 || line[0] != '$' {
		return nil, fmt.Errorf("%w: cannot understand arg length: %q", ErrProtocol, logger.Truncate(string(line)))
	}
	n, err := strconv.Atoi(string(line[1:]))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: cannot understand arg length: %q", ErrProtocol, logger.Truncate(string(line)))
	}
	if n > MaxBulkLen {
		return nil, fmt.Errorf("%w: %w: bulk length %d exceeds limit %d", ErrProtocol, ErrLimitExceeded, n, MaxBulkLen)
	}

	// The argument is read as a line, so it cannot contain CRLF.
	data, err := readLine(r, MaxBulkLen+2)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: wrong arg length: expected %d, got %d", ErrProtocol, n, len(data))
	}
	return data, nil
}

// readLine returns the next CRLF-terminated line without its terminator.
// The returned slice is a copy and stays valid after further reads.
func readLine(r *bufio.Reader, maxLen int) ([]byte, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > maxLen {
				return nil, fmt.Errorf("%w: %w: line length exceeds limit %d", ErrProtocol, ErrLimitExceeded, maxLen)
			}
			continue
		}
		return nil, readError(err)
	}

	if len(buf) > maxLen {
		return nil, fmt.Errorf("%w: %w: line length exceeds limit %d", ErrProtocol, ErrLimitExceeded, maxLen)
	}
	if len(buf) < 2 || buf[len(buf)-2] != '\r' {
		return nil, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return buf[:len(buf)-2], nil
}

// lineBuffered reports, without blocking, whether a complete line is
// already in the reader's buffer.
func lineBuffered(r *bufio.Reader) bool {
	n := r.Buffered()
	if n == 0 {
		return false
	}
	b, err := r.Peek(n)
	if err != nil {
		return false
	}
	return bytes.IndexByte(b, '\n') >= 0
}

// WriteNullBulk writes the nil reply.
func WriteNullBulk(w *bufio.Writer) error {
	_, err := w.WriteString("$-1\r\n")
	return err
}

// WriteBulk writes b as a bulk string, or the nil reply when b is nil.
func WriteBulk(w *bufio.Writer, b []byte) error {
	if b == nil {
		return WriteNullBulk(w)
	}
	if _, err := w.WriteString("$" + strconv.Itoa(len(b)) + "\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

// WriteError writes msg as an error reply, one "-" line per line of msg.
func WriteError(w *bufio.Writer, msg string) error {
	for _, line := range strings.Split(strings.TrimRight(msg, "\r\n"), "\n") {
		if _, err := w.WriteString("-" + strings.TrimRight(line, "\r") + "\r\n"); err != nil {
			return err
		}
	}
	return nil
}

func normalizeCommandName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased tokens.
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}
