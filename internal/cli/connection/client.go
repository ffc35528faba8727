package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// DefaultTimeout bounds a dial and every request round trip.
const DefaultTimeout = 5 * time.Second

// ErrBroken is returned by a Client that has failed earlier.
var ErrBroken = errors.New("connection: client is broken, redial")

// Client is a RESP client holding one connection. It is not safe for
// concurrent use.
type Client struct {
	addr    string
	timeout time.Duration

	conn   net.Conn
	br     *bufio.Reader
	bw     *bufio.Writer
	broken bool
}

// Dial connects to a shardkv server.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		br:      bufio.NewReader(conn),
		bw:      bufio.NewWriter(conn),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Broken reports whether the client must be redialed.
func (c *Client) Broken() bool {
	return c.broken
}

// Close closes the connection.
func (c *Client) Close() error {
	c.broken = true
	return c.conn.Close()
}

// Do sends one command and waits for its reply.
func (c *Client) Do(ctx context.Context, args ...string) (Reply, error) {
	replies, err := c.Pipeline(ctx, [][]string{args})
	if err != nil {
		return Reply{}, err
	}
	return replies[0], nil
}

// Pipeline writes the commands from a separate goroutine while the caller
// reads the replies in order, so a burst larger than the socket buffers
// cannot stall both ends.
//
// On a ServerError the returned slice holds the replies received before it.
func (c *Client) Pipeline(ctx context.Context, cmds [][]string) ([]Reply, error) {
	if c.broken {
		return nil, ErrBroken
	}
	if len(cmds) == 0 {
		return nil, nil
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, c.fail(err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	written := make(chan error, 1)
	go func() {
		written <- c.writeAll(cmds)
	}()

	replies := make([]Reply, 0, len(cmds))
	for range cmds {
		r, err := readReply(c.br)
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			err = c.fail(err)
			werr := <-written
			var serr *ServerError
			if errors.As(err, &serr) {
				return replies, err
			}
			return replies, errors.Join(err, werr)
		}
		replies = append(replies, r)
	}
	if err := <-written; err != nil {
		return replies, c.fail(err)
	}
	return replies, nil
}

func (c *Client) writeAll(cmds [][]string) error {
	for _, args := range cmds {
		if err := writeCommand(c.bw, args); err != nil {
			return err
		}
	}
	return c.bw.Flush()
}

func (c *Client) fail(err error) error {
	c.broken = true
	_ = c.conn.Close()
	return err
}
