package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/kvlite-go/internal/protocol/resp"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("connection: client closed")

// Client is a connection to a kvlite server. It is not safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
	br      *bufio.Reader
	buf     []byte
}

// Dial connects to addr. timeout bounds the dial and each request when the
// context carries no deadline; 0 means no bound.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
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
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends args as one command array and waits for the reply.
// Requests rejected by CheckCommand are never written.
//
// A server error line is returned as a resp.ErrorReply error. A server that
// closes the connection without replying yields io.EOF, which is what
// kvlite does with a malformed request.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Reply, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	if err := CheckCommand(args); err != nil {
		return nil, err
	}

	if err := c.conn.SetDeadline(c.deadline(ctx)); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		// Unblock pending I/O when ctx ends first.
		c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	c.buf = resp.AppendValue(c.buf[:0], resp.Command(args...))
	if _, err := c.conn.Write(c.buf); err != nil {
		return nil, c.wrap(ctx, err)
	}

	r, err := resp.ReadReply(c.br)
	if err != nil {
		var er resp.ErrorReply
		if errors.As(err, &er) {
			return nil, err
		}
		return nil, c.wrap(ctx, err)
	}
	return r, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	if c.timeout > 0 {
		return time.Now().Add(c.timeout)
	}
	return time.Time{}
}

func (c *Client) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
