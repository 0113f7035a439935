package basex

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/basexdb/basex-go/lib/binary"
)

func dial(ctx context.Context, addr string, opt *Options) (*connect, error) {
	var (
		err  error
		conn net.Conn
	)

	switch {
	case opt.DialContext != nil:
		conn, err = opt.DialContext(ctx, addr)
	default:
		conn, err = net.DialTimeout("tcp", addr, opt.DialTimeout)
	}

	if err != nil {
		return nil, err
	}

	logger := prepareConnLogger(opt.logger(), conn.RemoteAddr().String())

	c := &connect{
		opt:         opt,
		conn:        conn,
		logger:      logger,
		encoder:     binary.NewEncoder(conn),
		decoder:     binary.NewDecoder(conn),
		readTimeout: opt.ReadTimeout,
	}

	if err := c.handshake(opt.Auth.Username, opt.Auth.Password); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// connect owns the single stream the whole protocol runs over. Every
// exchange is strictly half-duplex: a request is written and flushed, then
// its complete reply is read through the terminating status byte before
// the next request may be issued.
type connect struct {
	opt         *Options
	conn        net.Conn
	logger      *slog.Logger
	encoder     *binary.Encoder
	decoder     *binary.Decoder
	closed      bool
	bad         bool
	readTimeout time.Duration
}

func (c *connect) isBad() bool {
	return c.bad || c.closed
}

// setBad marks the connection as unusable. It is called after any
// transport failure mid-exchange: the framing position is undefined and
// there is no way to resynchronize the stream.
func (c *connect) setBad() {
	c.bad = true
}

func (c *connect) close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// startReadWriteTimeout applies the configured read timeout to conn.
// A context deadline overrides it. Matched with a deferred call to
// clearReadWriteTimeout.
func (c *connect) startReadWriteTimeout(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(deadline)
	}
	if c.readTimeout != 0 {
		return c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	return nil
}

func (c *connect) clearReadWriteTimeout(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(time.Time{})
	}
	if c.readTimeout != 0 {
		return c.conn.SetReadDeadline(time.Time{})
	}
	return nil
}
