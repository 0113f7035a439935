// Package basex implements a client for the BaseX server protocol: a
// stateful, NUL-framed, half-duplex protocol carrying database commands
// and XQuery sessions over a single persistent TCP connection.
//
// A Client owns exactly one authenticated connection for its whole
// lifetime. Commands and query sessions never overlap on the wire: while
// a query session is open the connection belongs to it exclusively, and
// every other operation fails fast with ErrQueryOpen until the session is
// closed. Callers that need concurrent queries open multiple clients.
package basex

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/basexdb/basex-go/lib/binary"
	"github.com/basexdb/basex-go/lib/protocol"
)

// Open connects to the server and runs the authentication handshake.
// When opt.Auth.Database is set the database is opened right away.
func Open(opt *Options) (*Client, error) {
	if opt == nil {
		opt = &Options{}
	}
	o := opt.setDefaults()

	conn, err := dial(context.Background(), o.Addr, o)
	if err != nil {
		return nil, err
	}

	client := &Client{opt: o, conn: conn}
	if o.Auth.Database != "" {
		if _, _, err := client.Execute(context.Background(), "OPEN "+o.Auth.Database); err != nil {
			conn.close()
			return nil, err
		}
	}
	return client, nil
}

// OpenDSN is a convenience over ParseDSN + Open.
func OpenDSN(dsn string) (*Client, error) {
	opt, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return Open(opt)
}

// Client is the facade over one authenticated connection.
type Client struct {
	opt     *Options
	conn    *connect
	mutex   sync.Mutex
	session *Query
	closed  bool
}

// acquire takes the connection for one idle-mode exchange. It fails fast,
// writing nothing, when the client is closed or a query session still
// owns the connection.
func (c *Client) acquire() (*connect, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	if c.session != nil {
		return nil, ErrQueryOpen
	}
	return c.conn, nil
}

// Execute runs a textual database command (e.g. "LIST", "OPEN db",
// "XQUERY ...") and returns its result payload and info message.
func (c *Client) Execute(ctx context.Context, command string) (result, info string, err error) {
	conn, err := c.acquire()
	if err != nil {
		return "", "", err
	}
	ctx, span := startSpan(ctx, c.opt, "command", command)
	defer func() { endSpan(span, err) }()
	return conn.command(ctx, command)
}

// Create creates (or overwrites) the database name and opens it. The
// optional input is parsed as its initial XML resource; pass nil for an
// empty database.
func (c *Client) Create(ctx context.Context, name string, input io.Reader) (info string, err error) {
	return c.resourceCommand(ctx, "create", protocol.CmdCreate, name, input)
}

// Add adds an XML resource to the currently opened database at path. The
// same path may occur more than once; use Replace when that is unwanted.
func (c *Client) Add(ctx context.Context, path string, input io.Reader) (info string, err error) {
	return c.resourceCommand(ctx, "add", protocol.CmdAdd, path, input)
}

// Replace replaces the resource at path with the given XML document, or
// adds it when no resource exists there yet.
func (c *Client) Replace(ctx context.Context, path string, input io.Reader) (info string, err error) {
	return c.resourceCommand(ctx, "replace", protocol.CmdReplace, path, input)
}

// Store stores a raw binary resource at path in the currently opened
// database. An existing resource is overwritten.
func (c *Client) Store(ctx context.Context, path string, input io.Reader) (info string, err error) {
	return c.resourceCommand(ctx, "store", protocol.CmdStore, path, input)
}

func (c *Client) resourceCommand(ctx context.Context, op string, code byte, name string, input io.Reader) (string, error) {
	conn, err := c.acquire()
	if err != nil {
		return "", err
	}
	ctx, span := startSpan(ctx, c.opt, op, name)
	defer func() { endSpan(span, err) }()

	info, ok, err := conn.roundTrip(ctx, op, func(enc *binary.Encoder) error {
		if err := enc.Byte(code); err != nil {
			return err
		}
		if err := enc.String(name); err != nil {
			return err
		}
		if input == nil {
			return enc.String("")
		}
		return enc.Resource(input)
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &CommandError{Info: info}
	}
	return info, nil
}

// Query creates a new server-side query from the given XQuery text and
// transfers the connection into the returned session until it is closed.
// Only one session may be open per client.
func (c *Client) Query(ctx context.Context, text string) (q *Query, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	if c.session != nil {
		return nil, ErrQueryOpen
	}

	ctx, span := startSpan(ctx, c.opt, "query", text)
	defer func() { endSpan(span, err) }()

	id, ok, err := c.conn.roundTrip(ctx, "query", func(enc *binary.Encoder) error {
		if err := enc.Byte(protocol.CmdQuery); err != nil {
			return err
		}
		return enc.String(text)
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// on failure the id slot carries the server diagnostic
		return nil, &QueryError{Op: "query", Info: id}
	}

	c.session = &Query{client: c, conn: c.conn, id: id}
	return c.session, nil
}

// Close releases the connection. Closing twice is a no-op. An open query
// session is closed first, best effort.
func (c *Client) Close() error {
	c.mutex.Lock()
	session := c.session
	c.mutex.Unlock()
	if session != nil {
		session.Close(context.Background())
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.close()
}

// release is called by Query.Close to return the connection.
func (c *Client) release(q *Query) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.session == q {
		c.session = nil
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("basex://%s@%s", c.opt.Auth.Username, c.opt.Addr)
}
