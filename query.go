package basex

import (
	"context"
	"strconv"

	"github.com/basexdb/basex-go/lib/binary"
	"github.com/basexdb/basex-go/lib/protocol"
)

// Query is a server-side query session. It is created by Client.Query and
// owns the connection exclusively until Close returns it to the client.
//
// A session moves through created -> bound (any number of times) ->
// executing -> closed. Server-rejected operations return *QueryError and
// leave the session open: it may be retried or closed, releasing the
// server-side resources either way.
type Query struct {
	client *Client
	conn   *connect
	id     string
	closed bool
	resp   *Response
}

// ID returns the server-issued session id.
func (q *Query) ID() string {
	return q.id
}

// ready drains a previous, partially consumed result stream. The wire has
// no way to interleave a new request with an unfinished reply.
func (q *Query) ready() error {
	if q.closed {
		return ErrQueryClosed
	}
	if q.resp != nil {
		if err := q.resp.Close(); err != nil {
			if _, ok := err.(*QueryError); !ok {
				return err
			}
			// a failed execution was already reported through the
			// response; the stream itself is back in sync
		}
	}
	return nil
}

// Bind binds an external variable to a value. The value is rendered as
// UTF-8 text on the wire; typ carries an optional type annotation (e.g.
// "xs:integer") and is inferred from the Go type when empty.
func (q *Query) Bind(ctx context.Context, name string, value any, typ string) error {
	if err := q.ready(); err != nil {
		return err
	}
	text, inferred, err := queryArgument(value)
	if err != nil {
		return err
	}
	if typ == "" {
		typ = inferred
	}

	info, ok, err := q.conn.roundTrip(ctx, "bind", func(enc *binary.Encoder) error {
		if err := enc.Byte(protocol.QueryBind); err != nil {
			return err
		}
		for _, arg := range []string{q.id, name, text, typ} {
			if err := enc.String(arg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return &QueryError{Op: "bind", Info: info}
	}
	return nil
}

// Context replaces the query context (by default the opened database)
// with the given value. An empty typ defaults to document-node().
func (q *Query) Context(ctx context.Context, value string, typ string) error {
	if err := q.ready(); err != nil {
		return err
	}
	if typ == "" {
		typ = "document-node()"
	}

	info, ok, err := q.conn.roundTrip(ctx, "context", func(enc *binary.Encoder) error {
		if err := enc.Byte(protocol.QueryContext); err != nil {
			return err
		}
		for _, arg := range []string{q.id, value, typ} {
			if err := enc.String(arg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return &QueryError{Op: "context", Info: info}
	}
	return nil
}

// Execute runs the query and returns its result as a lazy stream. The
// stream must be fully drained or closed before any other operation on
// the connection; Close drains automatically.
func (q *Query) Execute(ctx context.Context) (*Response, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	if q.conn.isBad() {
		return nil, &OpError{Op: "execute", Err: ErrBadConn}
	}
	if err := q.conn.startReadWriteTimeout(ctx); err != nil {
		return nil, &OpError{Op: "execute", Err: err}
	}

	if err := q.sendRequest(protocol.QueryExecute); err != nil {
		q.conn.clearReadWriteTimeout(ctx)
		return nil, err
	}

	q.resp = &Response{query: q, ctx: ctx}
	return q.resp, nil
}

// ExecuteString runs the query and drains the whole result into a string.
func (q *Query) ExecuteString(ctx context.Context) (string, error) {
	resp, err := q.Execute(ctx)
	if err != nil {
		return "", err
	}
	result, err := resp.readAll()
	if closeErr := resp.Close(); err == nil {
		err = closeErr
	}
	return result, err
}

// Info returns the compiler info collected for the query.
func (q *Query) Info(ctx context.Context) (string, error) {
	return q.sessionString(ctx, "info", protocol.QueryInfo)
}

// Options returns the serialization options of the query as reported by
// the server, e.g. "indent=yes,method=xml".
func (q *Query) Options(ctx context.Context) (string, error) {
	return q.sessionString(ctx, "options", protocol.QueryOptions)
}

// Updating reports whether the query contains updating expressions.
func (q *Query) Updating(ctx context.Context) (bool, error) {
	result, err := q.sessionString(ctx, "updating", protocol.QueryUpdating)
	if err != nil {
		return false, err
	}
	updating, err := strconv.ParseBool(result)
	if err != nil {
		return false, &QueryError{Op: "updating", Info: "unexpected reply " + strconv.Quote(result)}
	}
	return updating, nil
}

// Close deletes the query on the server and returns the connection to the
// owning client. The session id is invalidated regardless of the server's
// answer. A second Close is a no-op returning nil.
func (q *Query) Close(ctx context.Context) error {
	if q.closed {
		return nil
	}
	if err := q.ready(); err != nil {
		q.invalidate()
		return err
	}

	info, ok, err := q.conn.roundTrip(ctx, "close", func(enc *binary.Encoder) error {
		if err := enc.Byte(protocol.QueryClose); err != nil {
			return err
		}
		return enc.String(q.id)
	})
	q.invalidate()
	if err != nil {
		return err
	}
	if !ok {
		return &QueryError{Op: "close", Info: info}
	}
	return nil
}

func (q *Query) invalidate() {
	q.closed = true
	q.resp = nil
	q.client.release(q)
}

func (q *Query) sessionString(ctx context.Context, op string, code byte) (string, error) {
	if err := q.ready(); err != nil {
		return "", err
	}
	result, ok, err := q.conn.roundTrip(ctx, op, func(enc *binary.Encoder) error {
		if err := enc.Byte(code); err != nil {
			return err
		}
		return enc.String(q.id)
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &QueryError{Op: op, Info: result}
	}
	return result, nil
}

func (q *Query) sendRequest(code byte) error {
	if err := q.conn.encoder.Byte(code); err != nil {
		q.conn.setBad()
		return &OpError{Op: "execute", Err: err}
	}
	if err := q.conn.encoder.String(q.id); err != nil {
		q.conn.setBad()
		return &OpError{Op: "execute", Err: err}
	}
	if err := q.conn.encoder.Flush(); err != nil {
		q.conn.setBad()
		return &OpError{Op: "execute", Err: err}
	}
	return nil
}
