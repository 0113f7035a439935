package basex

import (
	"context"
	"io"
	"strings"
)

// Response is the lazily read result stream of Query.Execute. Payload
// bytes arrive unescaped through Read until the wire terminator, after
// which the server's info string and status byte are consumed.
//
// The connection stays checked out to the response until the stream is
// drained or Close is called; Close drains any remaining bytes so that
// dropping a partially read response never desynchronizes the stream.
type Response struct {
	query  *Query
	ctx    context.Context
	done   bool
	closed bool
	info   string
	err    error
}

// Read implements io.Reader. After the final payload byte it returns
// io.EOF on server success, or the *QueryError carrying the server
// diagnostic on failure.
func (r *Response) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.done {
		return 0, io.EOF
	}

	n, done, err := r.query.conn.decoder.Payload(p)
	if err != nil {
		r.query.conn.setBad()
		r.err = &OpError{Op: "execute", Err: err}
		return n, r.err
	}
	if done {
		if err := r.finish(); err != nil {
			return n, err
		}
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n, nil
}

// finish consumes the info string and status byte that follow the payload
// terminator, releasing the connection back to the session.
func (r *Response) finish() error {
	conn := r.query.conn
	r.done = true

	info, err := conn.decoder.String()
	if err != nil {
		conn.setBad()
		r.err = &OpError{Op: "execute", Err: err}
		return r.err
	}
	ok, err := conn.decoder.Status()
	if err != nil {
		conn.setBad()
		r.err = &OpError{Op: "execute", Err: err}
		return r.err
	}
	conn.clearReadWriteTimeout(r.ctx)

	r.info = info
	if !ok {
		r.err = &QueryError{Op: "execute", Info: info}
		return r.err
	}
	return nil
}

// Close drains any unread payload and releases the connection for the
// next operation. It returns the execution error, if any. Closing twice
// is a no-op.
func (r *Response) Close() error {
	if r.closed {
		return r.err
	}
	r.closed = true
	if r.query.resp == r {
		r.query.resp = nil
	}

	buf := make([]byte, 4096)
	for !r.done && r.err == nil {
		if _, err := r.Read(buf); err != nil {
			break
		}
	}
	return r.err
}

// Info returns the info string read after the payload. It is empty until
// the stream has been fully drained.
func (r *Response) Info() string {
	return r.info
}

func (r *Response) readAll() (string, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}
