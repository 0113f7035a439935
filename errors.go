package basex

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when the server rejects the handshake.
	// The connection is closed and must not be reused.
	ErrAuthentication = errors.New("basex: access denied")
	// ErrQueryOpen is returned when an operation requires an idle
	// connection but a query session is still open. It is a usage error:
	// no bytes are written to the wire.
	ErrQueryOpen = errors.New("basex: a query session is already open on this connection")
	// ErrQueryClosed is returned by operations on a closed query session.
	ErrQueryClosed = errors.New("basex: query session is closed")
	// ErrClientClosed is returned by operations on a closed client.
	ErrClientClosed = errors.New("basex: client is closed")
	// ErrBadConn is returned once a transport failure has left the
	// connection's framing position undefined. The client must be
	// discarded; there is no resynchronization.
	ErrBadConn = errors.New("basex: connection is in a bad state")
)

// CommandError reports a command rejected by the server. The connection
// remains correctly framed and usable for further commands.
type CommandError struct {
	Info string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("basex [command]: %s", e.Info)
}

// QueryError reports a query session operation rejected by the server
// (bad syntax, bad binding, execution failure). The session must not be
// reused for bind/execute but may still be closed.
type QueryError struct {
	Op   string
	Info string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("basex [%s]: %s", e.Op, e.Info)
}

// OpError wraps a transport failure during a protocol exchange. The
// framing position of the connection is undefined afterwards, so the
// connection is flagged bad and every later call fails fast.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("basex [%s]: %s", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
