package basex

import (
	"bytes"
	"net"
	"time"

	"github.com/basexdb/basex-go/lib/binary"
)

// mockConn is an in-memory net.Conn: reads come from a canned server
// reply, writes are captured for byte-exact assertions.
type mockConn struct {
	reply *bytes.Reader
	wrote bytes.Buffer
}

func newMockConn(reply string) *mockConn {
	return &mockConn{reply: bytes.NewReader([]byte(reply))}
}

func (m *mockConn) Read(p []byte) (int, error)  { return m.reply.Read(p) }
func (m *mockConn) Write(p []byte) (int, error) { return m.wrote.Write(p) }
func (m *mockConn) Close() error                { return nil }

func (m *mockConn) LocalAddr() net.Addr                { return mockAddr{} }
func (m *mockConn) RemoteAddr() net.Addr               { return mockAddr{} }
func (m *mockConn) SetDeadline(t time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

type mockAddr struct{}

func (mockAddr) Network() string { return "tcp" }
func (mockAddr) String() string  { return "mock:1984" }

// newTestConn wires a connect over a mock stream, past the handshake.
func newTestConn(reply string) (*connect, *mockConn) {
	mock := newMockConn(reply)
	return &connect{
		opt:     &Options{Addr: mockAddr{}.String()},
		conn:    mock,
		logger:  nopLogger(),
		encoder: binary.NewEncoder(mock),
		decoder: binary.NewDecoder(mock),
	}, mock
}

func newTestClient(reply string) (*Client, *mockConn) {
	conn, mock := newTestConn(reply)
	return &Client{opt: conn.opt, conn: conn}, mock
}
