package basex

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/basexdb/basex-go/lib/binary"
)

// roundTrip writes one request and reads the info/status reply shared by
// resource commands and all query mode operations. A transport failure
// leaves the framing position undefined, so the connection is flagged bad.
func (c *connect) roundTrip(ctx context.Context, op string, send func(enc *binary.Encoder) error) (info string, ok bool, err error) {
	if c.isBad() {
		return "", false, &OpError{Op: op, Err: ErrBadConn}
	}
	if err := c.startReadWriteTimeout(ctx); err != nil {
		return "", false, &OpError{Op: op, Err: err}
	}
	defer c.clearReadWriteTimeout(ctx)

	if err := send(c.encoder); err != nil {
		c.setBad()
		return "", false, &OpError{Op: op, Err: err}
	}
	if err := c.encoder.Flush(); err != nil {
		c.setBad()
		return "", false, &OpError{Op: op, Err: err}
	}

	if info, err = c.decoder.String(); err != nil {
		c.setBad()
		return "", false, &OpError{Op: op, Err: err}
	}
	if ok, err = c.decoder.Status(); err != nil {
		c.setBad()
		return "", false, &OpError{Op: op, Err: err}
	}

	c.logger.Debug("round trip complete",
		slog.String("op", op),
		slog.Bool("ok", ok))
	return info, ok, nil
}

// command executes a textual database command and reads back the
// three-part reply: result payload, info string, status byte.
func (c *connect) command(ctx context.Context, cmd string) (result, info string, err error) {
	const op = "command"
	if c.isBad() {
		return "", "", &OpError{Op: op, Err: ErrBadConn}
	}
	if err := c.startReadWriteTimeout(ctx); err != nil {
		return "", "", &OpError{Op: op, Err: err}
	}
	defer c.clearReadWriteTimeout(ctx)

	if err := c.encoder.String(cmd); err != nil {
		c.setBad()
		return "", "", &OpError{Op: op, Err: err}
	}
	if err := c.encoder.Flush(); err != nil {
		c.setBad()
		return "", "", &OpError{Op: op, Err: err}
	}

	payload, err := c.readPayload()
	if err != nil {
		c.setBad()
		return "", "", &OpError{Op: op, Err: err}
	}
	if info, err = c.decoder.String(); err != nil {
		c.setBad()
		return "", "", &OpError{Op: op, Err: err}
	}
	ok, err := c.decoder.Status()
	if err != nil {
		c.setBad()
		return "", "", &OpError{Op: op, Err: err}
	}
	if !ok {
		// the partial payload carries no meaningful result
		return "", "", &CommandError{Info: info}
	}

	c.logger.Debug("command complete",
		slog.String("command", cmd),
		slog.Int("result_bytes", len(payload)))
	return string(payload), info, nil
}

// readPayload drains one escaped, terminated payload into memory. The
// streaming path for query results lives in Response; commands buffer
// their (typically small) output instead.
func (c *connect) readPayload() ([]byte, error) {
	var (
		out bytes.Buffer
		buf = make([]byte, 4096)
	)
	for {
		n, done, err := c.decoder.Payload(buf)
		if err != nil {
			return nil, err
		}
		out.Write(buf[:n])
		if done {
			return out.Bytes(), nil
		}
	}
}
