package basex

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
)

// handshake runs the connect-time challenge-response authentication,
// exactly once per connection.
//
// The server opens with a challenge string. A challenge of the form
// "realm:timestamp" selects digest authentication; a bare timestamp
// selects the legacy CRAM-MD5 scheme. Either way the password never
// crosses the wire: the client proves knowledge of it by answering with
//
//	md5( hex(md5(credentials)) + timestamp )
//
// rendered as lowercase hex. A non-zero status byte means the server
// rejected the response; the connection must then be discarded.
func (c *connect) handshake(username, password string) error {
	challenge, err := c.decoder.String()
	if err != nil {
		return &OpError{Op: "handshake", Err: err}
	}

	if err := c.encoder.String(username); err != nil {
		return &OpError{Op: "handshake", Err: err}
	}
	if err := c.encoder.String(authDigest(username, password, challenge)); err != nil {
		return &OpError{Op: "handshake", Err: err}
	}
	if err := c.encoder.Flush(); err != nil {
		return &OpError{Op: "handshake", Err: err}
	}

	ok, err := c.decoder.Status()
	if err != nil {
		return &OpError{Op: "handshake", Err: err}
	}
	if !ok {
		c.logger.Warn("authentication rejected", slog.String("username", username))
		return ErrAuthentication
	}

	c.logger.Debug("authenticated", slog.String("username", username))
	return nil
}

func authDigest(username, password, challenge string) string {
	var first string
	if realm, timestamp, found := strings.Cut(challenge, ":"); found {
		first = md5hex(username + ":" + realm + ":" + password)
		challenge = timestamp
	} else {
		first = md5hex(password)
	}
	return md5hex(first + challenge)
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
