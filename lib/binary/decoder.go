package binary

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/basexdb/basex-go/lib/protocol"
)

// ErrUnexpectedEOF reports a stream that ended inside a frame, before the
// terminator was seen. The connection cannot be resynchronized after it.
var ErrUnexpectedEOF = errors.New("unexpected end of stream inside frame")

func NewDecoder(input io.Reader) *Decoder {
	return &Decoder{
		input: bufio.NewReader(input),
	}
}

type Decoder struct {
	input *bufio.Reader
}

func (dec *Decoder) Byte() (byte, error) {
	b, err := dec.input.ReadByte()
	if err == io.EOF {
		return 0, ErrUnexpectedEOF
	}
	return b, err
}

// String reads bytes up to the terminator (exclusive).
func (dec *Decoder) String() (string, error) {
	v, err := dec.input.ReadBytes(protocol.Terminator)
	if err == io.EOF {
		return "", ErrUnexpectedEOF
	}
	if err != nil {
		return "", err
	}
	return string(v[:len(v)-1]), nil
}

// Payload reads up to len(buf) unescaped payload bytes. It returns
// done=true once the terminating byte has been consumed; the terminator is
// not part of the returned data.
func (dec *Decoder) Payload(buf []byte) (n int, done bool, err error) {
	for n < len(buf) {
		b, err := dec.input.ReadByte()
		if err == io.EOF {
			return n, false, ErrUnexpectedEOF
		}
		if err != nil {
			return n, false, err
		}
		switch b {
		case protocol.Terminator:
			return n, true, nil
		case protocol.Escape:
			if b, err = dec.input.ReadByte(); err != nil {
				if err == io.EOF {
					err = ErrUnexpectedEOF
				}
				return n, false, err
			}
		}
		buf[n] = b
		n++
	}
	return n, false, nil
}

// Status reads and validates the status byte terminating a reply.
func (dec *Decoder) Status() (bool, error) {
	b, err := dec.Byte()
	if err != nil {
		return false, err
	}
	switch b {
	case protocol.StatusOK:
		return true, nil
	case protocol.StatusError:
		return false, nil
	}
	return false, fmt.Errorf("invalid status byte 0x%02x", b)
}
