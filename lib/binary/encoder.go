package binary

import (
	"bufio"
	"io"

	"github.com/basexdb/basex-go/lib/protocol"
)

func NewEncoder(output io.Writer) *Encoder {
	return &Encoder{
		output: bufio.NewWriter(output),
	}
}

type Encoder struct {
	output *bufio.Writer
}

func (enc *Encoder) Byte(v byte) error {
	return enc.output.WriteByte(v)
}

// String writes the UTF-8 bytes of v followed by the terminator.
func (enc *Encoder) String(v string) error {
	if _, err := enc.output.WriteString(v); err != nil {
		return err
	}
	return enc.output.WriteByte(protocol.Terminator)
}

// Resource streams input as a single terminated argument, escaping every
// byte that collides with the terminator or the escape prefix.
func (enc *Encoder) Resource(input io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := input.Read(buf)
		for _, b := range buf[:n] {
			if b == protocol.Terminator || b == protocol.Escape {
				if err := enc.output.WriteByte(protocol.Escape); err != nil {
					return err
				}
			}
			if err := enc.output.WriteByte(b); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return enc.output.WriteByte(protocol.Terminator)
}

func (enc *Encoder) Flush() error {
	return enc.output.Flush()
}
