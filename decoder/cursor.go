package decoder

import "fmt"

// underrunError is raised by the cursor. The session turns it into an *Error
// once it knows which instruction was being read.
type underrunError struct {
	pos  int
	want int
	size int
}

func (e underrunError) Error() string {
	return fmt.Sprintf("need %d byte(s) at offset %d, buffer holds %d", e.want, e.pos, e.size)
}

// cursor is the only reader of the input buffer. Every read is bounds checked.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.buf)
}

func (c *cursor) next() (byte, error) {
	b, err := c.peek()
	if err != nil {
		return 0, err
	}

	c.pos++

	return b, nil
}

func (c *cursor) peek() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, underrunError{pos: c.pos, want: 1, size: len(c.buf)}
	}

	return c.buf[c.pos], nil
}

// word reads a little-endian 16-bit value.
func (c *cursor) word() (uint16, error) {
	if c.pos+2 > len(c.buf) {
		return 0, underrunError{pos: c.pos, want: 2, size: len(c.buf)}
	}

	w := uint16(c.buf[c.pos]) | uint16(c.buf[c.pos+1])<<8
	c.pos += 2

	return w, nil
}

// since returns a copy of the bytes consumed from start up to the cursor.
func (c *cursor) since(start int) []byte {
	return append([]byte(nil), c.buf[start:c.pos]...)
}
