package codec

import (
	"github.com/iquod/wod/errs"
)

// NoLimit disables the logical read limit of a Cursor.
const NoLimit = -1

// Cursor is a forward-only read head over an immutable character buffer.
//
// Line breaks ('\n' and '\r') are skipped transparently: WOD files wrap records at
// 80 columns and the breaks never carry data. Offset reports raw byte positions,
// line breaks included, while Consumed counts logical characters only.
//
// A Cursor is exclusively owned by one decode; it is not safe for concurrent use.
type Cursor struct {
	buf      []byte
	pos      int
	consumed int
	limit    int
}

// NewCursor creates a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, limit: NoLimit}
}

// NewCursorAt creates a cursor positioned at byte offset off of buf, so that
// Offset and decode errors report positions in buf. Consumed starts at zero.
func NewCursorAt(buf []byte, off int) *Cursor {
	return &Cursor{buf: buf, pos: off, limit: NoLimit}
}

// Offset returns the current byte offset into the underlying buffer.
func (c *Cursor) Offset() int {
	return c.pos
}

// Consumed returns the number of logical characters read so far.
func (c *Cursor) Consumed() int {
	return c.consumed
}

// SetLimit bounds reads to the given absolute logical position, as reported by
// Consumed. Reading past it fails with errs.ErrUnexpectedEndOfInput.
// Pass NoLimit to remove the bound.
func (c *Cursor) SetLimit(consumed int) {
	c.limit = consumed
}

// Limit returns the active logical limit, or NoLimit.
func (c *Cursor) Limit() int {
	return c.limit
}

// Remaining returns the number of logical characters that can still be read.
func (c *Cursor) Remaining() int {
	if c.limit != NoLimit {
		return max(0, c.limit-c.consumed)
	}

	n := 0
	for _, b := range c.buf[c.pos:] {
		if !isBreak(b) {
			n++
		}
	}

	return n
}

// ReadByte reads one logical character.
func (c *Cursor) ReadByte() (byte, error) {
	c.skipBreaks()
	if c.limit != NoLimit && c.consumed >= c.limit {
		return 0, errs.ErrUnexpectedEndOfInput
	}
	if c.pos >= len(c.buf) {
		return 0, errs.ErrUnexpectedEndOfInput
	}

	b := c.buf[c.pos]
	c.pos++
	c.consumed++

	return b, nil
}

// PeekByte returns the next logical character without consuming it.
func (c *Cursor) PeekByte() (byte, error) {
	c.skipBreaks()
	if c.limit != NoLimit && c.consumed >= c.limit {
		return 0, errs.ErrUnexpectedEndOfInput
	}
	if c.pos >= len(c.buf) {
		return 0, errs.ErrUnexpectedEndOfInput
	}

	return c.buf[c.pos], nil
}

// ReadString reads n logical characters. A field may straddle a line break.
func (c *Cursor) ReadString(n int) (string, error) {
	if n == 0 {
		return "", nil
	}

	c.skipBreaks()
	// Fast path: the whole field sits on one line.
	if end := c.pos + n; end <= len(c.buf) && (c.limit == NoLimit || c.consumed+n <= c.limit) {
		chunk := c.buf[c.pos:end]
		if !containsBreak(chunk) {
			c.pos = end
			c.consumed += n

			return string(chunk), nil
		}
	}

	out := make([]byte, n)
	for i := range out {
		b, err := c.ReadByte()
		if err != nil {
			return "", err
		}
		out[i] = b
	}

	return string(out), nil
}

// ReadDigit reads a single decimal digit.
func (c *Cursor) ReadDigit() (int, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	if b < '0' || b > '9' {
		return 0, errs.ErrInvalidDigit
	}

	return int(b - '0'), nil
}

// ReadDigits reads a fixed-width unsigned decimal number of n digits.
func (c *Cursor) ReadDigits(n int) (int, error) {
	v := 0
	for range n {
		d, err := c.ReadDigit()
		if err != nil {
			return 0, err
		}
		v = v*10 + d
	}

	return v, nil
}

// Skip advances past n logical characters without materializing them.
func (c *Cursor) Skip(n int) error {
	for range n {
		if _, err := c.ReadByte(); err != nil {
			return err
		}
	}

	return nil
}

// SkipPadding consumes the spaces and line breaks that pad the last line of a
// record. The limit is ignored; padding lies outside any record.
func (c *Cursor) SkipPadding() {
	for c.pos < len(c.buf) {
		b := c.buf[c.pos]
		if b != ' ' && !isBreak(b) {
			return
		}
		c.pos++
	}
}

// Done reports whether only padding remains in the buffer.
func (c *Cursor) Done() bool {
	for _, b := range c.buf[c.pos:] {
		if b != ' ' && !isBreak(b) {
			return false
		}
	}

	return true
}

func (c *Cursor) skipBreaks() {
	for c.pos < len(c.buf) && isBreak(c.buf[c.pos]) {
		c.pos++
	}
}

func isBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

func containsBreak(p []byte) bool {
	for _, b := range p {
		if isBreak(b) {
			return true
		}
	}

	return false
}
