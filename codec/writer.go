package codec

import (
	"fmt"
	"strconv"

	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/internal/pool"
)

// LineWidth is the column width WOD files wrap records at.
const LineWidth = 80

// Writer assembles the logical characters of a record or block, before line
// wrapping. Writers draw their buffer from a pool; call Release when done.
type Writer struct {
	buf *pool.ByteBuffer
}

// NewWriter returns an empty Writer backed by a pooled buffer.
func NewWriter() *Writer {
	return &Writer{buf: pool.GetRecordBuffer()}
}

// Release returns the buffer to the pool. The Writer and any slice obtained from
// Bytes must not be used afterwards.
func (w *Writer) Release() {
	pool.PutRecordBuffer(w.buf)
	w.buf = nil
}

// Len returns the number of characters written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the characters written so far. The slice aliases the pooled buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteByte appends one character.
func (w *Writer) WriteByte(b byte) error {
	w.buf.MustWriteByte(b)
	return nil
}

// WriteString appends raw characters.
func (w *Writer) WriteString(s string) {
	w.buf.MustWriteString(s)
}

// Write appends raw characters, satisfying io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// WriteDigits appends v zero-padded to exactly width digits.
func (w *Writer) WriteDigits(v, width int) error {
	s := strconv.Itoa(v)
	if v < 0 || len(s) > width {
		return fmt.Errorf("%w: %d does not fit %d digits", errs.ErrEncodingOverflow, v, width)
	}
	for i := len(s); i < width; i++ {
		w.buf.MustWriteByte('0')
	}
	w.buf.MustWriteString(s)

	return nil
}

// WriteLengthPrefixedInt appends v as a length-prefixed integer.
func (w *Writer) WriteLengthPrefixedInt(v int64) error {
	s, err := EncodeLengthPrefixedInt(v)
	if err != nil {
		return err
	}
	w.buf.MustWriteString(s)

	return nil
}

// WriteDecimal appends d as a scaled decimal using its own precision.
func (w *Writer) WriteDecimal(d Decimal) error {
	s, err := EncodeDecimal(d)
	if err != nil {
		return err
	}
	w.buf.MustWriteString(s)

	return nil
}

// WriteScaledDecimal appends v rounded to precision decimal places.
func (w *Writer) WriteScaledDecimal(v float64, precision int) error {
	s, err := EncodeScaledDecimal(v, precision)
	if err != nil {
		return err
	}
	w.buf.MustWriteString(s)

	return nil
}

// WriteBlock appends a block whose length prefix counts the prefix itself plus body.
func (w *Writer) WriteBlock(body []byte) error {
	prefix, err := SelfSizedPrefix(len(body))
	if err != nil {
		return err
	}
	w.buf.MustWriteString(prefix)
	w.buf.MustWrite(body)

	return nil
}

// AppendWrapped appends logical to dst split into lines of width characters.
// The last line is padded with spaces; every line ends with '\n'. A width of
// zero or less writes the record on a single line.
func AppendWrapped(dst, logical []byte, width int) []byte {
	if width <= 0 {
		dst = append(dst, logical...)
		return append(dst, '\n')
	}

	for start := 0; start < len(logical); start += width {
		end := min(start+width, len(logical))
		dst = append(dst, logical[start:end]...)
		for i := end - start; i < width; i++ {
			dst = append(dst, ' ')
		}
		dst = append(dst, '\n')
	}

	return dst
}
