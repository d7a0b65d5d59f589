package section

import (
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
)

// parseBlock reads the self-inclusive size prefix of an optional header block and,
// when the block is present, runs body with the cursor bounded to the block.
// It reports whether the block was present.
func parseBlock(c *codec.Cursor, field string, body func() error) (bool, error) {
	start := c.Consumed()
	off := c.Offset()

	size, err := codec.LengthPrefixedCount(c, field+" size")
	if err != nil {
		return false, err
	}
	if size == 0 {
		return false, nil
	}

	outer := c.Limit()
	end := start + size
	if outer != codec.NoLimit && end > outer {
		end = outer
	}
	c.SetLimit(end)
	err = body()
	c.SetLimit(outer)
	if err != nil {
		return true, err
	}

	if got := c.Consumed() - start; got != size {
		return true, errs.AtField(
			fmt.Errorf("%w: declared %d characters, read %d", errs.ErrLengthMismatch, size, got),
			off, field)
	}

	return true, nil
}

// writeBlock encodes an optional header block. An empty block is written as the
// zero-length size "0".
func writeBlock(w *codec.Writer, empty bool, body func(*codec.Writer) error) error {
	if empty {
		return w.WriteByte('0')
	}

	inner := codec.NewWriter()
	defer inner.Release()

	if err := body(inner); err != nil {
		return err
	}

	return w.WriteBlock(inner.Bytes())
}

func writeFlag(w *codec.Writer, v int) error {
	if v < 0 || v > maxFlag {
		return fmt.Errorf("%w: flag %d", errs.ErrEncodingOverflow, v)
	}

	return w.WriteDigits(v, FlagWidth)
}

// checkCount rejects a decoded element count that cannot fit in the characters
// left to read, before anything is allocated for it. Every element needs at
// least one character.
func checkCount(c *codec.Cursor, n int, field string) error {
	if n <= 64 {
		return nil
	}
	if rem := c.Remaining(); n > rem {
		return errs.AtField(
			fmt.Errorf("%w: %s of %d with %d characters left", errs.ErrUnexpectedEndOfInput, field, n, rem),
			c.Offset(), field)
	}

	return nil
}
