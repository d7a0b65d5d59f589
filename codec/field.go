package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iquod/wod/errs"
)

// MissingMarker opens a scaled decimal that carries no value.
const MissingMarker = '-'

// DecodeLengthPrefixedInt reads one digit L followed by L characters holding a
// signed integer. L = 0 decodes as 0.
func DecodeLengthPrefixedInt(c *Cursor) (int64, error) {
	n, err := c.ReadDigit()
	if err != nil {
		return 0, err
	}

	s, err := c.ReadString(n)
	if err != nil {
		return 0, err
	}

	return parseSigned(s)
}

// DecodeScaledDecimal reads a scaled decimal: either the missing marker, or three
// digits (significant figures, width W, precision P) followed by W characters
// holding a signed integer that is scaled by 10^-P.
func DecodeScaledDecimal(c *Cursor) (Decimal, error) {
	b, err := c.PeekByte()
	if err != nil {
		return Decimal{}, err
	}
	if b == MissingMarker {
		_, _ = c.ReadByte()
		return Absent(), nil
	}

	// The significant-figure count is implied by the digits themselves.
	if _, err = c.ReadDigit(); err != nil {
		return Decimal{}, err
	}
	width, err := c.ReadDigit()
	if err != nil {
		return Decimal{}, err
	}
	precision, err := c.ReadDigit()
	if err != nil {
		return Decimal{}, err
	}

	s, err := c.ReadString(width)
	if err != nil {
		return Decimal{}, err
	}

	v, err := parseSigned(strings.TrimLeft(s, " "))
	if err != nil {
		return Decimal{}, err
	}

	return NewDecimal(v, precision), nil
}

// EncodeLengthPrefixedInt renders v as its length digit followed by its decimal form.
func EncodeLengthPrefixedInt(v int64) (string, error) {
	s := strconv.FormatInt(v, 10)
	if len(s) > 9 {
		return "", fmt.Errorf("%w: integer %d needs %d characters", errs.ErrEncodingOverflow, v, len(s))
	}

	return strconv.Itoa(len(s)) + s, nil
}

// EncodeDecimal renders d with its own precision, or the missing marker when absent.
//
// The significant-figure count is max(1, precision, digit count of the scaled
// integer); the width adds one for a minus sign. Either exceeding 9 fails with
// errs.ErrEncodingOverflow.
func EncodeDecimal(d Decimal) (string, error) {
	if !d.Valid {
		return string(MissingMarker), nil
	}
	if d.Precision < 0 || d.Precision > MaxPrecision {
		return "", fmt.Errorf("%w: precision %d", errs.ErrEncodingOverflow, d.Precision)
	}

	abs := d.Digits
	if abs < 0 {
		abs = -abs
	}

	sig := max(1, d.Precision, digitCount(abs))
	width := sig
	if d.Digits < 0 {
		width++
	}
	if sig > 9 || width > 9 {
		return "", fmt.Errorf("%w: %s needs %d significant digits", errs.ErrEncodingOverflow, d, sig)
	}

	return fmt.Sprintf("%d%d%d%0*d", sig, width, d.Precision, width, d.Digits), nil
}

// EncodeScaledDecimal rounds v to precision decimal places and renders it. NaN
// renders as the missing marker.
func EncodeScaledDecimal(v float64, precision int) (string, error) {
	d, err := DecimalOf(v, precision)
	if err != nil {
		return "", err
	}

	return EncodeDecimal(d)
}

// SelfSizedPrefix returns the length-prefixed size of a block whose size counts
// the prefix itself plus extra characters.
func SelfSizedPrefix(extra int) (string, error) {
	for digits := 1; digits <= 9; digits++ {
		total := extra + 1 + digits
		s := strconv.Itoa(total)
		if len(s) == digits {
			return strconv.Itoa(digits) + s, nil
		}
	}

	return "", fmt.Errorf("%w: block of %d characters", errs.ErrEncodingOverflow, extra)
}

func parseSigned(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && (i != 0 || s[i] != '-') {
			return 0, errs.ErrInvalidDigit
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.ErrInvalidDigit
	}

	return v, nil
}

func digitCount(v int64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}

	return n
}

// LengthPrefixedInt decodes a length-prefixed integer and locates any failure
// at the named field.
func LengthPrefixedInt(c *Cursor, field string) (int64, error) {
	off := c.Offset()
	v, err := DecodeLengthPrefixedInt(c)

	return v, errs.AtField(err, off, field)
}

// LengthPrefixedCount decodes a length-prefixed integer that must be a
// non-negative count.
func LengthPrefixedCount(c *Cursor, field string) (int, error) {
	off := c.Offset()
	v, err := DecodeLengthPrefixedInt(c)
	if err == nil && v < 0 {
		err = fmt.Errorf("%w: negative count %d", errs.ErrInvalidDigit, v)
	}

	return int(v), errs.AtField(err, off, field)
}

// ScaledDecimal decodes a scaled decimal and locates any failure at the named field.
func ScaledDecimal(c *Cursor, field string) (Decimal, error) {
	off := c.Offset()
	v, err := DecodeScaledDecimal(c)

	return v, errs.AtField(err, off, field)
}

// Digits decodes an n-digit fixed-width number and locates any failure at the named field.
func Digits(c *Cursor, n int, field string) (int, error) {
	off := c.Offset()
	v, err := c.ReadDigits(n)

	return v, errs.AtField(err, off, field)
}

// Text reads n raw characters and locates any failure at the named field.
func Text(c *Cursor, n int, field string) (string, error) {
	off := c.Offset()
	s, err := c.ReadString(n)

	return s, errs.AtField(err, off, field)
}
