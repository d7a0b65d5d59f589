package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
)

// Scanner reads profiles one at a time from a stream of records.
//
// Each record is framed by its size prefix, read into memory and decoded.
// A Scanner is finite and cannot be restarted; reopen the stream to iterate
// again. Iteration stops at the first error, which Err reports. Profiles
// returned before the error remain valid.
//
// Example:
//
//	sc, err := profile.NewScanner(f)
//	if err != nil {
//		return err
//	}
//	for sc.Scan() {
//		p := sc.Profile()
//		fmt.Println(p.UID(), p.NLevels())
//	}
//	if err := sc.Err(); err != nil {
//		return err
//	}
type Scanner struct {
	r      *bufio.Reader
	dec    *Decoder
	offset int
	buf    []byte
	cur    Profile
	span   Span
	err    error
	done   bool
}

// NewScanner creates a Scanner reading from r. Records are always framed by
// their size prefix; WithStrictLength(false) only relaxes the check inside a
// framed record.
func NewScanner(r io.Reader, opts ...DecodeOption) (*Scanner, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return &Scanner{r: bufio.NewReaderSize(r, 64*1024), dec: dec}, nil
}

// Scan advances to the next profile. It returns false at the end of the stream
// or on error.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	more, err := s.skipPadding()
	if err != nil {
		return s.fail(err)
	}
	if !more {
		s.done = true
		return false
	}

	start := s.offset
	raw, err := s.frame()
	if err != nil {
		return s.fail(relocate(fmt.Errorf("record at offset %d: %w", start, err), start))
	}

	p, _, err := s.dec.DecodeOne(codec.NewCursor(raw))
	if err != nil {
		return s.fail(relocate(fmt.Errorf("stream offset %d: %w", start, err), start))
	}

	if _, err = s.skipPadding(); err != nil {
		return s.fail(err)
	}

	s.cur = p
	s.span = Span{Start: start, End: s.offset}

	return true
}

// Profile returns the profile read by the last successful Scan.
func (s *Scanner) Profile() Profile {
	return s.cur
}

// Span returns the stream byte range of the last profile.
func (s *Scanner) Span() Span {
	return s.span
}

// Err returns the first error encountered, or nil at a clean end of stream.
func (s *Scanner) Err() error {
	return s.err
}

// All returns an iterator over the remaining profiles. Check Err once the
// iteration ends.
func (s *Scanner) All() iter.Seq[Profile] {
	return func(yield func(Profile) bool) {
		for s.Scan() {
			if !yield(s.cur) {
				return
			}
		}
	}
}

func (s *Scanner) fail(err error) bool {
	s.err = err
	s.done = true

	return false
}

// skipPadding consumes spaces and line breaks and reports whether more input follows.
func (s *Scanner) skipPadding() (bool, error) {
	for {
		b, err := s.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if b != ' ' && b != '\n' && b != '\r' {
			return true, s.r.UnreadByte()
		}
		s.offset++
	}
}

// frame reads one record's raw bytes, line breaks included, using its size prefix.
func (s *Scanner) frame() ([]byte, error) {
	s.buf = s.buf[:0]

	// Version marker and the size's length digit.
	if err := s.readLogical(2); err != nil {
		return nil, err
	}
	digits := s.buf[len(s.buf)-1]
	if digits < '0' || digits > '9' {
		// Let the decoder report the malformed prefix.
		return s.buf, nil
	}
	if err := s.readLogical(int(digits - '0')); err != nil {
		return nil, err
	}

	c := codec.NewCursor(s.buf)
	_, _ = c.ReadByte()
	size, err := codec.LengthPrefixedCount(c, "record size")
	if err != nil {
		return nil, err
	}
	if rest := size - c.Consumed(); rest > 0 {
		if err := s.readLogical(rest); err != nil {
			return nil, err
		}
	}

	return s.buf, nil
}

func (s *Scanner) readLogical(n int) error {
	for n > 0 {
		b, err := s.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return errs.AtField(errs.ErrUnexpectedEndOfInput, len(s.buf), "record")
		}
		if err != nil {
			return err
		}
		s.offset++
		s.buf = append(s.buf, b)
		if b != '\n' && b != '\r' {
			n--
		}
	}

	return nil
}

// relocate shifts a record-relative decode error offset to a stream offset.
func relocate(err error, base int) error {
	var de *errs.DecodeError
	if errors.As(err, &de) {
		de.Offset += base
	}

	return err
}
