package section

import (
	"github.com/iquod/wod/codec"
)

// Entry is one (code, value) pair of the secondary or biological header.
type Entry struct {
	Code  int
	Value codec.Decimal
}

// Lookup returns the value of the first entry with the given code.
func Lookup(entries []Entry, code int) (codec.Decimal, bool) {
	for _, e := range entries {
		if e.Code == code {
			return e.Value, true
		}
	}

	return codec.Absent(), false
}

// ParseSecondaryHeader decodes the secondary header block. The result is never
// nil; an absent block yields no entries.
func ParseSecondaryHeader(c *codec.Cursor) ([]Entry, error) {
	entries := []Entry{}

	_, err := parseBlock(c, "secondary header", func() error {
		var err error
		entries, err = parseEntries(c, "secondary header")

		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// EncodeSecondaryHeader writes the secondary header block, or the absent marker
// when there are no entries.
func EncodeSecondaryHeader(w *codec.Writer, entries []Entry) error {
	return writeBlock(w, len(entries) == 0, func(bw *codec.Writer) error {
		return encodeEntries(bw, entries)
	})
}

func parseEntries(c *codec.Cursor, field string) ([]Entry, error) {
	n, err := codec.LengthPrefixedCount(c, field+" entry count")
	if err != nil {
		return nil, err
	}
	if err = checkCount(c, n, field+" entry count"); err != nil {
		return nil, err
	}

	entries := make([]Entry, n)
	for i := range entries {
		code, err := codec.LengthPrefixedInt(c, field+" code")
		if err != nil {
			return nil, err
		}
		value, err := codec.ScaledDecimal(c, field+" value")
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{Code: int(code), Value: value}
	}

	return entries, nil
}

func encodeEntries(w *codec.Writer, entries []Entry) error {
	if err := w.WriteLengthPrefixedInt(int64(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.WriteLengthPrefixedInt(int64(e.Code)); err != nil {
			return err
		}
		if err := w.WriteDecimal(e.Value); err != nil {
			return err
		}
	}

	return nil
}
