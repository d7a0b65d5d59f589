package profile

import (
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/internal/hash"
)

// IndexEntry locates one record in a buffer without decoding it.
type IndexEntry struct {
	// Offset is the byte offset of the version marker.
	Offset int
	// End is the byte offset just past the record's last character, before padding.
	End int
	// Length is the declared record size in logical characters.
	Length  int
	Dialect format.Dialect
	// Hash is the xxHash64 of the record's logical characters.
	Hash uint64
}

// Bytes returns the raw record slice of data described by e.
func (e IndexEntry) Bytes(data []byte) []byte {
	return data[e.Offset:e.End]
}

// Verify reports whether the record bytes in data still hash to e.Hash.
func (e IndexEntry) Verify(data []byte) bool {
	if e.Offset < 0 || e.End > len(data) || e.Offset > e.End {
		return false
	}

	return hash.Logical(e.Bytes(data)) == e.Hash
}

// BuildIndex walks data by record size prefixes and returns one entry per record.
//
// Only the version marker and the size are decoded, so the scan is cheap and the
// entries can be decoded independently, for example with DecodeIndexed.
func BuildIndex(data []byte) ([]IndexEntry, error) {
	var out []IndexEntry

	c := codec.NewCursor(data)
	for {
		c.SkipPadding()
		if c.Done() {
			return out, nil
		}

		start := c.Offset()
		consumed := c.Consumed()

		marker, err := c.ReadByte()
		if err != nil {
			return out, errs.AtField(err, start, "version")
		}
		dialect, err := format.ParseDialect(marker)
		if err != nil {
			return out, errs.AtField(fmt.Errorf("%w: marker %q", errs.ErrUnknownDialect, marker), start, "version")
		}
		size, err := codec.LengthPrefixedCount(c, "record size")
		if err != nil {
			return out, err
		}

		rest := size - (c.Consumed() - consumed)
		if rest < 0 {
			return out, errs.AtField(
				fmt.Errorf("%w: record size %d shorter than its prefix", errs.ErrLengthMismatch, size),
				start, "record size")
		}
		if err := c.Skip(rest); err != nil {
			return out, errs.AtField(
				fmt.Errorf("record at offset %d declares %d characters: %w", start, size, err),
				c.Offset(), "record body")
		}

		end := c.Offset()
		out = append(out, IndexEntry{
			Offset:  start,
			End:     end,
			Length:  size,
			Dialect: dialect,
			Hash:    hash.Logical(data[start:end]),
		})
	}
}
