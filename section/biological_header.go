package section

import (
	"github.com/iquod/wod/codec"
)

// TaxonEntry is one coded value of a taxa-specific set.
type TaxonEntry struct {
	Code     int
	Value    codec.Decimal
	QC       int
	OrigFlag int
}

// BiologicalHeader holds the biological header entries and the taxa-specific sets.
type BiologicalHeader struct {
	Entries []Entry
	Taxa    [][]TaxonEntry
}

// Empty reports whether the header carries nothing and is written as absent.
func (b BiologicalHeader) Empty() bool {
	return len(b.Entries) == 0 && len(b.Taxa) == 0
}

// Parse decodes the biological header block. An absent block leaves b empty,
// with non-nil slices.
func (b *BiologicalHeader) Parse(c *codec.Cursor) error {
	*b = BiologicalHeader{Entries: []Entry{}, Taxa: [][]TaxonEntry{}}

	_, err := parseBlock(c, "biological header", func() error {
		var err error
		if b.Entries, err = parseEntries(c, "biological header"); err != nil {
			return err
		}

		nsets, err := codec.LengthPrefixedCount(c, "taxa set count")
		if err != nil {
			return err
		}
		if err = checkCount(c, nsets, "taxa set count"); err != nil {
			return err
		}
		b.Taxa = make([][]TaxonEntry, nsets)
		for i := range b.Taxa {
			if b.Taxa[i], err = parseTaxonSet(c); err != nil {
				return err
			}
		}

		return nil
	})

	return err
}

func parseTaxonSet(c *codec.Cursor) ([]TaxonEntry, error) {
	n, err := codec.LengthPrefixedCount(c, "taxa entry count")
	if err != nil {
		return nil, err
	}
	if err = checkCount(c, n, "taxa entry count"); err != nil {
		return nil, err
	}

	set := make([]TaxonEntry, n)
	for i := range set {
		code, err := codec.LengthPrefixedInt(c, "taxa code")
		if err != nil {
			return nil, err
		}
		value, err := codec.ScaledDecimal(c, "taxa value")
		if err != nil {
			return nil, err
		}
		qc, err := codec.Digits(c, FlagWidth, "taxa qc")
		if err != nil {
			return nil, err
		}
		orig, err := codec.Digits(c, FlagWidth, "taxa originator flag")
		if err != nil {
			return nil, err
		}
		set[i] = TaxonEntry{Code: int(code), Value: value, QC: qc, OrigFlag: orig}
	}

	return set, nil
}

// Encode writes the biological header block, or the absent marker when empty.
func (b BiologicalHeader) Encode(w *codec.Writer) error {
	return writeBlock(w, b.Empty(), func(bw *codec.Writer) error {
		if err := encodeEntries(bw, b.Entries); err != nil {
			return err
		}
		if err := bw.WriteLengthPrefixedInt(int64(len(b.Taxa))); err != nil {
			return err
		}
		for _, set := range b.Taxa {
			if err := bw.WriteLengthPrefixedInt(int64(len(set))); err != nil {
				return err
			}
			for _, t := range set {
				if err := bw.WriteLengthPrefixedInt(int64(t.Code)); err != nil {
					return err
				}
				if err := bw.WriteDecimal(t.Value); err != nil {
					return err
				}
				if err := writeFlag(bw, t.QC); err != nil {
					return err
				}
				if err := writeFlag(bw, t.OrigFlag); err != nil {
					return err
				}
			}
		}

		return nil
	})
}
