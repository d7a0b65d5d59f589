package section

import (
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
)

// MetadataEntry is one (code, value) metadata pair. IMeta is the IQuOD
// intelligent-metadata flag and is always 0 in the classic dialect.
type MetadataEntry struct {
	Code  int
	Value codec.Decimal
	IMeta int
}

// Variable is one entry of the variable table.
type Variable struct {
	// Code is the WOD variable code, e.g. 1 for temperature.
	Code int
	// QC is the profile-level quality flag; nonzero rejects the whole profile of this variable.
	QC       int
	Metadata []MetadataEntry
}

// ParseVariableTable decodes n variable table entries.
func ParseVariableTable(c *codec.Cursor, d format.Dialect, n int) ([]Variable, error) {
	vars := make([]Variable, n)
	for i := range vars {
		code, err := codec.LengthPrefixedInt(c, "variable code")
		if err != nil {
			return nil, err
		}
		qc, err := codec.Digits(c, FlagWidth, "variable qc")
		if err != nil {
			return nil, err
		}
		meta, err := parseMetadata(c, d, "variable metadata")
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", code, err)
		}

		vars[i] = Variable{Code: int(code), QC: qc, Metadata: meta}
	}

	return vars, nil
}

// EncodeVariableTable writes the variable table entries in order.
func EncodeVariableTable(w *codec.Writer, d format.Dialect, vars []Variable) error {
	for _, v := range vars {
		if err := w.WriteLengthPrefixedInt(int64(v.Code)); err != nil {
			return err
		}
		if err := writeFlag(w, v.QC); err != nil {
			return err
		}
		if err := encodeMetadata(w, d, v.Metadata); err != nil {
			return fmt.Errorf("variable %d: %w", v.Code, err)
		}
	}

	return nil
}

// parseMetadata reads a metadata count followed by that many entries. The
// result is never nil.
func parseMetadata(c *codec.Cursor, d format.Dialect, field string) ([]MetadataEntry, error) {
	n, err := codec.LengthPrefixedCount(c, field+" count")
	if err != nil {
		return nil, err
	}
	if err = checkCount(c, n, field+" count"); err != nil {
		return nil, err
	}

	meta := make([]MetadataEntry, n)
	for i := range meta {
		code, err := codec.LengthPrefixedInt(c, field+" code")
		if err != nil {
			return nil, err
		}
		value, err := codec.ScaledDecimal(c, field+" value")
		if err != nil {
			return nil, err
		}
		imeta := 0
		if d.HasUncertainty() {
			if imeta, err = codec.Digits(c, FlagWidth, field+" imeta"); err != nil {
				return nil, err
			}
		}

		meta[i] = MetadataEntry{Code: int(code), Value: value, IMeta: imeta}
	}

	return meta, nil
}

func encodeMetadata(w *codec.Writer, d format.Dialect, meta []MetadataEntry) error {
	if err := w.WriteLengthPrefixedInt(int64(len(meta))); err != nil {
		return err
	}
	for _, m := range meta {
		if err := w.WriteLengthPrefixedInt(int64(m.Code)); err != nil {
			return err
		}
		if err := w.WriteDecimal(m.Value); err != nil {
			return err
		}
		if d.HasUncertainty() {
			if err := writeFlag(w, m.IMeta); err != nil {
				return err
			}
		} else if m.IMeta != 0 {
			return fmt.Errorf("%w: iMeta flag %d in classic dialect", errs.ErrInvalidProfile, m.IMeta)
		}
	}

	return nil
}
