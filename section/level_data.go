package section

import (
	"errors"
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
)

// Measurement is one variable's slot in a level row.
//
// Flags and metadata are only carried when Value is present. Unc is always
// absent when Value is absent.
type Measurement struct {
	Value    codec.Decimal
	Unc      codec.Decimal
	WODFlag  int
	OrigFlag int
	// Metadata is the per-measurement IQuOD metadata; empty in the classic dialect.
	Metadata []MetadataEntry
}

// Flag returns the flag of the requested kind and whether it is present.
func (m Measurement) Flag(kind format.FlagKind) (int, bool) {
	if !m.Value.Valid {
		return 0, false
	}
	if kind == format.FlagOriginator {
		return m.OrigFlag, true
	}

	return m.WODFlag, true
}

// Level is one depth row of the level data.
type Level struct {
	Depth         codec.Decimal
	DepthUnc      codec.Decimal
	DepthWODFlag  int
	DepthOrigFlag int
	// Values aligns 1:1 by position with the variable table.
	Values []Measurement
}

// DepthFlag returns the depth flag of the requested kind and whether it is present.
func (l Level) DepthFlag(kind format.FlagKind) (int, bool) {
	if !l.Depth.Valid {
		return 0, false
	}
	if kind == format.FlagOriginator {
		return l.DepthOrigFlag, true
	}

	return l.DepthWODFlag, true
}

// ParseLevels decodes nlevels rows of nvars measurements each.
//
// Every row takes at least one character, so a count larger than what is left
// in the cursor fails with errs.ErrInconsistentLevelCount before anything is
// allocated. When the cursor is bounded to a record, running out of characters
// before the declared rows are read, or characters left over after them, fails
// the same way.
func ParseLevels(c *codec.Cursor, d format.Dialect, nlevels, nvars int) ([]Level, error) {
	bounded := c.Limit() != codec.NoLimit
	if nlevels > c.Remaining() {
		return nil, errs.AtField(
			fmt.Errorf("%w: %d levels declared with %d characters left",
				errs.ErrInconsistentLevelCount, nlevels, c.Remaining()),
			c.Offset(), "level data")
	}

	levels := make([]Level, nlevels)
	for i := range levels {
		lvl, err := parseLevel(c, d, nvars)
		if err != nil {
			if bounded && errors.Is(err, errs.ErrUnexpectedEndOfInput) {
				return nil, fmt.Errorf("%w: record ended within level %d of %d: %w",
					errs.ErrInconsistentLevelCount, i+1, nlevels, err)
			}

			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		levels[i] = lvl
	}

	if bounded && c.Remaining() > 0 {
		return nil, errs.AtField(
			fmt.Errorf("%w: %d characters follow the last of %d levels",
				errs.ErrInconsistentLevelCount, c.Remaining(), nlevels),
			c.Offset(), "level data")
	}

	return levels, nil
}

func parseLevel(c *codec.Cursor, d format.Dialect, nvars int) (Level, error) {
	var (
		lvl Level
		err error
	)

	if lvl.Depth, err = codec.ScaledDecimal(c, "depth"); err != nil {
		return lvl, err
	}
	if d.HasUncertainty() {
		if lvl.DepthUnc, err = codec.ScaledDecimal(c, "depth uncertainty"); err != nil {
			return lvl, err
		}
		if !lvl.Depth.Valid {
			lvl.DepthUnc = codec.Absent()
		}
	}
	if lvl.Depth.Valid {
		if lvl.DepthWODFlag, err = codec.Digits(c, FlagWidth, "depth flag"); err != nil {
			return lvl, err
		}
		if lvl.DepthOrigFlag, err = codec.Digits(c, FlagWidth, "depth originator flag"); err != nil {
			return lvl, err
		}
	}

	lvl.Values = make([]Measurement, nvars)
	for j := range lvl.Values {
		if lvl.Values[j], err = parseMeasurement(c, d); err != nil {
			return lvl, err
		}
	}

	return lvl, nil
}

func parseMeasurement(c *codec.Cursor, d format.Dialect) (Measurement, error) {
	var (
		m   = Measurement{Metadata: []MetadataEntry{}}
		err error
	)

	if m.Value, err = codec.ScaledDecimal(c, "value"); err != nil {
		return m, err
	}
	if d.HasUncertainty() {
		if m.Unc, err = codec.ScaledDecimal(c, "uncertainty"); err != nil {
			return m, err
		}
		// An uncertainty without its value is meaningless.
		if !m.Value.Valid {
			m.Unc = codec.Absent()
		}
	}
	if !m.Value.Valid {
		return m, nil
	}

	if m.WODFlag, err = codec.Digits(c, FlagWidth, "value flag"); err != nil {
		return m, err
	}
	if m.OrigFlag, err = codec.Digits(c, FlagWidth, "value originator flag"); err != nil {
		return m, err
	}
	if d.HasUncertainty() {
		if m.Metadata, err = parseMetadata(c, d, "level metadata"); err != nil {
			return m, err
		}
	}

	return m, nil
}

// EncodeLevels writes the level rows.
func EncodeLevels(w *codec.Writer, d format.Dialect, levels []Level) error {
	for i, lvl := range levels {
		if err := encodeLevel(w, d, lvl); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
	}

	return nil
}

func encodeLevel(w *codec.Writer, d format.Dialect, lvl Level) error {
	if err := w.WriteDecimal(lvl.Depth); err != nil {
		return err
	}
	if d.HasUncertainty() {
		unc := lvl.DepthUnc
		if !lvl.Depth.Valid {
			unc = codec.Absent()
		}
		if err := w.WriteDecimal(unc); err != nil {
			return err
		}
	}
	if lvl.Depth.Valid {
		if err := writeFlag(w, lvl.DepthWODFlag); err != nil {
			return err
		}
		if err := writeFlag(w, lvl.DepthOrigFlag); err != nil {
			return err
		}
	}

	for _, m := range lvl.Values {
		if err := encodeMeasurement(w, d, m); err != nil {
			return err
		}
	}

	return nil
}

func encodeMeasurement(w *codec.Writer, d format.Dialect, m Measurement) error {
	if err := w.WriteDecimal(m.Value); err != nil {
		return err
	}
	if d.HasUncertainty() {
		unc := m.Unc
		if !m.Value.Valid {
			unc = codec.Absent()
		}
		if err := w.WriteDecimal(unc); err != nil {
			return err
		}
	}
	if !m.Value.Valid {
		return nil
	}

	if err := writeFlag(w, m.WODFlag); err != nil {
		return err
	}
	if err := writeFlag(w, m.OrigFlag); err != nil {
		return err
	}
	if d.HasUncertainty() {
		return encodeMetadata(w, d, m.Metadata)
	}
	if len(m.Metadata) > 0 {
		return fmt.Errorf("%w: per-level metadata in classic dialect", errs.ErrInvalidProfile)
	}

	return nil
}
