package profile

import (
	"fmt"
	"slices"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/section"
)

// Record is the plain content of one cast, section by section. It is the input
// to FromRecord and the output of Profile.Record.
type Record struct {
	Dialect    format.Dialect
	Header     section.PrimaryHeader
	Variables  []section.Variable
	Character  section.CharacterData
	Secondary  []section.Entry
	Biological section.BiologicalHeader
	Levels     []section.Level
}

// Span locates a decoded record in its input, in byte offsets. End includes the
// padding that completes the record's last line.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the record occupies.
func (s Span) Len() int {
	return s.End - s.Start
}

// Profile is one decoded cast. A Profile is immutable: every accessor returns
// copies, so it can be shared freely between goroutines.
type Profile struct {
	rec       Record
	probeType probe.Type
}

// FromRecord validates rec and returns an immutable Profile built from a deep
// copy of it.
//
// The level count and variable count of the header must match the level and
// variable slices, and every level must carry one measurement per variable.
// Uncertainties paired with absent values are cleared. Nil metadata and entry
// slices are normalized to empty slices.
func FromRecord(rec Record) (Profile, error) {
	if err := validate(rec); err != nil {
		return Profile{}, err
	}

	p := Profile{rec: cloneRecord(rec)}
	for i := range p.rec.Levels {
		lvl := &p.rec.Levels[i]
		if !lvl.Depth.Valid {
			lvl.DepthUnc = codec.Absent()
		}
		for j := range lvl.Values {
			if !lvl.Values[j].Value.Valid {
				lvl.Values[j].Unc = codec.Absent()
			}
		}
	}

	p.probeType, _ = resolveProbe(p.rec.Secondary)

	return p, nil
}

// MustFromRecord is FromRecord for records known to be valid; it panics otherwise.
func MustFromRecord(rec Record) Profile {
	p, err := FromRecord(rec)
	if err != nil {
		panic(err)
	}

	return p
}

func validate(rec Record) error {
	h := rec.Header
	switch {
	case rec.Dialect != format.Classic && rec.Dialect != format.IQuOD:
		return fmt.Errorf("%w: dialect %v", errs.ErrUnknownDialect, rec.Dialect)
	case len(h.Country) != section.CountryWidth:
		return fmt.Errorf("%w: country code %q", errs.ErrInvalidProfile, h.Country)
	case h.NLevels != len(rec.Levels):
		return fmt.Errorf("%w: header declares %d levels, record has %d",
			errs.ErrInconsistentLevelCount, h.NLevels, len(rec.Levels))
	case h.NVariables != len(rec.Variables):
		return fmt.Errorf("%w: header declares %d variables, record has %d",
			errs.ErrInvalidProfile, h.NVariables, len(rec.Variables))
	}

	for i, lvl := range rec.Levels {
		if len(lvl.Values) != len(rec.Variables) {
			return fmt.Errorf("%w: level %d has %d measurements for %d variables",
				errs.ErrInvalidProfile, i+1, len(lvl.Values), len(rec.Variables))
		}
		if rec.Dialect == format.IQuOD {
			continue
		}
		if lvl.DepthUnc.Valid {
			return fmt.Errorf("%w: level %d: depth uncertainty in classic dialect", errs.ErrInvalidProfile, i+1)
		}
		for _, m := range lvl.Values {
			if m.Unc.Valid || len(m.Metadata) > 0 {
				return fmt.Errorf("%w: level %d: uncertainty or metadata in classic dialect",
					errs.ErrInvalidProfile, i+1)
			}
		}
	}

	return nil
}

// resolveProbe reads the probe type from secondary header code 29.
func resolveProbe(secondary []section.Entry) (probe.Type, error) {
	v, ok := section.Lookup(secondary, section.SecondaryProbeType)
	if !ok {
		return probe.Absent, nil
	}

	return probe.FromDecimal(v)
}

func cloneRecord(rec Record) Record {
	out := rec
	out.Variables = cloneVariables(rec.Variables)
	out.Character = section.CharacterData{
		OriginatorCruise:  rec.Character.OriginatorCruise,
		OriginatorStation: rec.Character.OriginatorStation,
		PIs:               cloneSlice(rec.Character.PIs),
	}
	out.Secondary = cloneSlice(rec.Secondary)
	out.Biological = cloneBiological(rec.Biological)
	out.Levels = cloneLevels(rec.Levels)

	return out
}

func cloneVariables(vars []section.Variable) []section.Variable {
	out := make([]section.Variable, len(vars))
	for i, v := range vars {
		out[i] = v
		out[i].Metadata = cloneSlice(v.Metadata)
	}

	return out
}

func cloneBiological(b section.BiologicalHeader) section.BiologicalHeader {
	out := section.BiologicalHeader{
		Entries: cloneSlice(b.Entries),
		Taxa:    make([][]section.TaxonEntry, len(b.Taxa)),
	}
	for i, set := range b.Taxa {
		out.Taxa[i] = cloneSlice(set)
	}

	return out
}

func cloneLevels(levels []section.Level) []section.Level {
	out := make([]section.Level, len(levels))
	for i, lvl := range levels {
		out[i] = lvl
		out[i].Values = make([]section.Measurement, len(lvl.Values))
		for j, m := range lvl.Values {
			out[i].Values[j] = m
			out[i].Values[j].Metadata = cloneSlice(m.Metadata)
		}
	}

	return out
}

// cloneSlice copies s, returning an empty non-nil slice for nil input.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return slices.Clone(s)
}
