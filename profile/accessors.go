package profile

import (
	"math"
	"time"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/section"
)

// NoFlag stands in for the flag of an absent value in LevelQC results.
const NoFlag = -1

// Series is one value per level. Absent entries stay absent; they never read as zero.
type Series []codec.Decimal

// Floats returns the values with NaN in place of absent entries.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s))
	for i, d := range s {
		out[i] = d.Float64()
	}

	return out
}

// Present reports, per level, whether the value is present.
func (s Series) Present() []bool {
	out := make([]bool, len(s))
	for i, d := range s {
		out[i] = d.Valid
	}

	return out
}

// Mask reports, per level, whether the value is absent.
func (s Series) Mask() []bool {
	out := make([]bool, len(s))
	for i, d := range s {
		out[i] = !d.Valid
	}

	return out
}

// Count returns the number of present values.
func (s Series) Count() int {
	n := 0
	for _, d := range s {
		if d.Valid {
			n++
		}
	}

	return n
}

// Dialect returns the record layout the profile was decoded from or will be encoded as.
func (p Profile) Dialect() format.Dialect { return p.rec.Dialect }

// UID returns the WOD unique cast number.
func (p Profile) UID() int64 { return p.rec.Header.UID }

// Country returns the two-character NODC country code.
func (p Profile) Country() string { return p.rec.Header.Country }

// Cruise returns the WOD cruise number.
func (p Profile) Cruise() int64 { return p.rec.Header.Cruise }

func (p Profile) Year() int  { return p.rec.Header.Year }
func (p Profile) Month() int { return p.rec.Header.Month }
func (p Profile) Day() int   { return p.rec.Header.Day }

// Time returns the time of day in decimal hours.
func (p Profile) Time() (float64, bool) { return p.rec.Header.Time.Float() }

func (p Profile) Latitude() (float64, bool)  { return p.rec.Header.Latitude.Float() }
func (p Profile) Longitude() (float64, bool) { return p.rec.Header.Longitude.Float() }

// NLevels returns the number of depth levels.
func (p Profile) NLevels() int { return p.rec.Header.NLevels }

// NVariables returns the number of measured variables.
func (p Profile) NVariables() int { return p.rec.Header.NVariables }

// ProfileType returns 0 for observed levels and 1 for standard levels.
func (p Profile) ProfileType() int { return p.rec.Header.ProfileType }

// ProbeType returns the instrument from secondary header code 29, or probe.Absent.
func (p Profile) ProbeType() probe.Type { return p.probeType }

// DateTime combines the date with the time of day, rounded to the second.
//
// A missing time, or one outside [0, 24) hours, yields midnight. Times within
// half a second of 24 h are clamped to 23:59:59. The second
// result is false when the year, month and day do not form a calendar date.
func (p Profile) DateTime() (time.Time, bool) {
	h := p.rec.Header
	if h.Month < 1 || h.Month > 12 || h.Day < 1 {
		return time.Time{}, false
	}

	t := time.Date(h.Year, time.Month(h.Month), h.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != h.Day {
		return time.Time{}, false
	}

	if hours, ok := h.Time.Float(); ok && hours >= 0 && hours < 24 {
		// Rounding must not carry a time just under 24 h into the next day.
		secs := min(math.Round(hours*3600), 86399)
		t = t.Add(time.Duration(secs) * time.Second)
	}

	return t, true
}

// Variables returns a copy of the variable table.
func (p Profile) Variables() []section.Variable {
	return cloneVariables(p.rec.Variables)
}

// VariableCodes returns the variable codes in table order.
func (p Profile) VariableCodes() []int {
	out := make([]int, len(p.rec.Variables))
	for i, v := range p.rec.Variables {
		out[i] = v.Code
	}

	return out
}

// HasVariable reports whether the variable table lists code.
func (p Profile) HasVariable(code int) bool {
	return p.variableIndex(code) >= 0
}

func (p Profile) variableIndex(code int) int {
	for i, v := range p.rec.Variables {
		if v.Code == code {
			return i
		}
	}

	return -1
}

// Z returns the depth of every level, in metres.
func (p Profile) Z() Series {
	out := make(Series, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		out[i] = lvl.Depth
	}

	return out
}

// ZUnc returns the depth uncertainty of every level; all absent in the classic dialect.
func (p Profile) ZUnc() Series {
	out := make(Series, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		out[i] = lvl.DepthUnc
	}

	return out
}

// ZLevelQC returns the depth flag of the requested kind per level, NoFlag where
// the depth is absent.
func (p Profile) ZLevelQC(kind format.FlagKind) []int {
	out := make([]int, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		f, ok := lvl.DepthFlag(kind)
		if !ok {
			f = NoFlag
		}
		out[i] = f
	}

	return out
}

// Values returns the per-level values of variable code, or nil when the profile
// does not carry the variable.
func (p Profile) Values(code int) Series {
	idx := p.variableIndex(code)
	if idx < 0 {
		return nil
	}

	out := make(Series, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		out[i] = lvl.Values[idx].Value
	}

	return out
}

// Uncertainties returns the per-level uncertainties of variable code, or nil
// when the profile does not carry the variable. An uncertainty is absent
// wherever its value is absent.
func (p Profile) Uncertainties(code int) Series {
	idx := p.variableIndex(code)
	if idx < 0 {
		return nil
	}

	out := make(Series, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		out[i] = lvl.Values[idx].Unc
	}

	return out
}

// LevelQC returns the per-level flag of the requested kind for variable code,
// NoFlag where the value is absent, or nil when the variable is not carried.
func (p Profile) LevelQC(code int, kind format.FlagKind) []int {
	idx := p.variableIndex(code)
	if idx < 0 {
		return nil
	}

	out := make([]int, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		f, ok := lvl.Values[idx].Flag(kind)
		if !ok {
			f = NoFlag
		}
		out[i] = f
	}

	return out
}

// ProfileQC returns the variable-table QC flag of variable code.
func (p Profile) ProfileQC(code int) (int, bool) {
	idx := p.variableIndex(code)
	if idx < 0 {
		return 0, false
	}

	return p.rec.Variables[idx].QC, true
}

// QCMask returns, per level, whether the measurement of variable code is rejected:
// the variable's profile QC flag is nonzero, or the depth or value flag of the
// requested kind is present and nonzero. It returns nil when the variable is not carried.
func (p Profile) QCMask(code int, kind format.FlagKind) []bool {
	idx := p.variableIndex(code)
	if idx < 0 {
		return nil
	}

	rejectAll := p.rec.Variables[idx].QC != 0
	out := make([]bool, len(p.rec.Levels))
	for i, lvl := range p.rec.Levels {
		if rejectAll {
			out[i] = true
			continue
		}
		if f, ok := lvl.DepthFlag(kind); ok && f != 0 {
			out[i] = true
			continue
		}
		if f, ok := lvl.Values[idx].Flag(kind); ok && f != 0 {
			out[i] = true
		}
	}

	return out
}

// Metadata returns the variable-table metadata of variable code. The result is
// empty, not nil, when the variable has no metadata, and nil when the variable is
// not carried.
func (p Profile) Metadata(code int) []section.MetadataEntry {
	idx := p.variableIndex(code)
	if idx < 0 {
		return nil
	}

	return cloneSlice(p.rec.Variables[idx].Metadata)
}

// LevelMetadata returns the per-measurement metadata of variable code at level i.
func (p Profile) LevelMetadata(code, i int) []section.MetadataEntry {
	idx := p.variableIndex(code)
	if idx < 0 || i < 0 || i >= len(p.rec.Levels) {
		return nil
	}

	return cloneSlice(p.rec.Levels[i].Values[idx].Metadata)
}

// Shortcuts for the common variables.

func (p Profile) T() Series         { return p.Values(format.VarTemperature) }
func (p Profile) TUnc() Series      { return p.Uncertainties(format.VarTemperature) }
func (p Profile) S() Series         { return p.Values(format.VarSalinity) }
func (p Profile) SUnc() Series      { return p.Uncertainties(format.VarSalinity) }
func (p Profile) Oxygen() Series    { return p.Values(format.VarOxygen) }
func (p Profile) Phosphate() Series { return p.Values(format.VarPhosphate) }
func (p Profile) Silicate() Series  { return p.Values(format.VarSilicate) }
func (p Profile) PH() Series        { return p.Values(format.VarPH) }

func (p Profile) TQCMask(kind format.FlagKind) []bool {
	return p.QCMask(format.VarTemperature, kind)
}

func (p Profile) SQCMask(kind format.FlagKind) []bool {
	return p.QCMask(format.VarSalinity, kind)
}

func (p Profile) TMetadata() []section.MetadataEntry { return p.Metadata(format.VarTemperature) }
func (p Profile) SMetadata() []section.MetadataEntry { return p.Metadata(format.VarSalinity) }

// OriginatorCruise returns the originator's cruise code, or "" when not supplied.
func (p Profile) OriginatorCruise() string { return p.rec.Character.OriginatorCruise }

// OriginatorStation returns the originator's station code, or "" when not supplied.
func (p Profile) OriginatorStation() string { return p.rec.Character.OriginatorStation }

// PIs returns the principal investigator entries.
func (p Profile) PIs() []section.PI { return cloneSlice(p.rec.Character.PIs) }

// SecondaryHeader returns the secondary header entries.
func (p Profile) SecondaryHeader() []section.Entry { return cloneSlice(p.rec.Secondary) }

// SecondaryValue returns the value of secondary header code.
func (p Profile) SecondaryValue(code int) (codec.Decimal, bool) {
	return section.Lookup(p.rec.Secondary, code)
}

// BiologicalHeader returns the biological header entries and taxa sets.
func (p Profile) BiologicalHeader() section.BiologicalHeader {
	return cloneBiological(p.rec.Biological)
}

// Levels returns a copy of the level rows.
func (p Profile) Levels() []section.Level { return cloneLevels(p.rec.Levels) }

// Record returns a deep copy of the profile's content, suitable for editing and
// passing back to FromRecord.
func (p Profile) Record() Record { return cloneRecord(p.rec) }
