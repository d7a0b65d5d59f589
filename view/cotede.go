package view

import (
	"math"
	"slices"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/profile"
)

// CoTeDe is a cast laid out for the CoTeDe quality-control package: cast
// metadata under Attributes and per-level arrays under Data.
//
// Attributes holds LATITUDE and LONGITUDE (NaN when missing), uid,
// probe_code and probe_type (nil when the probe is unknown), n_levels and
// datetime (nil when the date is not a calendar date).
//
// Data holds PRES and DEPTH (both the level depth), DEPTH_QC, TEMP, TEMP_QC
// and PSAL for every cast, plus oxygen, silicate, phosphate and pH when the
// cast carries them. Flags use the originator kind.
type CoTeDe struct {
	Attributes map[string]any
	Data       map[string]any
}

var cotedeOptional = []struct {
	key  string
	code int
}{
	{"oxygen", format.VarOxygen},
	{"silicate", format.VarSilicate},
	{"phosphate", format.VarPhosphate},
	{"pH", format.VarPH},
}

// CoTeDeOf projects p into the CoTeDe layout.
func CoTeDeOf(p profile.Profile) CoTeDe {
	n := p.NLevels()
	attrs := map[string]any{
		"LATITUDE":   orNaN(p.Latitude()),
		"LONGITUDE":  orNaN(p.Longitude()),
		"uid":        p.UID(),
		"probe_code": nil,
		"probe_type": nil,
		"n_levels":   n,
		"datetime":   nil,
	}
	if pt := p.ProbeType(); pt.Valid() {
		attrs["probe_code"] = int(pt)
		attrs["probe_type"] = pt.Name()
	}
	if t, ok := p.DateTime(); ok {
		attrs["datetime"] = t
	}

	z := p.Z().Floats()
	tqc := p.TQCMask(format.FlagOriginator)
	if tqc == nil {
		tqc = make([]bool, n)
	}
	data := map[string]any{
		"PRES":     z,
		"DEPTH":    slices.Clone(z),
		"DEPTH_QC": p.ZLevelQC(format.FlagOriginator),
		"TEMP":     seriesOrNaN(p.T(), n),
		"TEMP_QC":  tqc,
		"PSAL":     seriesOrNaN(p.S(), n),
	}
	for _, v := range cotedeOptional {
		if p.HasVariable(v.code) {
			data[v.key] = p.Values(v.code).Floats()
		}
	}

	return CoTeDe{Attributes: attrs, Data: data}
}

// Keys returns the sorted keys of Data.
func (c CoTeDe) Keys() []string {
	keys := make([]string, 0, len(c.Data))
	for k := range c.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// seriesOrNaN returns s as floats, or n NaNs when the variable is not carried.
func seriesOrNaN(s profile.Series, n int) []float64 {
	if s != nil {
		return s.Floats()
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
