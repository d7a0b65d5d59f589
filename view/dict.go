package view

import (
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/profile"
)

// DictOf flattens p into a keyed dictionary.
//
// Scalars are stored as int, int64, float64 or string, with NaN for missing
// numbers. "probe_type" is the probe code (-1 when unknown) and "probe_name"
// its name; "PIs" holds the []section.PI list. Per-level series are []float64
// with NaN for absent entries; flags use the originator kind under
// "<key>_level_qc" and the WOD kind under "<key>_wod_qc". "<key>_profile_qc"
// holds the variable-table flag.
func DictOf(p profile.Profile) map[string]any {
	h := HeaderOf(p)
	d := map[string]any{
		"uid":                h.UID,
		"dialect":            h.Dialect.String(),
		"country":            h.Country,
		"cruise":             h.Cruise,
		"year":               h.Year,
		"month":              h.Month,
		"day":                h.Day,
		"time":               h.Time,
		"latitude":           h.Latitude,
		"longitude":          h.Longitude,
		"n_levels":           h.NLevels,
		"n_variables":        h.NVariables,
		"profile_type":       h.ProfileType,
		"probe_type":         int(h.ProbeType),
		"probe_name":         h.ProbeName,
		"originator_cruise":  h.OriginatorCruise,
		"originator_station": h.OriginatorStation,
		"station":            h.OriginatorStation,
		"PIs":                h.PIs,
		"z":                  p.Z().Floats(),
		"z_level_qc":         flagFloats(p.ZLevelQC(format.FlagOriginator)),
		"z_wod_qc":           flagFloats(p.ZLevelQC(format.FlagWOD)),
	}
	if p.Dialect().HasUncertainty() {
		d["z_unc"] = p.ZUnc().Floats()
	}

	for _, code := range p.VariableCodes() {
		key := Key(code)
		d[key] = p.Values(code).Floats()
		d[key+"_level_qc"] = flagFloats(p.LevelQC(code, format.FlagOriginator))
		d[key+"_wod_qc"] = flagFloats(p.LevelQC(code, format.FlagWOD))
		if qc, ok := p.ProfileQC(code); ok {
			d[key+"_profile_qc"] = qc
		}
		if p.Dialect().HasUncertainty() {
			d[key+"_unc"] = p.Uncertainties(code).Floats()
		}
	}

	return d
}
