package profile

import (
	"fmt"
	"math"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/section"
)

// Precisions used by NewSimpleProfile.
const (
	simpleTimePrecision     = 2
	simplePositionPrecision = 3
	simpleLevelPrecision    = 3
	// simpleOriginatorFlagSet is the secondary header code 96 value: the flag
	// scheme the originator flags of a simple cast follow.
	simpleOriginatorFlagSet = 3
)

// SimpleCast is a temperature-only cast, such as a converted float or XBT
// profile. NaN marks a missing time, position, depth or temperature.
type SimpleCast struct {
	UID         int64
	Country     string
	Cruise      int64
	Year        int
	Month       int
	Day         int
	Time        float64
	Latitude    float64
	Longitude   float64
	ProbeType   probe.Type
	ProfileType int
	Z           []float64
	T           []float64
	// QC holds the temperature originator flag per level; nil means all zero.
	QC []int
}

// NewSimpleProfile builds a classic-dialect profile from c.
//
// The temperature variable carries the probe type as metadata code 5, and the
// secondary header carries it as code 29 along with the originator flag set
// (code 96). Depths are flagged 0 by WOD and 1 by the originator.
func NewSimpleProfile(c SimpleCast) (Profile, error) {
	if c.Year < 1801 || c.Year > 9999 {
		return Profile{}, fmt.Errorf("%w: year %d", errs.ErrInvalidProfile, c.Year)
	}
	if len(c.Z) != len(c.T) {
		return Profile{}, fmt.Errorf("%w: %d depths for %d temperatures",
			errs.ErrInconsistentLevelCount, len(c.Z), len(c.T))
	}
	if c.QC != nil && len(c.QC) != len(c.T) {
		return Profile{}, fmt.Errorf("%w: %d flags for %d temperatures",
			errs.ErrInconsistentLevelCount, len(c.QC), len(c.T))
	}
	if !c.ProbeType.Valid() {
		return Profile{}, fmt.Errorf("%w: %d", errs.ErrInvalidProbeCode, int(c.ProbeType))
	}

	probeValue := codec.NewDecimal(int64(c.ProbeType), 0)
	rec := Record{
		Dialect: format.Classic,
		Header: section.PrimaryHeader{
			UID:         c.UID,
			Country:     c.Country,
			Cruise:      c.Cruise,
			Year:        c.Year,
			Month:       c.Month,
			Day:         c.Day,
			NLevels:     len(c.T),
			ProfileType: c.ProfileType,
			NVariables:  1,
		},
		Variables: []section.Variable{{
			Code: format.VarTemperature,
			Metadata: []section.MetadataEntry{
				{Code: section.VariableMetaProbeType, Value: probeValue},
			},
		}},
		Secondary: []section.Entry{
			{Code: section.SecondaryProbeType, Value: probeValue},
			{Code: section.SecondaryOriginatorFlagSet, Value: codec.NewDecimal(simpleOriginatorFlagSet, 0)},
		},
		Levels: make([]section.Level, len(c.T)),
	}

	var err error
	h := &rec.Header
	if h.Time, err = codec.DecimalOf(c.Time, simpleTimePrecision); err != nil {
		return Profile{}, fmt.Errorf("time: %w", err)
	}
	if h.Latitude, err = codec.DecimalOf(c.Latitude, simplePositionPrecision); err != nil {
		return Profile{}, fmt.Errorf("latitude: %w", err)
	}
	if h.Longitude, err = codec.DecimalOf(c.Longitude, simplePositionPrecision); err != nil {
		return Profile{}, fmt.Errorf("longitude: %w", err)
	}

	for i := range rec.Levels {
		lvl := &rec.Levels[i]
		if lvl.Depth, err = codec.DecimalOf(c.Z[i], simpleLevelPrecision); err != nil {
			return Profile{}, fmt.Errorf("level %d depth: %w", i+1, err)
		}
		lvl.DepthOrigFlag = 1

		m := section.Measurement{Metadata: []section.MetadataEntry{}}
		if m.Value, err = codec.DecimalOf(c.T[i], simpleLevelPrecision); err != nil {
			return Profile{}, fmt.Errorf("level %d temperature: %w", i+1, err)
		}
		if c.QC != nil && !math.IsNaN(c.T[i]) {
			m.OrigFlag = c.QC[i]
		}
		lvl.Values = []section.Measurement{m}
	}

	return FromRecord(rec)
}
