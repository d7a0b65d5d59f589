package view

import (
	"math"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/internal/pool"
	"github.com/iquod/wod/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the present values of one series. Min, Max, Mean and StdDev
// are NaN when Count is zero; StdDev is the sample deviation and is 0 for a
// single value.
type Stats struct {
	Code   int // variable code, 0 for depth
	Name   string
	Count  int
	Absent int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summary holds the statistics of depth and every variable of a cast.
type Summary struct {
	UID       int64
	Depth     Stats
	Variables []Stats
}

// Variable returns the statistics of variable code.
func (s Summary) Variable(code int) (Stats, bool) {
	for _, v := range s.Variables {
		if v.Code == code {
			return v, true
		}
	}

	return Stats{}, false
}

// Summarize computes per-series statistics of p, ignoring absent values.
func Summarize(p profile.Profile) Summary {
	s := Summary{
		UID:   p.UID(),
		Depth: seriesStats(0, "Depth", p.Z()),
	}

	codes := p.VariableCodes()
	s.Variables = make([]Stats, len(codes))
	for i, code := range codes {
		s.Variables[i] = seriesStats(code, format.VariableName(code), p.Values(code))
	}

	return s
}

func seriesStats(code int, name string, series profile.Series) Stats {
	present, cleanup := pool.GetFloat64Slice(len(series))
	defer cleanup()

	for _, d := range series {
		if v, ok := d.Float(); ok {
			present = append(present, v)
		}
	}

	st := Stats{
		Code:   code,
		Name:   name,
		Count:  len(present),
		Absent: len(series) - len(present),
	}
	if len(present) == 0 {
		st.Min, st.Max, st.Mean, st.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return st
	}

	st.Min = floats.Min(present)
	st.Max = floats.Max(present)
	if len(present) == 1 {
		st.Mean = present[0]
		return st
	}
	st.Mean, st.StdDev = stat.MeanStdDev(present, nil)

	return st
}

// aggregate applies fn to the non-NaN entries of values, or returns NaN when
// there are none.
func aggregate(values []float64, fn func([]float64) float64) float64 {
	present, cleanup := pool.GetFloat64Slice(len(values))
	defer cleanup()

	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}

	return fn(present)
}
