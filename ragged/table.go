// Package ragged lays a collection of casts out as contiguous ragged arrays,
// the layout of the World Ocean Database netCDF distribution.
//
// Every series stores the levels of all casts back to back with a per-cast row
// size. A cast's slice of a series starts at the sum of the row sizes before it.
package ragged

import (
	"fmt"
	"math"
	"slices"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/profile"
)

// NoFlag marks the flag of an absent value, and the profile flag of a cast
// that does not carry the variable.
const NoFlag = profile.NoFlag

// Cast is the per-cast metadata row. Missing numbers are NaN.
type Cast struct {
	UID         int64
	Dialect     format.Dialect
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
}

// Series is one ragged variable. Values, Unc, WODFlag and OrigFlag hold one
// entry per observation; RowSize and ProfileQC hold one entry per cast.
type Series struct {
	Code      int // variable code, 0 for depth
	RowSize   []int
	Values    []float64
	Unc       []float64
	WODFlag   []int
	OrigFlag  []int
	ProfileQC []int // nil for depth

	offsets []int
}

// Name returns the netCDF variable name of the series.
func (s *Series) Name() string {
	if s.Code == 0 {
		return "z"
	}

	return format.VariableName(s.Code)
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.Values) }

// Span returns the observation range [start, end) of cast i.
func (s *Series) Span(i int) (int, int) {
	if s.offsets == nil {
		s.offsets = make([]int, len(s.RowSize)+1)
		for j, n := range s.RowSize {
			s.offsets[j+1] = s.offsets[j] + n
		}
	}

	return s.offsets[i], s.offsets[i+1]
}

func (s *Series) check(ncasts int) error {
	if len(s.RowSize) != ncasts {
		return fmt.Errorf("%s: %d row sizes for %d casts", s.Name(), len(s.RowSize), ncasts)
	}

	total := 0
	for _, n := range s.RowSize {
		if n < 0 {
			return fmt.Errorf("%s: negative row size %d", s.Name(), n)
		}
		total += n
	}

	for name, l := range map[string]int{
		"values":    len(s.Values),
		"unc":       len(s.Unc),
		"wod flag":  len(s.WODFlag),
		"orig flag": len(s.OrigFlag),
	} {
		if l != total {
			return fmt.Errorf("%s: %d %s entries for %d observations", s.Name(), l, name, total)
		}
	}
	if s.ProfileQC != nil && len(s.ProfileQC) != ncasts {
		return fmt.Errorf("%s: %d profile flags for %d casts", s.Name(), len(s.ProfileQC), ncasts)
	}

	return nil
}

// Table is a set of casts in ragged-array form. It caches row offsets on first
// use and is not safe for concurrent use.
type Table struct {
	Casts     []Cast
	Z         Series
	Variables []Series // ordered by code
}

// Len returns the number of casts.
func (t *Table) Len() int { return len(t.Casts) }

// Variable returns the series of variable code.
func (t *Table) Variable(code int) (*Series, bool) {
	for i := range t.Variables {
		if t.Variables[i].Code == code {
			return &t.Variables[i], true
		}
	}

	return nil, false
}

// Check verifies that every series agrees with the cast count and its own row sizes.
func (t *Table) Check() error {
	if err := t.Z.check(len(t.Casts)); err != nil {
		return err
	}
	for i := range t.Variables {
		if err := t.Variables[i].check(len(t.Casts)); err != nil {
			return err
		}
	}

	return nil
}

// FromProfiles gathers ps into ragged arrays. A variable missing from a cast
// gets a zero row size and NoFlag as its profile flag.
func FromProfiles(ps []profile.Profile) *Table {
	t := &Table{
		Casts: make([]Cast, len(ps)),
		Z:     Series{RowSize: make([]int, len(ps))},
	}

	var codes []int
	for _, p := range ps {
		for _, code := range p.VariableCodes() {
			if !slices.Contains(codes, code) {
				codes = append(codes, code)
			}
		}
	}
	slices.Sort(codes)

	t.Variables = make([]Series, len(codes))
	for i, code := range codes {
		t.Variables[i] = Series{
			Code:      code,
			RowSize:   make([]int, len(ps)),
			ProfileQC: make([]int, len(ps)),
		}
	}

	for i, p := range ps {
		t.Casts[i] = castOf(p)

		t.Z.RowSize[i] = p.NLevels()
		t.Z.Values = append(t.Z.Values, p.Z().Floats()...)
		t.Z.Unc = append(t.Z.Unc, p.ZUnc().Floats()...)
		t.Z.WODFlag = append(t.Z.WODFlag, p.ZLevelQC(format.FlagWOD)...)
		t.Z.OrigFlag = append(t.Z.OrigFlag, p.ZLevelQC(format.FlagOriginator)...)

		for j := range t.Variables {
			s := &t.Variables[j]
			qc, ok := p.ProfileQC(s.Code)
			if !ok {
				s.ProfileQC[i] = NoFlag
				continue
			}
			s.ProfileQC[i] = qc
			s.RowSize[i] = p.NLevels()
			s.Values = append(s.Values, p.Values(s.Code).Floats()...)
			s.Unc = append(s.Unc, p.Uncertainties(s.Code).Floats()...)
			s.WODFlag = append(s.WODFlag, p.LevelQC(s.Code, format.FlagWOD)...)
			s.OrigFlag = append(s.OrigFlag, p.LevelQC(s.Code, format.FlagOriginator)...)
		}
	}

	return t
}

func castOf(p profile.Profile) Cast {
	c := Cast{
		UID:         p.UID(),
		Dialect:     p.Dialect(),
		Country:     p.Country(),
		Cruise:      p.Cruise(),
		Year:        p.Year(),
		Month:       p.Month(),
		Day:         p.Day(),
		Time:        math.NaN(),
		Latitude:    math.NaN(),
		Longitude:   math.NaN(),
		ProbeType:   p.ProbeType(),
		ProfileType: p.ProfileType(),
	}
	if v, ok := p.Time(); ok {
		c.Time = v
	}
	if v, ok := p.Latitude(); ok {
		c.Latitude = v
	}
	if v, ok := p.Longitude(); ok {
		c.Longitude = v
	}

	return c
}

// Column is one variable of a projected cast.
type Column struct {
	Values    []float64
	Unc       []float64
	WODFlag   []int
	OrigFlag  []int
	ProfileQC int
}

// CastData is one cast projected back out of a Table.
type CastData struct {
	Cast
	Z         Column
	Variables map[int]Column
}

// Cast projects cast i through the row-size offsets of every series. The
// returned slices alias the table.
func (t *Table) Cast(i int) (CastData, error) {
	if i < 0 || i >= len(t.Casts) {
		return CastData{}, fmt.Errorf("cast %d out of range [0, %d)", i, len(t.Casts))
	}

	out := CastData{
		Cast:      t.Casts[i],
		Z:         column(&t.Z, i),
		Variables: make(map[int]Column),
	}
	out.Z.ProfileQC = NoFlag

	for j := range t.Variables {
		s := &t.Variables[j]
		if s.ProfileQC[i] == NoFlag && s.RowSize[i] == 0 {
			continue
		}
		col := column(s, i)
		col.ProfileQC = s.ProfileQC[i]
		out.Variables[s.Code] = col
	}

	return out, nil
}

func column(s *Series, i int) Column {
	start, end := s.Span(i)

	return Column{
		Values:   s.Values[start:end],
		Unc:      s.Unc[start:end],
		WODFlag:  s.WODFlag[start:end],
		OrigFlag: s.OrigFlag[start:end],
	}
}
