package profile

import (
	"math"
	"testing"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/section"
	"github.com/stretchr/testify/require"
)

func simpleCast() SimpleCast {
	return SimpleCast{
		UID:       1,
		Country:   "99",
		Cruise:    12,
		Year:      2001,
		Month:     2,
		Day:       3,
		Time:      12.5,
		Latitude:  -10.25,
		Longitude: 120.125,
		ProbeType: probe.XBT,
		Z:         []float64{0, 5.5},
		T:         []float64{20.125, 19.5},
		QC:        []int{1, 4},
	}
}

func TestNewSimpleProfile_Encoding(t *testing.T) {
	p, err := NewSimpleProfile(simpleCast())
	require.NoError(t, err)

	out, err := Encode(p)
	require.NoError(t, err)

	want := "C31191199212200102034421250563-1025066312012512001110111511020219122291102296110\n" +
		"303330000155320125014435500015531950004                                         \n"
	require.Equal(t, want, string(out))
}

func TestNewSimpleProfile_Content(t *testing.T) {
	p, err := NewSimpleProfile(simpleCast())
	require.NoError(t, err)

	require.Equal(t, format.Classic, p.Dialect())
	require.Equal(t, probe.XBT, p.ProbeType())
	require.Equal(t, []int{format.VarTemperature}, p.VariableCodes())
	require.Equal(t, []section.MetadataEntry{
		{Code: section.VariableMetaProbeType, Value: codec.NewDecimal(2, 0)},
	}, p.TMetadata())

	set, ok := p.SecondaryValue(section.SecondaryOriginatorFlagSet)
	require.True(t, ok)
	require.Equal(t, codec.NewDecimal(3, 0), set)

	require.Equal(t, []int{0, 0}, p.ZLevelQC(format.FlagWOD))
	require.Equal(t, []int{1, 1}, p.ZLevelQC(format.FlagOriginator))
	require.Equal(t, []int{1, 4}, p.LevelQC(format.VarTemperature, format.FlagOriginator))
	require.Equal(t, []bool{true, true}, p.TQCMask(format.FlagOriginator))
	require.Equal(t, []bool{false, false}, p.TQCMask(format.FlagWOD))
}

func TestNewSimpleProfile_Missing(t *testing.T) {
	c := simpleCast()
	c.Time = math.NaN()
	c.Latitude = math.NaN()
	c.T = []float64{20.125, math.NaN()}
	c.QC = nil

	p, err := NewSimpleProfile(c)
	require.NoError(t, err)

	_, ok := p.Time()
	require.False(t, ok)
	_, ok = p.Latitude()
	require.False(t, ok)
	require.Equal(t, []bool{true, false}, p.T().Present())
	require.Equal(t, []int{0, NoFlag}, p.LevelQC(format.VarTemperature, format.FlagOriginator))

	out, err := Encode(p)
	require.NoError(t, err)
	got, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestNewSimpleProfile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimpleCast)
		want   error
	}{
		{"year", func(c *SimpleCast) { c.Year = 1700 }, errs.ErrInvalidProfile},
		{"country", func(c *SimpleCast) { c.Country = "USA" }, errs.ErrInvalidProfile},
		{"depth count", func(c *SimpleCast) { c.Z = c.Z[:1] }, errs.ErrInconsistentLevelCount},
		{"flag count", func(c *SimpleCast) { c.QC = []int{1} }, errs.ErrInconsistentLevelCount},
		{"probe", func(c *SimpleCast) { c.ProbeType = probe.Absent }, errs.ErrInvalidProbeCode},
		{"position overflow", func(c *SimpleCast) { c.Latitude = 1e17 }, errs.ErrEncodingOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := simpleCast()
			tt.mutate(&c)
			_, err := NewSimpleProfile(c)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
