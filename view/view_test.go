package view

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/section"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func loadProfiles(t *testing.T, name string) []profile.Profile {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "profile", "testdata", name))
	require.NoError(t, err)
	ps, err := profile.DecodeAll(data)
	require.NoError(t, err)

	return ps
}

func classic(t *testing.T) profile.Profile {
	t.Helper()
	return loadProfiles(t, "classic.dat")[0]
}

// =============================================================================
// Header
// =============================================================================

func TestHeaderOf(t *testing.T) {
	h := HeaderOf(classic(t))

	require.Equal(t, int64(67064), h.UID)
	require.Equal(t, format.Classic, h.Dialect)
	require.Equal(t, "US", h.Country)
	require.Equal(t, 1934, h.Year)
	require.InDelta(t, 10.37, h.Time, 1e-9)
	require.InDelta(t, 61.93, h.Latitude, 1e-9)
	require.Equal(t, time.Date(1934, 8, 7, 10, 22, 12, 0, time.UTC), h.DateTime)
	require.Equal(t, probe.Bottle, h.ProbeType)
	require.Equal(t, 7, int(h.ProbeType))
	require.Equal(t, "bottle/rossete/net", h.ProbeName)
	require.Equal(t, []section.PI{
		{VariableCode: 0, Code: 215},
		{VariableCode: 0, Code: 216},
		{VariableCode: -5006, Code: 217},
		{VariableCode: -5002, Code: 218},
	}, h.PIs)
	require.Equal(t, "STOCS85A", h.OriginatorCruise)
	require.Equal(t, []string{"Temperature", "Salinity", "Oxygen", "Phosphate", "Silicate", "pH"}, h.Variables)

	t.Run("MissingTimeIsNaN", func(t *testing.T) {
		h := HeaderOf(loadProfiles(t, "iquod.dat")[1])
		require.True(t, math.IsNaN(h.Time))
		require.Equal(t, "CTD", HeaderOf(loadProfiles(t, "iquod.dat")[0]).ProbeName)
	})
}

// =============================================================================
// Table and dictionary
// =============================================================================

func TestTableOf_Classic(t *testing.T) {
	tbl := TableOf(classic(t))

	require.Equal(t, 4, tbl.NRows())
	require.Len(t, tbl.Columns, 3+6*3)
	require.Equal(t, []string{"z", "z_wod_flag", "z_orig_flag", "t", "t_wod_flag", "t_orig_flag"}, tbl.Names()[:6])

	temp, ok := tbl.Column("t")
	require.True(t, ok)
	require.InDeltaSlice(t, []float64{8.96, 8.95, 0.90, -1.23}, temp, 1e-9)

	flags, ok := tbl.Column("s_wod_flag")
	require.True(t, ok)
	require.Equal(t, []float64{0, 0, 0, 2}, flags)

	_, ok = tbl.Column("t_unc")
	require.False(t, ok)

	require.Equal(t, "degree_C", tbl.Columns[3].Units)
}

func TestTableOf_IQuOD(t *testing.T) {
	ps := loadProfiles(t, "iquod.dat")

	tbl := TableOf(ps[0])
	require.Equal(t, []string{
		"z", "z_unc", "z_wod_flag", "z_orig_flag",
		"t", "t_unc", "t_wod_flag", "t_orig_flag",
		"s", "s_unc", "s_wod_flag", "s_orig_flag",
	}, tbl.Names())

	zunc, _ := tbl.Column("z_unc")
	require.InDeltaSlice(t, []float64{0, 0.0016, 0.004, 0.008, 0.016}, zunc, 1e-12)

	t.Run("AbsentIsNaN", func(t *testing.T) {
		tbl := TableOf(ps[1])
		s, _ := tbl.Column("s")
		require.True(t, math.IsNaN(s[1]))
		sunc, _ := tbl.Column("s_unc")
		require.True(t, math.IsNaN(sunc[1]))
		flag, _ := tbl.Column("s_wod_flag")
		require.True(t, math.IsNaN(flag[1]))
	})
}

func TestDictOf(t *testing.T) {
	d := DictOf(classic(t))

	require.Equal(t, int64(67064), d["uid"])
	require.Equal(t, "US", d["country"])
	require.Equal(t, 4, d["n_levels"])
	require.Equal(t, "Classic", d["dialect"])
	require.Equal(t, 7, d["probe_type"])
	require.Equal(t, "bottle/rossete/net", d["probe_name"])
	require.Equal(t, "", d["station"])
	require.Len(t, d["PIs"], 4)
	require.InDeltaSlice(t, []float64{0, 10, 25, 50}, d["z"], 1e-9)
	require.Equal(t, []float64{0, 1, 0, 0}, d["silicate_level_qc"])
	require.Equal(t, 0, d["t_profile_qc"])
	require.NotContains(t, d, "z_unc")
	require.NotContains(t, d, "nitrate")

	iq := DictOf(loadProfiles(t, "iquod.dat")[1])
	require.Contains(t, iq, "z_unc")
	require.Contains(t, iq, "s_unc")
	require.Equal(t, 1, iq["s_profile_qc"])
}

func TestCoTeDeOf(t *testing.T) {
	p := classic(t)
	c := CoTeDeOf(p)

	t.Run("Attributes", func(t *testing.T) {
		require.InDelta(t, 61.93, c.Attributes["LATITUDE"], 1e-9)
		require.InDelta(t, -172.27, c.Attributes["LONGITUDE"], 1e-9)
		require.Equal(t, int64(67064), c.Attributes["uid"])
		require.Equal(t, 7, c.Attributes["probe_code"])
		require.Equal(t, "bottle/rossete/net", c.Attributes["probe_type"])
		require.Equal(t, 4, c.Attributes["n_levels"])
		require.Equal(t, time.Date(1934, 8, 7, 10, 22, 12, 0, time.UTC), c.Attributes["datetime"])
	})

	t.Run("Data", func(t *testing.T) {
		require.Equal(t, []string{
			"DEPTH", "DEPTH_QC", "PRES", "PSAL", "TEMP", "TEMP_QC",
			"oxygen", "pH", "phosphate", "silicate",
		}, c.Keys())

		require.InDeltaSlice(t, []float64{0, 10, 25, 50}, c.Data["PRES"], 1e-9)
		require.InDeltaSlice(t, []float64{0, 10, 25, 50}, c.Data["DEPTH"], 1e-9)
		require.Equal(t, p.ZLevelQC(format.FlagOriginator), c.Data["DEPTH_QC"])
		require.InDeltaSlice(t, []float64{8.96, 8.95, 0.90, -1.23}, c.Data["TEMP"], 1e-9)
		require.Equal(t, p.TQCMask(format.FlagOriginator), c.Data["TEMP_QC"])
		require.InDeltaSlice(t, []float64{30.9, 30.9, 31.91, 32.41}, c.Data["PSAL"], 1e-9)
		require.InDeltaSlice(t, []float64{6.75, 6.70, 8.62, 7.28}, c.Data["oxygen"], 1e-9)
		require.InDeltaSlice(t, []float64{0.65, 0.71, 0.90, 1.17}, c.Data["phosphate"], 1e-9)
		require.InDeltaSlice(t, []float64{20.5, 12.3, 15.4, 25.6}, c.Data["silicate"], 1e-9)
		require.InDeltaSlice(t, []float64{8.1, 8.1, 8.1, 8.05}, c.Data["pH"], 1e-9)
	})

	t.Run("MissingSecondaryAndSalinity", func(t *testing.T) {
		rec := p.Record()
		rec.Secondary = nil
		rec.Variables = rec.Variables[:1]
		for i := range rec.Levels {
			rec.Levels[i].Values = rec.Levels[i].Values[:1]
		}
		rec.Header.NVariables = 1

		q, err := profile.FromRecord(rec)
		require.NoError(t, err)
		c := CoTeDeOf(q)

		require.Nil(t, c.Attributes["probe_code"])
		require.Nil(t, c.Attributes["probe_type"])
		require.NotContains(t, c.Data, "oxygen")
		psal, ok := c.Data["PSAL"].([]float64)
		require.True(t, ok)
		require.Len(t, psal, 4)
		for _, v := range psal {
			require.True(t, math.IsNaN(v))
		}
	})
}

// =============================================================================
// Summary
// =============================================================================

func TestSummarize(t *testing.T) {
	s := Summarize(classic(t))

	require.Equal(t, int64(67064), s.UID)
	require.Equal(t, 4, s.Depth.Count)
	require.InDelta(t, 21.25, s.Depth.Mean, 1e-9)
	require.InDelta(t, 21.746647251166483, s.Depth.StdDev, 1e-9)
	require.Len(t, s.Variables, 6)

	temp, ok := s.Variable(format.VarTemperature)
	require.True(t, ok)
	require.Equal(t, "Temperature", temp.Name)
	require.Equal(t, 4, temp.Count)
	require.Zero(t, temp.Absent)
	require.InDelta(t, -1.23, temp.Min, 1e-9)
	require.InDelta(t, 8.96, temp.Max, 1e-9)
	require.InDelta(t, 4.395, temp.Mean, 1e-9)
	require.InDelta(t, 5.33675619329445, temp.StdDev, 1e-9)

	_, ok = s.Variable(format.VarNitrate)
	require.False(t, ok)

	t.Run("AbsentValuesSkipped", func(t *testing.T) {
		s := Summarize(loadProfiles(t, "iquod.dat")[1])
		sal, ok := s.Variable(format.VarSalinity)
		require.True(t, ok)
		require.Equal(t, 2, sal.Count)
		require.Equal(t, 1, sal.Absent)
	})
}

func TestSeriesStats_Edges(t *testing.T) {
	empty := seriesStats(1, "x", nil)
	require.Zero(t, empty.Count)
	require.True(t, math.IsNaN(empty.Min))
	require.True(t, math.IsNaN(empty.StdDev))

	ps := loadProfiles(t, "iquod.dat")
	one := seriesStats(1, "x", ps[0].Z()[:1])
	require.Equal(t, 1, one.Count)
	require.Zero(t, one.Mean)
	require.Zero(t, one.StdDev)
}

// =============================================================================
// Filter
// =============================================================================

func TestFilter_Match(t *testing.T) {
	p := classic(t)

	tests := []struct {
		expr string
		want bool
	}{
		{expr: "latitude > 60 && country == 'US'", want: true},
		{expr: "year < 1900", want: false},
		{expr: "n_levels == 4", want: true},
		{expr: "max(t) < 5", want: false},
		{expr: "min(t) < 0", want: true},
		{expr: "mean(s) > 31", want: true},
		{expr: "sum(z) == 85", want: true},
		{expr: "count(nitrate) == 0", want: true},
		{expr: "nitrate > 0", want: false},
		{expr: "probe_type == 7", want: true},
		{expr: "probe_name == 'bottle/rossete/net'", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.expr, f.String())

			got, err := f.Match(p)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Select(t *testing.T) {
	ps := loadProfiles(t, "iquod.dat")

	f, err := CompileFilter("uid == 13393622")
	require.NoError(t, err)

	got, err := f.Select(ps)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(13393622), got[0].UID())
}

func TestFilter_Errors(t *testing.T) {
	_, err := CompileFilter("latitude >")
	require.Error(t, err)

	f, err := CompileFilter("uid + 1")
	require.NoError(t, err)
	_, err = f.Match(classic(t))
	require.ErrorContains(t, err, "not a boolean")

	f, err = CompileFilter("max(t, s) > 0")
	require.NoError(t, err)
	_, err = f.Match(classic(t))
	require.Error(t, err)
}

// =============================================================================
// Spreadsheet export
// =============================================================================

func TestWriteXLSX(t *testing.T) {
	ps := append(loadProfiles(t, "classic.dat"), loadProfiles(t, "iquod.dat")...)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ps))

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	casts, ok := book.Sheet[CastSheet]
	require.True(t, ok)
	require.Len(t, casts.Rows, 1+len(ps))
	require.Equal(t, "uid", casts.Rows[0].Cells[0].Value)
	require.Equal(t, "67064", casts.Rows[1].Cells[0].Value)
	require.Equal(t, "US", casts.Rows[1].Cells[2].Value)
	require.Equal(t, "13393622", casts.Rows[3].Cells[0].Value)

	levels, ok := book.Sheet[LevelSheet]
	require.True(t, ok)
	require.Len(t, levels.Rows, 1+4+5+3)

	header := levels.Rows[0].Cells
	col := -1
	for i, c := range header {
		if c.Value == "t" {
			col = i
		}
	}
	require.Positive(t, col)

	first := levels.Rows[1].Cells
	require.Equal(t, "67064", first[0].Value)
	v, err := strconv.ParseFloat(first[col].Value, 64)
	require.NoError(t, err)
	require.InDelta(t, 8.96, v, 1e-9)
}
