package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/section"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// iquodSecondRecord is the byte offset of the second record in testdata/iquod.dat.
const iquodSecondRecord = 324

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return data
}

func requireSeries(t *testing.T, want []float64, got Series) {
	t.Helper()

	require.Len(t, got, len(want))
	for i, w := range want {
		v, ok := got[i].Float()
		require.Truef(t, ok, "level %d absent", i)
		require.InDeltaf(t, w, v, 1e-9, "level %d", i)
	}
}

// =============================================================================
// Classic dialect
// =============================================================================

func TestDecode_Classic(t *testing.T) {
	p, err := Decode(loadFixture(t, "classic.dat"))
	require.NoError(t, err)

	t.Run("PrimaryHeader", func(t *testing.T) {
		require.Equal(t, format.Classic, p.Dialect())
		require.Equal(t, int64(67064), p.UID())
		require.Equal(t, "US", p.Country())
		require.Equal(t, int64(4936), p.Cruise())
		require.Equal(t, 1934, p.Year())
		require.Equal(t, 8, p.Month())
		require.Equal(t, 7, p.Day())
		require.Equal(t, 4, p.NLevels())
		require.Equal(t, 6, p.NVariables())
		require.Equal(t, 0, p.ProfileType())

		hours, ok := p.Time()
		require.True(t, ok)
		require.InDelta(t, 10.37, hours, 1e-9)

		lat, ok := p.Latitude()
		require.True(t, ok)
		require.InDelta(t, 61.93, lat, 1e-9)

		lon, ok := p.Longitude()
		require.True(t, ok)
		require.InDelta(t, -172.27, lon, 1e-9)
	})

	t.Run("DateTime", func(t *testing.T) {
		dt, ok := p.DateTime()
		require.True(t, ok)
		require.Equal(t, time.Date(1934, 8, 7, 10, 22, 12, 0, time.UTC), dt)
	})

	t.Run("DateTimeJustBeforeMidnight", func(t *testing.T) {
		rec := p.Record()
		rec.Header.Time = codec.NewDecimal(2399999, 5) // 23.99999 h

		dt, ok := MustFromRecord(rec).DateTime()
		require.True(t, ok)
		require.Equal(t, time.Date(1934, 8, 7, 23, 59, 59, 0, time.UTC), dt)
	})

	t.Run("Levels", func(t *testing.T) {
		requireSeries(t, []float64{0, 10, 25, 50}, p.Z())
		requireSeries(t, []float64{8.96, 8.95, 0.90, -1.23}, p.T())
		requireSeries(t, []float64{30.9, 30.9, 31.91, 32.41}, p.S())
		requireSeries(t, []float64{6.75, 6.70, 8.62, 7.28}, p.Oxygen())
		requireSeries(t, []float64{0.65, 0.71, 0.90, 1.17}, p.Phosphate())
		requireSeries(t, []float64{20.5, 12.3, 15.4, 25.6}, p.Silicate())
		requireSeries(t, []float64{8.1, 8.1, 8.1, 8.05}, p.PH())

		require.Equal(t, []int{1, 2, 3, 4, 6, 9}, p.VariableCodes())
		require.False(t, p.HasVariable(format.VarNitrate))
		require.Nil(t, p.Values(format.VarNitrate))
	})

	t.Run("PrecisionKept", func(t *testing.T) {
		require.Equal(t, codec.NewDecimal(90, 2), p.T()[2])
		require.Equal(t, codec.NewDecimal(205, 1), p.Silicate()[0])
	})

	t.Run("NoUncertainties", func(t *testing.T) {
		require.Equal(t, 0, p.ZUnc().Count())
		require.Equal(t, 0, p.TUnc().Count())
		require.Equal(t, []bool{true, true, true, true}, p.SUnc().Mask())
	})

	t.Run("Flags", func(t *testing.T) {
		require.Equal(t, []int{0, 0, 0, 2}, p.LevelQC(format.VarSalinity, format.FlagWOD))
		require.Equal(t, []bool{false, false, false, true}, p.SQCMask(format.FlagWOD))
		require.Equal(t, []bool{false, false, false, false}, p.SQCMask(format.FlagOriginator))
		require.Equal(t, []int{0, 1, 0, 0}, p.LevelQC(format.VarSilicate, format.FlagOriginator))
		require.Equal(t, []bool{false, true, false, false}, p.QCMask(format.VarSilicate, format.FlagOriginator))
		require.Equal(t, []int{0, 0, 0, 0}, p.ZLevelQC(format.FlagWOD))

		qc, ok := p.ProfileQC(format.VarTemperature)
		require.True(t, ok)
		require.Equal(t, 0, qc)
	})

	t.Run("CharacterData", func(t *testing.T) {
		require.Equal(t, "STOCS85A", p.OriginatorCruise())
		require.Empty(t, p.OriginatorStation())
		require.Equal(t, []section.PI{
			{VariableCode: 0, Code: 215},
			{VariableCode: 0, Code: 216},
			{VariableCode: -5006, Code: 217},
			{VariableCode: -5002, Code: 218},
		}, p.PIs())
	})

	t.Run("SecondaryHeader", func(t *testing.T) {
		require.Equal(t, probe.Bottle, p.ProbeType())
		v, ok := p.SecondaryValue(2)
		require.True(t, ok)
		require.Equal(t, codec.NewDecimal(13, 0), v)
		require.Len(t, p.SecondaryHeader(), 2)
		require.True(t, p.BiologicalHeader().Empty())
	})

	t.Run("MetadataEmptyNotNil", func(t *testing.T) {
		meta := p.TMetadata()
		require.NotNil(t, meta)
		require.Empty(t, meta)
	})
}

// =============================================================================
// IQuOD dialect
// =============================================================================

func TestDecode_IQuOD(t *testing.T) {
	ps, err := DecodeAll(loadFixture(t, "iquod.dat"))
	require.NoError(t, err)
	require.Len(t, ps, 2)

	t.Run("Uncertainties", func(t *testing.T) {
		p := ps[0]
		require.Equal(t, format.IQuOD, p.Dialect())
		require.Equal(t, int64(13393621), p.UID())
		require.Equal(t, "JP", p.Country())
		require.Equal(t, probe.CTD, p.ProbeType())

		lat, _ := p.Latitude()
		lon, _ := p.Longitude()
		require.InDelta(t, 34.5883, lat, 1e-9)
		require.InDelta(t, 134.2433, lon, 1e-9)

		dt, ok := p.DateTime()
		require.True(t, ok)
		require.Equal(t, time.Date(2000, 1, 4, 3, 42, 0, 0, time.UTC), dt)

		requireSeries(t, []float64{0, 2, 5, 10, 20}, p.Z())
		requireSeries(t, []float64{0, 0.0016, 0.004, 0.008, 0.016}, p.ZUnc())
		requireSeries(t, []float64{11.1, 11.2, 11.0, 11.0, 11.0}, p.T())
		requireSeries(t, []float64{0.01, 0.01, 0.01, 0.01, 0.01}, p.TUnc())
		requireSeries(t, []float64{31.53, 31.47, 31.49, 31.49, 31.50}, p.S())
		requireSeries(t, []float64{0.02, 0.02, 0.02, 0.02, 0.02}, p.SUnc())
	})

	t.Run("LevelMetadata", func(t *testing.T) {
		p := ps[0]
		require.Equal(t, []section.MetadataEntry{
			{Code: 12, Value: codec.NewDecimal(5, 1), IMeta: 1},
		}, p.LevelMetadata(format.VarTemperature, 0))
		require.Empty(t, p.LevelMetadata(format.VarTemperature, 1))
		require.Nil(t, p.LevelMetadata(format.VarTemperature, 5))
		require.Equal(t, []int{0, 0, 0, 0, 4}, p.LevelQC(format.VarTemperature, format.FlagOriginator))
		require.Equal(t, []bool{false, false, false, false, true}, p.TQCMask(format.FlagOriginator))
	})

	t.Run("VariableMetadata", func(t *testing.T) {
		p := ps[1]
		require.Equal(t, int64(13393622), p.UID())
		require.Equal(t, []section.MetadataEntry{
			{Code: 3, Value: codec.NewDecimal(1020, 1)},
			{Code: 5, Value: codec.NewDecimal(4110, 1)},
		}, p.TMetadata())
		require.Equal(t, []section.MetadataEntry{
			{Code: 3, Value: codec.NewDecimal(2020, 1)},
			{Code: 5, Value: codec.NewDecimal(4110, 1)},
		}, p.SMetadata())
	})

	t.Run("MissingTimeIsMidnight", func(t *testing.T) {
		p := ps[1]
		_, ok := p.Time()
		require.False(t, ok)

		dt, ok := p.DateTime()
		require.True(t, ok)
		require.Equal(t, time.Date(2000, 1, 5, 0, 0, 0, 0, time.UTC), dt)
	})

	t.Run("AbsentValueDropsUncertainty", func(t *testing.T) {
		p := ps[1]
		require.Equal(t, []bool{true, false, true}, p.S().Present())
		require.Equal(t, []bool{true, false, true}, p.SUnc().Present())
		require.Equal(t, []int{0, NoFlag, 0}, p.LevelQC(format.VarSalinity, format.FlagWOD))
	})

	t.Run("ProfileQCRejectsAllLevels", func(t *testing.T) {
		p := ps[1]
		qc, ok := p.ProfileQC(format.VarSalinity)
		require.True(t, ok)
		require.Equal(t, 1, qc)
		require.Equal(t, []bool{true, true, true}, p.SQCMask(format.FlagWOD))
		require.Equal(t, []bool{false, false, false}, p.TQCMask(format.FlagWOD))
	})
}

func TestDecodeOne_Span(t *testing.T) {
	data := loadFixture(t, "iquod.dat")
	c := codec.NewCursor(data)

	_, span, err := DecodeOne(c)
	require.NoError(t, err)
	require.Equal(t, Span{Start: 0, End: iquodSecondRecord}, span)

	_, span, err = DecodeOne(c)
	require.NoError(t, err)
	require.Equal(t, Span{Start: iquodSecondRecord, End: len(data)}, span)
	require.Equal(t, len(data)-iquodSecondRecord, span.Len())
	require.True(t, c.Done())
}

// =============================================================================
// Errors
// =============================================================================

func TestDecode_Errors(t *testing.T) {
	classic := loadFixture(t, "classic.dat")

	t.Run("UnknownDialect", func(t *testing.T) {
		data := bytes.Clone(classic)
		data[0] = 'X'
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrUnknownDialect)

		var de *errs.DecodeError
		require.ErrorAs(t, err, &de)
		require.Equal(t, 0, de.Offset)
		require.Equal(t, "version", de.Field)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Decode(classic[:200])
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Decode(nil)
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)
	})

	t.Run("InvalidDigit", func(t *testing.T) {
		data := bytes.Clone(classic)
		// First digit of the year.
		idx := bytes.Index(data, []byte("1934"))
		require.Positive(t, idx)
		data[idx] = 'x'

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidDigit)

		var de *errs.DecodeError
		require.ErrorAs(t, err, &de)
		require.Equal(t, "year", de.Field)
		require.Equal(t, idx, de.Offset)
	})

	t.Run("DeclaredSizeTooLarge", func(t *testing.T) {
		data := bytes.Clone(classic)
		// "C3376" declares 376 characters; claim 377.
		data[4] = '7'

		_, err := Decode(data)
		require.Error(t, err)
	})

	t.Run("DeclaredSizeTooSmall", func(t *testing.T) {
		data := bytes.Clone(classic)
		data[4] = '5'

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInconsistentLevelCount)
	})

	t.Run("LenientLength", func(t *testing.T) {
		data := bytes.Clone(classic)
		data[4] = '5'

		p, err := Decode(data, WithStrictLength(false))
		require.NoError(t, err)
		require.Equal(t, int64(67064), p.UID())
	})

	t.Run("LenientHugeLevelCount", func(t *testing.T) {
		// Declares 999999999 levels in a 30-character record.
		data := []byte("C3999" + "11US11" + "19340807" + "---" + "9999999999" + "0" + "00" + "000")

		_, err := Decode(data, WithStrictLength(false))
		require.ErrorIs(t, err, errs.ErrInconsistentLevelCount)
	})

	t.Run("DecodeAllKeepsPrefix", func(t *testing.T) {
		data := append(bytes.Clone(classic), []byte("C9")...)
		ps, err := DecodeAll(data)
		require.Error(t, err)
		require.Len(t, ps, 1)
	})

	t.Run("NilLogger", func(t *testing.T) {
		_, err := NewDecoder(WithLogger(nil))
		require.Error(t, err)
	})
}

func TestDecode_InvalidProbeIsWarning(t *testing.T) {
	data := loadFixture(t, "classic.dat")
	// Secondary header entry 29 carries probe 7 as "1107"; make it 0.7.
	idx := bytes.Index(data, []byte("2291107"))
	require.Positive(t, idx)

	data = bytes.Clone(data)
	copy(data[idx+3:], "1117")

	logger, hook := test.NewNullLogger()
	p, err := Decode(data, WithLogger(logger))
	require.NoError(t, err)
	require.Equal(t, probe.Absent, p.ProbeType())

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, int64(67064), entry.Data["uid"])
	require.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), errs.ErrInvalidProbeCode)
}
