package ragged

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/ctessum/cdf"
	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
)

// Per-cast netCDF variables.
const (
	varUID         = "wod_unique_cast"
	varDialect     = "dialect"
	varCountry     = "country"
	varCruise      = "cruise"
	varDate        = "date"
	varTime        = "GMT_time"
	varLatitude    = "lat"
	varLongitude   = "lon"
	varProbe       = "probe_type"
	varProfileType = "profile_type"
	varCodes       = "variable_code"

	dimCasts     = "casts"
	dimVariables = "variables"
)

// ErrEmptyTable is returned when writing a table without casts; netCDF would
// turn the zero-length cast dimension into the record dimension.
var ErrEmptyTable = errors.New("ragged table has no casts")

// WriteNetCDF stores t as a classic netCDF file in rw.
//
// Each series s becomes "<s>_row_size" over the cast dimension plus, when it
// has observations, "<s>", "<s>_unc", "<s>_WODflag" and "<s>_origflag" over
// its own "<s>_obs" dimension. Variables also get "<s>_WODprofileflag".
func WriteNetCDF(rw cdf.ReaderWriterAt, t *Table) error {
	if len(t.Casts) == 0 {
		return ErrEmptyTable
	}
	if err := t.Check(); err != nil {
		return err
	}

	series := t.series()

	dims := []string{dimCasts}
	lengths := []int{len(t.Casts)}
	for _, s := range series {
		if s.Len() > 0 {
			dims = append(dims, s.Name()+"_obs")
			lengths = append(lengths, s.Len())
		}
	}
	if len(t.Variables) > 0 {
		dims = append(dims, dimVariables)
		lengths = append(lengths, len(t.Variables))
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "featureType", "profile")
	h.AddAttribute("", "comment", "World Ocean Database casts in contiguous ragged array form")

	castVar := func(name string, fill any, description string) {
		h.AddVariable(name, []string{dimCasts}, fill)
		h.AddAttribute(name, "description", description)
	}
	castVar(varUID, []int32{0}, "WOD unique cast number")
	castVar(varDialect, []int32{0}, "record dialect, 1 classic, 2 IQuOD")
	castVar(varCountry, []int32{0}, "country code, two ASCII characters packed high byte first")
	castVar(varCruise, []int32{0}, "WOD cruise identifier")
	castVar(varDate, []int32{0}, "date as yyyymmdd")
	castVar(varTime, []float64{0}, "GMT time in hours, NaN when missing")
	castVar(varLatitude, []float64{0}, "latitude in degrees north")
	castVar(varLongitude, []float64{0}, "longitude in degrees east")
	castVar(varProbe, []int32{0}, "WOD probe type code, -1 when unknown")
	castVar(varProfileType, []int32{0}, "0 observed, 1 standard levels")
	h.AddAttribute(varTime, "units", "hours")
	h.AddAttribute(varLatitude, "units", "degrees_north")
	h.AddAttribute(varLongitude, "units", "degrees_east")

	if len(t.Variables) > 0 {
		h.AddVariable(varCodes, []string{dimVariables}, []int32{0})
		h.AddAttribute(varCodes, "description", "WOD variable codes in series order")
	}

	for _, s := range series {
		name := s.Name()
		castVar(name+"_row_size", []int32{0}, fmt.Sprintf("number of %s observations per cast", name))
		if s.ProfileQC != nil {
			castVar(name+"_WODprofileflag", []int32{0}, "WOD profile flag, -1 when the cast lacks the variable")
		}
		if s.Len() == 0 {
			continue
		}

		obs := []string{name + "_obs"}
		h.AddVariable(name, obs, []float64{0})
		h.AddVariable(name+"_unc", obs, []float64{0})
		h.AddVariable(name+"_WODflag", obs, []int32{0})
		h.AddVariable(name+"_origflag", obs, []int32{0})
		if units := seriesUnits(s); units != "" {
			h.AddAttribute(name, "units", units)
			h.AddAttribute(name+"_unc", "units", units)
		}
	}

	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("define netcdf header: %w", err)
	}

	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("create netcdf file: %w", err)
	}

	if err := writeCasts(f, t.Casts); err != nil {
		return err
	}

	if len(t.Variables) > 0 {
		codes := make([]int, len(t.Variables))
		for i, s := range t.Variables {
			codes[i] = s.Code
		}
		if err := writeInts(f, varCodes, codes); err != nil {
			return err
		}
	}

	for _, s := range series {
		if err := writeSeries(f, s); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) series() []*Series {
	out := make([]*Series, 0, 1+len(t.Variables))
	out = append(out, &t.Z)
	for i := range t.Variables {
		out = append(out, &t.Variables[i])
	}

	return out
}

func seriesUnits(s *Series) string {
	if s.Code == 0 {
		return "m"
	}

	return format.VariableUnits(s.Code)
}

func writeCasts(f *cdf.File, casts []Cast) error {
	n := len(casts)
	uid := make([]int, n)
	dialect := make([]int, n)
	country := make([]int, n)
	cruise := make([]int, n)
	date := make([]int, n)
	probes := make([]int, n)
	ptype := make([]int, n)
	hours := make([]float64, n)
	lat := make([]float64, n)
	lon := make([]float64, n)

	for i, c := range casts {
		if c.UID > math.MaxInt32 || c.UID < 0 {
			return fmt.Errorf("%w: uid %d does not fit a netCDF int", errs.ErrEncodingOverflow, c.UID)
		}
		if c.Cruise > math.MaxInt32 || c.Cruise < math.MinInt32 {
			return fmt.Errorf("%w: cruise %d does not fit a netCDF int", errs.ErrEncodingOverflow, c.Cruise)
		}

		uid[i] = int(c.UID)
		dialect[i] = int(c.Dialect)
		country[i] = packCountry(c.Country)
		cruise[i] = int(c.Cruise)
		date[i] = c.Year*10000 + c.Month*100 + c.Day
		probes[i] = int(c.ProbeType)
		ptype[i] = c.ProfileType
		hours[i] = c.Time
		lat[i] = c.Latitude
		lon[i] = c.Longitude
	}

	for name, v := range map[string][]int{
		varUID: uid, varDialect: dialect, varCountry: country, varCruise: cruise,
		varDate: date, varProbe: probes, varProfileType: ptype,
	} {
		if err := writeInts(f, name, v); err != nil {
			return err
		}
	}
	for name, v := range map[string][]float64{varTime: hours, varLatitude: lat, varLongitude: lon} {
		if err := writeFloats(f, name, v); err != nil {
			return err
		}
	}

	return nil
}

func writeSeries(f *cdf.File, s *Series) error {
	name := s.Name()
	if err := writeInts(f, name+"_row_size", s.RowSize); err != nil {
		return err
	}
	if s.ProfileQC != nil {
		if err := writeInts(f, name+"_WODprofileflag", s.ProfileQC); err != nil {
			return err
		}
	}
	if s.Len() == 0 {
		return nil
	}

	if err := writeFloats(f, name, s.Values); err != nil {
		return err
	}
	if err := writeFloats(f, name+"_unc", s.Unc); err != nil {
		return err
	}
	if err := writeInts(f, name+"_WODflag", s.WODFlag); err != nil {
		return err
	}

	return writeInts(f, name+"_origflag", s.OrigFlag)
}

func writeFloats(f *cdf.File, name string, v []float64) error {
	w := f.Writer(name, []int{0}, []int{len(v)})
	if _, err := w.Write(v); err != nil {
		return fmt.Errorf("write netcdf variable %s: %w", name, err)
	}

	return nil
}

func writeInts(f *cdf.File, name string, v []int) error {
	data := make([]int32, len(v))
	for i, x := range v {
		data[i] = int32(x)
	}

	w := f.Writer(name, []int{0}, []int{len(data)})
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write netcdf variable %s: %w", name, err)
	}

	return nil
}

func packCountry(s string) int {
	if len(s) != 2 {
		return 0
	}

	return int(s[0])<<8 | int(s[1])
}

func unpackCountry(v int) string {
	if v == 0 {
		return ""
	}

	return string([]byte{byte(v >> 8), byte(v)})
}

// ReadNetCDF loads a table written by WriteNetCDF.
func ReadNetCDF(rw cdf.ReaderWriterAt) (*Table, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("open netcdf file: %w", err)
	}

	names := f.Header.Variables()
	if !slices.Contains(names, varUID) {
		return nil, fmt.Errorf("netcdf file has no %s variable", varUID)
	}

	casts, err := readCasts(f)
	if err != nil {
		return nil, err
	}

	t := &Table{Casts: casts}
	if err := readSeries(f, names, &t.Z); err != nil {
		return nil, err
	}

	if slices.Contains(names, varCodes) {
		codes, err := readInts(f, varCodes)
		if err != nil {
			return nil, err
		}
		t.Variables = make([]Series, len(codes))
		for i, code := range codes {
			t.Variables[i].Code = code
			if err := readSeries(f, names, &t.Variables[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := t.Check(); err != nil {
		return nil, fmt.Errorf("inconsistent netcdf table: %w", err)
	}

	return t, nil
}

func readCasts(f *cdf.File) ([]Cast, error) {
	ints := make(map[string][]int)
	for _, name := range []string{varUID, varDialect, varCountry, varCruise, varDate, varProbe, varProfileType} {
		v, err := readInts(f, name)
		if err != nil {
			return nil, err
		}
		ints[name] = v
	}
	floats := make(map[string][]float64)
	for _, name := range []string{varTime, varLatitude, varLongitude} {
		v, err := readFloats(f, name)
		if err != nil {
			return nil, err
		}
		floats[name] = v
	}

	casts := make([]Cast, len(ints[varUID]))
	for i := range casts {
		date := ints[varDate][i]
		casts[i] = Cast{
			UID:         int64(ints[varUID][i]),
			Dialect:     format.Dialect(ints[varDialect][i]),
			Country:     unpackCountry(ints[varCountry][i]),
			Cruise:      int64(ints[varCruise][i]),
			Year:        date / 10000,
			Month:       date / 100 % 100,
			Day:         date % 100,
			Time:        floats[varTime][i],
			Latitude:    floats[varLatitude][i],
			Longitude:   floats[varLongitude][i],
			ProbeType:   probe.Type(ints[varProbe][i]),
			ProfileType: ints[varProfileType][i],
		}
	}

	return casts, nil
}

func readSeries(f *cdf.File, names []string, s *Series) error {
	name := s.Name()

	var err error
	if s.RowSize, err = readInts(f, name+"_row_size"); err != nil {
		return err
	}
	if s.Code != 0 {
		if s.ProfileQC, err = readInts(f, name+"_WODprofileflag"); err != nil {
			return err
		}
	}
	if !slices.Contains(names, name) {
		return nil
	}

	if s.Values, err = readFloats(f, name); err != nil {
		return err
	}
	if s.Unc, err = readFloats(f, name+"_unc"); err != nil {
		return err
	}
	if s.WODFlag, err = readInts(f, name+"_WODflag"); err != nil {
		return err
	}
	s.OrigFlag, err = readInts(f, name+"_origflag")

	return err
}

func readFloats(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read netcdf variable %s: %w", name, err)
	}

	v, ok := buf.([]float64)
	if !ok {
		return nil, fmt.Errorf("netcdf variable %s holds %T, want doubles", name, buf)
	}

	return v, nil
}

func readInts(f *cdf.File, name string) ([]int, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read netcdf variable %s: %w", name, err)
	}

	v, ok := buf.([]int32)
	if !ok {
		return nil, fmt.Errorf("netcdf variable %s holds %T, want ints", name, buf)
	}

	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}

	return out, nil
}
