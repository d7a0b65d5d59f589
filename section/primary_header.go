package section

import (
	"fmt"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
)

// PrimaryHeader holds the cast identity fields that follow the record size.
type PrimaryHeader struct {
	// UID is the WOD unique cast number.
	UID int64
	// Country is the two-character NODC country code.
	Country string
	// Cruise is the WOD cruise number.
	Cruise int64
	Year   int
	Month  int
	Day    int
	// Time is the time of day in decimal hours; absent when unknown.
	Time      codec.Decimal
	Latitude  codec.Decimal
	Longitude codec.Decimal
	// NLevels is the number of depth levels in the level data.
	NLevels int
	// ProfileType is 0 for observed levels and 1 for standard levels.
	ProfileType int
	// NVariables is the number of entries in the variable table.
	NVariables int
}

// Parse decodes the primary header from the cursor, which must be positioned
// just after the record size.
func (h *PrimaryHeader) Parse(c *codec.Cursor) error {
	var err error

	if h.UID, err = codec.LengthPrefixedInt(c, "uid"); err != nil {
		return err
	}
	if h.Country, err = codec.Text(c, CountryWidth, "country"); err != nil {
		return err
	}
	if h.Cruise, err = codec.LengthPrefixedInt(c, "cruise"); err != nil {
		return err
	}
	if h.Year, err = codec.Digits(c, YearWidth, "year"); err != nil {
		return err
	}
	if h.Month, err = codec.Digits(c, MonthWidth, "month"); err != nil {
		return err
	}
	if h.Day, err = codec.Digits(c, DayWidth, "day"); err != nil {
		return err
	}
	if h.Time, err = codec.ScaledDecimal(c, "time"); err != nil {
		return err
	}
	if h.Latitude, err = codec.ScaledDecimal(c, "latitude"); err != nil {
		return err
	}
	if h.Longitude, err = codec.ScaledDecimal(c, "longitude"); err != nil {
		return err
	}
	if h.NLevels, err = codec.LengthPrefixedCount(c, "level count"); err != nil {
		return err
	}
	if h.ProfileType, err = codec.Digits(c, ProfileTypeWidth, "profile type"); err != nil {
		return err
	}
	if h.NVariables, err = codec.Digits(c, VariableCountWidth, "variable count"); err != nil {
		return err
	}

	return nil
}

// Encode writes the primary header. Decimal fields keep their own precision.
func (h PrimaryHeader) Encode(w *codec.Writer) error {
	if len(h.Country) != CountryWidth {
		return fmt.Errorf("%w: country code %q must be %d characters", errs.ErrInvalidProfile, h.Country, CountryWidth)
	}
	if h.NVariables > maxVariables {
		return fmt.Errorf("%w: %d variables", errs.ErrEncodingOverflow, h.NVariables)
	}

	if err := w.WriteLengthPrefixedInt(h.UID); err != nil {
		return err
	}
	w.WriteString(h.Country)
	if err := w.WriteLengthPrefixedInt(h.Cruise); err != nil {
		return err
	}
	if err := w.WriteDigits(h.Year, YearWidth); err != nil {
		return err
	}
	if err := w.WriteDigits(h.Month, MonthWidth); err != nil {
		return err
	}
	if err := w.WriteDigits(h.Day, DayWidth); err != nil {
		return err
	}
	for _, d := range []codec.Decimal{h.Time, h.Latitude, h.Longitude} {
		if err := w.WriteDecimal(d); err != nil {
			return err
		}
	}
	if err := w.WriteLengthPrefixedInt(int64(h.NLevels)); err != nil {
		return err
	}
	if err := w.WriteDigits(h.ProfileType, ProfileTypeWidth); err != nil {
		return err
	}

	return w.WriteDigits(h.NVariables, VariableCountWidth)
}
