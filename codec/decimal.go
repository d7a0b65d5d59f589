package codec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/iquod/wod/errs"
)

// MaxPrecision is the largest number of decimal places a scaled decimal can carry.
const MaxPrecision = 9

// AutoPrecision asks the float encoders to pick the smallest precision that
// represents the value exactly.
const AutoPrecision = -1

// Decimal is a decoded scaled decimal: a signed integer and the number of
// decimal places it is scaled by. The zero Decimal is absent, which is distinct
// from a present zero.
type Decimal struct {
	Digits    int64
	Precision int
	Valid     bool
}

// Absent returns the missing-value Decimal.
func Absent() Decimal {
	return Decimal{}
}

// NewDecimal returns a present Decimal of digits scaled by 10^-precision.
func NewDecimal(digits int64, precision int) Decimal {
	return Decimal{Digits: digits, Precision: precision, Valid: true}
}

// DecimalOf rounds v to the given number of decimal places. With AutoPrecision
// the smallest exact precision is chosen. NaN decodes as absent.
func DecimalOf(v float64, precision int) (Decimal, error) {
	if math.IsNaN(v) {
		return Absent(), nil
	}
	if precision == AutoPrecision {
		precision = FindPrecision(v)
	}
	if precision < 0 || precision > MaxPrecision {
		return Decimal{}, fmt.Errorf("%w: precision %d", errs.ErrEncodingOverflow, precision)
	}

	scaled := math.Round(v * math.Pow10(precision))
	if math.IsInf(scaled, 0) || math.Abs(scaled) >= 1e18 {
		return Decimal{}, fmt.Errorf("%w: %v at precision %d", errs.ErrEncodingOverflow, v, precision)
	}

	return NewDecimal(int64(scaled), precision), nil
}

// MustDecimal is DecimalOf for literals known to fit; it panics on overflow.
func MustDecimal(v float64, precision int) Decimal {
	d, err := DecimalOf(v, precision)
	if err != nil {
		panic(err)
	}

	return d
}

// FindPrecision returns the smallest number of decimal places, up to
// MaxPrecision, at which v is an integer within float tolerance.
func FindPrecision(v float64) int {
	for p := 0; p < MaxPrecision; p++ {
		s := v * math.Pow10(p)
		if math.Abs(s-math.Round(s)) <= 1e-9*math.Max(1, math.Abs(s)) {
			return p
		}
	}

	return MaxPrecision
}

// Float returns the value and whether it is present.
func (d Decimal) Float() (float64, bool) {
	if !d.Valid {
		return 0, false
	}

	return float64(d.Digits) / math.Pow10(d.Precision), true
}

// Float64 returns the value, or NaN when absent.
func (d Decimal) Float64() float64 {
	v, ok := d.Float()
	if !ok {
		return math.NaN()
	}

	return v
}

// Int returns the value truncated to an integer and whether it is present.
func (d Decimal) Int() (int, bool) {
	v, ok := d.Float()
	if !ok {
		return 0, false
	}

	return int(v), true
}

// String formats the value with its own precision, or "-" when absent.
func (d Decimal) String() string {
	v, ok := d.Float()
	if !ok {
		return "-"
	}

	return strconv.FormatFloat(v, 'f', d.Precision, 64)
}

// WithPrecision rescales a present decimal to another precision, rounding half away
// from zero. Absent decimals stay absent.
func (d Decimal) WithPrecision(precision int) (Decimal, error) {
	if !d.Valid || precision == d.Precision || precision == AutoPrecision {
		return d, nil
	}
	v, _ := d.Float()

	return DecimalOf(v, precision)
}
