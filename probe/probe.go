// Package probe names the WOD instrument (probe type) codes carried in
// secondary header code 29.
package probe

import (
	"fmt"
	"strings"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/errs"
)

// Type is a WOD probe type code.
type Type int

// Absent marks a cast whose probe type is missing or not a known code.
const Absent Type = -1

const (
	Unknown        Type = 0
	MBT            Type = 1
	XBT            Type = 2
	DBT            Type = 3
	CTD            Type = 4
	STD            Type = 5
	XCTD           Type = 6
	Bottle         Type = 7
	Underway       Type = 8
	ProfilingFloat Type = 9
	MooredBuoy     Type = 10
	DriftingBuoy   Type = 11
	TowedCTD       Type = 12
	AnimalMounted  Type = 13
	Bucket         Type = 14
	Glider         Type = 15
	MicroBT        Type = 16
)

var names = [...]string{
	Unknown:        "unknown",
	MBT:            "MBT",
	XBT:            "XBT",
	DBT:            "DBT",
	CTD:            "CTD",
	STD:            "STD",
	XCTD:           "XCTD",
	Bottle:         "bottle/rossete/net",
	Underway:       "underway/intake",
	ProfilingFloat: "profiling float",
	MooredBuoy:     "moored buoy",
	DriftingBuoy:   "drifting buoy",
	TowedCTD:       "towed CTD",
	AnimalMounted:  "animal mounted",
	Bucket:         "bucket",
	Glider:         "glider",
	MicroBT:        "microBT",
}

// Lookup validates a probe code. Codes outside the table resolve to Absent with
// errs.ErrInvalidProbeCode; callers treat the error as a warning.
func Lookup(code int) (Type, error) {
	if code < 0 || code >= len(names) {
		return Absent, fmt.Errorf("%w: %d", errs.ErrInvalidProbeCode, code)
	}

	return Type(code), nil
}

// FromDecimal resolves the decoded value of secondary header code 29. A
// missing value is Absent without error; a fractional one is invalid.
func FromDecimal(d codec.Decimal) (Type, error) {
	v, ok := d.Float()
	if !ok {
		return Absent, nil
	}
	if v != float64(int(v)) {
		return Absent, fmt.Errorf("%w: %v", errs.ErrInvalidProbeCode, v)
	}

	return Lookup(int(v))
}

// Valid reports whether t is a code from the table.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(names)
}

// Name returns the WOD name of the probe, or "" for Absent and invalid codes.
func (t Type) Name() string {
	if !t.Valid() {
		return ""
	}

	return names[t]
}

func (t Type) String() string {
	if !t.Valid() {
		return "absent"
	}

	return names[t]
}

// ByName is the case-insensitive inverse of Name.
func ByName(name string) (Type, bool) {
	for code, n := range names {
		if strings.EqualFold(n, name) {
			return Type(code), true
		}
	}

	return Absent, false
}

// All returns every known probe type in code order.
func All() []Type {
	out := make([]Type, len(names))
	for i := range out {
		out[i] = Type(i)
	}

	return out
}
