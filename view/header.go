package view

import (
	"math"
	"time"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/section"
)

// Header is the flat per-cast metadata of a profile. Missing numeric fields
// are NaN.
type Header struct {
	UID               int64
	Dialect           format.Dialect
	Country           string
	Cruise            int64
	Year              int
	Month             int
	Day               int
	Time              float64
	DateTime          time.Time // zero when the date is not a calendar date
	Latitude          float64
	Longitude         float64
	NLevels           int
	NVariables        int
	ProfileType       int
	ProbeType         probe.Type // probe.Absent when unknown
	ProbeName         string     // empty when unknown
	OriginatorCruise  string
	OriginatorStation string
	PIs               []section.PI
	Variables         []string
}

// HeaderOf projects the per-cast metadata of p.
func HeaderOf(p profile.Profile) Header {
	h := Header{
		UID:               p.UID(),
		Dialect:           p.Dialect(),
		Country:           p.Country(),
		Cruise:            p.Cruise(),
		Year:              p.Year(),
		Month:             p.Month(),
		Day:               p.Day(),
		Time:              orNaN(p.Time()),
		Latitude:          orNaN(p.Latitude()),
		Longitude:         orNaN(p.Longitude()),
		NLevels:           p.NLevels(),
		NVariables:        p.NVariables(),
		ProfileType:       p.ProfileType(),
		ProbeType:         p.ProbeType(),
		OriginatorCruise:  p.OriginatorCruise(),
		OriginatorStation: p.OriginatorStation(),
		PIs:               p.PIs(),
	}

	if t, ok := p.DateTime(); ok {
		h.DateTime = t
	}
	if pt := p.ProbeType(); pt.Valid() {
		h.ProbeName = pt.Name()
	}

	codes := p.VariableCodes()
	h.Variables = make([]string, len(codes))
	for i, code := range codes {
		h.Variables[i] = format.VariableName(code)
	}

	return h
}

func orNaN(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}

	return v
}
