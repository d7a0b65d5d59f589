package view

import (
	"strings"

	"github.com/iquod/wod/format"
)

// shortKeys name the common variables the way cast dictionaries usually do.
var shortKeys = map[int]string{
	format.VarTemperature: "t",
	format.VarSalinity:    "s",
	format.VarOxygen:      "oxygen",
	format.VarPhosphate:   "phosphate",
	format.VarSilicate:    "silicate",
	format.VarNitrate:     "nitrate",
	format.VarPH:          "ph",
	format.VarChlorophyll: "chlorophyll",
	format.VarAlkalinity:  "alkalinity",
	format.VarPressure:    "pressure",
}

// Key returns the dictionary and column key of a variable code.
func Key(code int) string {
	if k, ok := shortKeys[code]; ok {
		return k
	}

	return strings.ToLower(format.VariableName(code))
}
