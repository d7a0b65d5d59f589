package format

import "strconv"

// Variable codes as assigned by the World Ocean Database.
const (
	VarTemperature = 1
	VarSalinity    = 2
	VarOxygen      = 3
	VarPhosphate   = 4
	VarSilicate    = 6
	VarNitrate     = 8
	VarPH          = 9
	VarChlorophyll = 11
	VarAlkalinity  = 17
	VarPressure    = 25
)

var variableNames = map[int]string{
	VarTemperature: "Temperature",
	VarSalinity:    "Salinity",
	VarOxygen:      "Oxygen",
	VarPhosphate:   "Phosphate",
	VarSilicate:    "Silicate",
	VarNitrate:     "Nitrate",
	VarPH:          "pH",
	VarChlorophyll: "Chlorophyll",
	VarAlkalinity:  "Alkalinity",
	VarPressure:    "Pressure",
}

var variableUnits = map[int]string{
	VarTemperature: "degree_C",
	VarSalinity:    "1e-3",
	VarOxygen:      "umol/kg",
	VarPhosphate:   "umol/kg",
	VarSilicate:    "umol/kg",
	VarNitrate:     "umol/kg",
	VarPH:          "1",
	VarChlorophyll: "ug/l",
	VarAlkalinity:  "meq/l",
	VarPressure:    "dbar",
}

// VariableName returns the canonical name of a variable code. Codes outside the
// table are named "var<code>".
func VariableName(code int) string {
	if name, ok := variableNames[code]; ok {
		return name
	}

	return "var" + strconv.Itoa(code)
}

// VariableUnits returns the units string for a variable code, or "" when unknown.
func VariableUnits(code int) string {
	return variableUnits[code]
}

// VariableCode is the inverse of VariableName for the known table.
func VariableCode(name string) (int, bool) {
	for code, n := range variableNames {
		if n == name {
			return code, true
		}
	}

	return 0, false
}
