package view

import (
	"math"

	"github.com/iquod/wod/format"
	"github.com/iquod/wod/profile"
)

// Column is one named per-level series of a Table.
type Column struct {
	Name  string
	Units string
	Data  []float64
}

// Table is the columnar per-level form of a cast. Every column has one row per
// level; absent values and flags are NaN.
type Table struct {
	Header  Header
	Columns []Column
}

// NRows returns the number of levels.
func (t Table) NRows() int {
	if len(t.Columns) == 0 {
		return 0
	}

	return len(t.Columns[0].Data)
}

// Column returns the data of the named column.
func (t Table) Column(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Data, true
		}
	}

	return nil, false
}

// Names returns the column names in order.
func (t Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}

	return out
}

// TableOf lays out the levels of p as columns.
//
// Depth comes first as "z", followed by one group per variable in table order:
// the values under the variable key, then "<key>_unc" for the IQuOD dialect,
// then "<key>_wod_flag" and "<key>_orig_flag".
func TableOf(p profile.Profile) Table {
	iquod := p.Dialect().HasUncertainty()

	t := Table{Header: HeaderOf(p)}
	t.Columns = append(t.Columns, Column{Name: "z", Units: "m", Data: p.Z().Floats()})
	if iquod {
		t.Columns = append(t.Columns, Column{Name: "z_unc", Units: "m", Data: p.ZUnc().Floats()})
	}
	t.Columns = append(t.Columns,
		Column{Name: "z_wod_flag", Data: flagFloats(p.ZLevelQC(format.FlagWOD))},
		Column{Name: "z_orig_flag", Data: flagFloats(p.ZLevelQC(format.FlagOriginator))},
	)

	for _, code := range p.VariableCodes() {
		key := Key(code)
		units := format.VariableUnits(code)

		t.Columns = append(t.Columns, Column{Name: key, Units: units, Data: p.Values(code).Floats()})
		if iquod {
			t.Columns = append(t.Columns, Column{Name: key + "_unc", Units: units, Data: p.Uncertainties(code).Floats()})
		}
		t.Columns = append(t.Columns,
			Column{Name: key + "_wod_flag", Data: flagFloats(p.LevelQC(code, format.FlagWOD))},
			Column{Name: key + "_orig_flag", Data: flagFloats(p.LevelQC(code, format.FlagOriginator))},
		)
	}

	return t
}

func flagFloats(flags []int) []float64 {
	out := make([]float64, len(flags))
	for i, f := range flags {
		if f == profile.NoFlag {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(f)
	}

	return out
}
