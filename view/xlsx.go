package view

import (
	"fmt"
	"io"
	"math"

	"github.com/iquod/wod/profile"
	"github.com/tealeg/xlsx"
)

// Sheet names written by WriteXLSX.
const (
	CastSheet  = "casts"
	LevelSheet = "levels"
)

var castColumns = []string{
	"uid", "dialect", "country", "cruise", "year", "month", "day", "time",
	"latitude", "longitude", "n_levels", "n_variables", "probe_type",
	"probe_name", "originator_cruise", "originator_station",
}

// WriteXLSX exports ps as a workbook with two sheets: one row per cast in
// CastSheet, and one row per level in LevelSheet keyed by uid. Absent values
// are left as empty cells.
func WriteXLSX(w io.Writer, ps []profile.Profile) error {
	file := xlsx.NewFile()

	casts, err := file.AddSheet(CastSheet)
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", CastSheet, err)
	}
	levels, err := file.AddSheet(LevelSheet)
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", LevelSheet, err)
	}

	addStrings(casts.AddRow(), castColumns...)

	// Level columns are the union over all casts, in first-seen order.
	var names []string
	seen := make(map[string]int)
	tables := make([]Table, len(ps))
	for i, p := range ps {
		tables[i] = TableOf(p)
		for _, c := range tables[i].Columns {
			if _, ok := seen[c.Name]; !ok {
				seen[c.Name] = len(names)
				names = append(names, c.Name)
			}
		}
	}
	addStrings(levels.AddRow(), append([]string{"uid"}, names...)...)

	for i, t := range tables {
		h := t.Header
		row := casts.AddRow()
		row.AddCell().SetInt64(h.UID)
		addStrings(row, h.Dialect.String(), h.Country)
		row.AddCell().SetInt64(h.Cruise)
		row.AddCell().SetInt(h.Year)
		row.AddCell().SetInt(h.Month)
		row.AddCell().SetInt(h.Day)
		addFloat(row, h.Time)
		addFloat(row, h.Latitude)
		addFloat(row, h.Longitude)
		row.AddCell().SetInt(h.NLevels)
		row.AddCell().SetInt(h.NVariables)
		row.AddCell().SetInt(int(h.ProbeType))
		addStrings(row, h.ProbeName, h.OriginatorCruise, h.OriginatorStation)

		cols := make([][]float64, len(names))
		for _, c := range t.Columns {
			cols[seen[c.Name]] = c.Data
		}
		for lvl := 0; lvl < t.NRows(); lvl++ {
			row := levels.AddRow()
			row.AddCell().SetInt64(ps[i].UID())
			for _, data := range cols {
				if data == nil {
					row.AddCell()
					continue
				}
				addFloat(row, data[lvl])
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addFloat(row *xlsx.Row, v float64) {
	cell := row.AddCell()
	if !math.IsNaN(v) {
		cell.SetFloat(v)
	}
}
