// internal/output/xlsx.go
package output

import (
	"io"

	"github.com/xuri/excelize/v2"

	"meshwidth/internal/aggregate"
)

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetStatistics = "statistics"
	SheetProfiles   = "profiles"
)

var profileColumns = []string{"label", "cell", "point", "length", "width"}

// WriteXLSX writes a workbook with one statistics row per dataset and,
// when any result carries profiles, a long-format profiles sheet.
func WriteXLSX(w io.Writer, list []aggregate.Result, thresholds []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetStatistics); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := setRow(f, SheetStatistics, 1, stringsToAny(Columns(thresholds))); err != nil {
		return err
	}
	for i, r := range list {
		if err := setRow(f, SheetStatistics, i+2, statisticsRow(r, thresholds)); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(SheetStatistics, 1, 1, bold); err != nil {
		return err
	}

	if hasProfiles(list) {
		if _, err := f.NewSheet(SheetProfiles); err != nil {
			return err
		}
		if err := setRow(f, SheetProfiles, 1, stringsToAny(profileColumns)); err != nil {
			return err
		}
		row := 2
		for _, r := range list {
			for ci, p := range r.Profiles {
				for j := range p.Length {
					if err := setRow(f, SheetProfiles, row, []any{r.Label, ci + 1, j, p.Length[j], p.Width[j]}); err != nil {
						return err
					}
					row++
				}
			}
		}
		if err := f.SetRowStyle(SheetProfiles, 1, 1, bold); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// statisticsRow mirrors Cells but keeps numbers numeric.
func statisticsRow(r aggregate.Result, thresholds []float64) []any {
	row := []any{r.Label, r.Path, r.Candidates, r.Sampled, r.Rejected, r.Stats.SampleSize}
	if r.Err != nil {
		for _, c := range Cells(r, thresholds)[len(baseColumns):] {
			row = append(row, c)
		}
		return row
	}
	for _, c := range r.Stats.Crossings {
		row = append(row, c.Count, c.Percent)
	}
	s := r.Summary
	return append(row, s.Mean, s.Median, s.StdDev, s.Min, s.Max, "")
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func hasProfiles(list []aggregate.Result) bool {
	for _, r := range list {
		if len(r.Profiles) > 0 {
			return true
		}
	}
	return false
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
