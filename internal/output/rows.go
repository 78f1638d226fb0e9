// internal/output/rows.go
package output

import (
	"strconv"
	"strings"

	"meshwidth/internal/aggregate"
)

// Column names shared by the TSV and spreadsheet writers. Threshold
// columns are inserted between baseColumns and summaryColumns.
var (
	baseColumns    = []string{"label", "source_file", "candidates", "sampled", "rejected", "n"}
	summaryColumns = []string{"mean_max_width", "median_max_width", "sd_max_width", "min_max_width", "max_max_width", "error"}
)

// ThresholdLabel renders a threshold the way column names show it.
func ThresholdLabel(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Columns returns the header cells for the given thresholds.
func Columns(thresholds []float64) []string {
	cols := append([]string(nil), baseColumns...)
	for _, t := range thresholds {
		l := ThresholdLabel(t)
		cols = append(cols, "count_gt_"+l, "pct_gt_"+l)
	}
	return append(cols, summaryColumns...)
}

// TSVHeader is the header row for text/TSV output.
func TSVHeader(thresholds []float64) string {
	return strings.Join(Columns(thresholds), "\t")
}

// Cells returns the row for r, aligned with Columns(thresholds). Failed
// datasets keep their counts and leave the statistic cells empty.
func Cells(r aggregate.Result, thresholds []float64) []string {
	cells := []string{
		r.Label, r.Path,
		strconv.Itoa(r.Candidates), strconv.Itoa(r.Sampled), strconv.Itoa(r.Rejected),
		strconv.Itoa(r.Stats.SampleSize),
	}
	if r.Err != nil {
		for range thresholds {
			cells = append(cells, "", "")
		}
		return append(cells, "", "", "", "", "", r.Err.Error())
	}
	for _, c := range r.Stats.Crossings {
		cells = append(cells, strconv.Itoa(c.Count), strconv.Itoa(c.Percent))
	}
	s := r.Summary
	return append(cells, fmtWidth(s.Mean), fmtWidth(s.Median), fmtWidth(s.StdDev), fmtWidth(s.Min), fmtWidth(s.Max), "")
}

// FormatRowTSV returns one dataset row (no trailing newline).
func FormatRowTSV(r aggregate.Result, thresholds []float64) string {
	return strings.Join(Cells(r, thresholds), "\t")
}

func fmtWidth(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
