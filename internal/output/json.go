// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"meshwidth/internal/aggregate"
	"meshwidth/pkg/api"
)

// ToAPIReport converts a dataset result to the stable wire schema (v1).
func ToAPIReport(r aggregate.Result) api.DatasetReportV1 {
	v := api.DatasetReportV1{
		Label:      r.Label,
		SourceFile: r.Path,
		Rows:       r.Rows,
		Candidates: r.Candidates,
		Sampled:    r.Sampled,
		Rejected:   r.Rejected,
		N:          r.Stats.SampleSize,
		Thresholds: []api.ThresholdV1{},
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
		return v
	}
	for _, c := range r.Stats.Crossings {
		v.Thresholds = append(v.Thresholds, api.ThresholdV1{Value: c.Value, Count: c.Count, Percent: c.Percent})
	}
	s := r.Summary
	v.Summary = &api.SummaryV1{Mean: s.Mean, Median: s.Median, StdDev: s.StdDev, Min: s.Min, Max: s.Max}
	for _, p := range r.Profiles {
		v.Profiles = append(v.Profiles, api.ProfileV1{
			Length:   append([]float64(nil), p.Length...),
			Width:    append([]float64(nil), p.Width...),
			MaxWidth: p.MaxWidth,
		})
	}
	return v
}

func toAPIReports(list []aggregate.Result) []api.DatasetReportV1 {
	out := make([]api.DatasetReportV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIReport(r))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 reports (pretty-indented).
func WriteJSON(w io.Writer, list []aggregate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toAPIReports(list))
}
