// pkg/api/report_v1.go
package api

// DatasetReportV1 is the stable JSON/JSONL schema for one dataset.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type DatasetReportV1 struct {
	Label      string        `json:"label"`
	SourceFile string        `json:"source_file"`
	Rows       int           `json:"rows"`
	Candidates int           `json:"candidates"`
	Sampled    int           `json:"sampled"`
	Rejected   int           `json:"rejected"`
	N          int           `json:"n"`
	Thresholds []ThresholdV1 `json:"thresholds"`
	Summary    *SummaryV1    `json:"summary,omitempty"`
	Profiles   []ProfileV1   `json:"profiles,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// ThresholdV1 is the share of cells whose maximum width exceeds Value.
type ThresholdV1 struct {
	Value   float64 `json:"value"`
	Count   int     `json:"count"`
	Percent int     `json:"percent"` // floor(100*count/n)
}

// SummaryV1 describes the per-cell maximum widths of a dataset.
type SummaryV1 struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ProfileV1 is one cell's width profile.
type ProfileV1 struct {
	Length   []float64 `json:"length"`
	Width    []float64 `json:"width"`
	MaxWidth float64   `json:"max_width"`
}
