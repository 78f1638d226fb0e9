// internal/writers/report.go
package writers

import (
	"io"

	"meshwidth/internal/aggregate"
	"meshwidth/internal/common"
	"meshwidth/internal/output"
	"meshwidth/internal/pretty"
)

// ReportOptions select the format and presentation of dataset reports.
type ReportOptions struct {
	Format     string
	Sort       bool
	Header     bool
	Pretty     bool
	PrettyOpt  pretty.Options
	Thresholds []float64 // column layout for text/xlsx
}

type reportArgs struct {
	ReportOptions
	In <-chan aggregate.Result
}

func drainReports(ch <-chan aggregate.Result, sort bool) []aggregate.Result {
	list := make([]aggregate.Result, 0, 16)
	for r := range ch {
		list = append(list, r)
	}
	if sort {
		common.SortResults(list)
	}
	return list
}

func init() {
	// JSON array
	RegisterReport(output.FormatJSON, func(w io.Writer, payload interface{}) error {
		args := payload.(reportArgs)
		return output.WriteJSON(w, drainReports(args.In, args.Sort))
	})

	// JSONL (stream or buffered+sort)
	RegisterReport(output.FormatJSONL, func(w io.Writer, payload interface{}) error {
		args := payload.(reportArgs)
		pipe, done := StartReportJSONLWriter(w, 16)
		if args.Sort {
			for _, r := range drainReports(args.In, true) {
				pipe <- r
			}
		} else {
			for r := range args.In {
				pipe <- r
			}
		}
		close(pipe)
		return <-done
	})

	// TEXT/TSV (+ optional pretty blocks)
	RegisterReport(output.FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(reportArgs)
		var render func(aggregate.Result) string
		if args.Pretty {
			render = func(r aggregate.Result) string { return pretty.RenderReportWithOptions(r, args.PrettyOpt) }
		}
		if args.Sort {
			return output.WriteText(w, drainReports(args.In, true), args.Thresholds, args.Header, render)
		}
		return output.StreamText(w, args.In, args.Thresholds, args.Header, render)
	})

	// XLSX workbook (always buffered)
	RegisterReport(output.FormatXLSX, func(w io.Writer, payload interface{}) error {
		args := payload.(reportArgs)
		return output.WriteXLSX(w, drainReports(args.In, args.Sort), args.Thresholds)
	})
}

// NeedProfiles reports whether the chosen presentation reads per-cell
// profiles, so aggregation can drop them otherwise.
func (o ReportOptions) NeedProfiles() bool {
	return o.Format == output.FormatText && o.Pretty && o.PrettyOpt.NeedProfiles()
}

// StartReportWriter spins up a writer goroutine. Send results on the
// returned channel, close it, then read the error channel once.
func StartReportWriter(out io.Writer, opt ReportOptions, bufSize int) (chan<- aggregate.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan aggregate.Result, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := WriteReport(opt.Format, out, reportArgs{ReportOptions: opt, In: in})
		// Drain so senders never block on a failed writer.
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
