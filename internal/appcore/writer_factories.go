package appcore

import (
	"io"

	"meshwidth/internal/aggregate"
	"meshwidth/internal/pretty"
	"meshwidth/internal/writers"
)

// ReportWriterFactory starts the report writer for one run.
type ReportWriterFactory struct {
	Opt writers.ReportOptions
}

func NewReportWriterFactory(format string, sort, header, prettyMode bool, thresholds []float64) ReportWriterFactory {
	return ReportWriterFactory{Opt: writers.ReportOptions{
		Format:     format,
		Sort:       sort,
		Header:     header,
		Pretty:     prettyMode,
		PrettyOpt:  pretty.DefaultOptions,
		Thresholds: thresholds,
	}}
}

func (w ReportWriterFactory) NeedProfiles() bool { return w.Opt.NeedProfiles() }

func (w ReportWriterFactory) Start(out io.Writer, bufSize int) (chan<- aggregate.Result, <-chan error) {
	return writers.StartReportWriter(out, w.Opt, bufSize)
}
