// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"meshwidth/internal/aggregate"
	"meshwidth/internal/cmdutil"
	"meshwidth/internal/render"
	"meshwidth/internal/runutil"
	"meshwidth/internal/visitors"
	"meshwidth/internal/writers"
)

type Options struct {
	Inputs []string
	Config aggregate.Config

	Profiles bool   // print per-cell profiles
	Plot     string // figure path, "" = none

	Quiet         bool
	EmptyExitCode int
}

type WriterFactory interface {
	NeedProfiles() bool
	Start(out io.Writer, bufSize int) (chan<- aggregate.Result, <-chan error)
}

// Run aggregates every input, streams the reports through wf and renders
// the figure. It returns the process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, o Options, wf WriterFactory) int {
	outw := bufio.NewWriter(stdout)

	cfg := o.Config
	cfg.KeepProfiles = runutil.ComputeKeepProfiles(o.Profiles, wf.NeedProfiles(), o.Plot)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	datasets := make([]aggregate.Dataset, len(o.Inputs))
	for i, p := range o.Inputs {
		datasets[i] = aggregate.NewDataset(p)
	}

	var figure []aggregate.Result
	visit := visitors.Report{
		Warn:         func(format string, a ...any) { cmdutil.Warnf(stderr, o.Quiet, format, a...) },
		KeepProfiles: o.Profiles || wf.NeedProfiles(),
	}
	if o.Plot != "" {
		visit.Collect = &figure
	}

	inCh, writeErr := wf.Start(outw, 4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ok, perr := cmdutil.RunStream[aggregate.Result](
		ctx,
		aggregate.New(cfg),
		datasets,
		visit.Visit,
		func(r aggregate.Result) error {
			select {
			case inCh <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}

	if o.Plot != "" {
		ropt := render.DefaultOptions
		ropt.Threshold = cfg.Thresholds[0]
		if err := render.WriteFile(o.Plot, figure, ropt); err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
	}

	if ok == 0 {
		return o.EmptyExitCode
	}
	return 0
}
