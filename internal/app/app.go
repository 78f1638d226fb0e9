// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"

	"meshwidth/internal/aggregate"
	"meshwidth/internal/appcore"
	"meshwidth/internal/cli"
	"meshwidth/internal/cmdutil"
	"meshwidth/internal/runutil"
	"meshwidth/internal/version"
	"meshwidth/internal/writers"
)

const name = "meshwidth"

// flushOr flushes w and maps the outcome onto an exit code.
func flushOr(w *bufio.Writer, stderr io.Writer, code int) int {
	if e := w.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flushOr(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushOr(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flushOr(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return flushOr(outw, stderr, 0)
	}

	thresholds, warns, err := runutil.ResolveThresholds(opts.Thresholds)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: --thresholds: %v\n", err)
		return 2
	}
	for _, w := range warns {
		cmdutil.Warnf(stderr, opts.Quiet, "%s", w)
	}

	seed, drawn := runutil.ResolveSeed(opts.Seed, rand.Uint64)
	if drawn {
		cmdutil.Infof(stderr, opts.Quiet, "sampling seed %d (pass --seed %d to reproduce)", seed, seed)
	}

	cfg := aggregate.Config{
		Scale:          opts.Scale,
		MaxSample:      opts.SampleSize,
		Thresholds:     thresholds,
		Order:          aggregate.SampleOrder(opts.SampleOrder),
		Seed:           seed,
		Threads:        runutil.EffectiveThreads(opts.Threads),
		DatasetThreads: runutil.EffectiveThreads(opts.DatasetThreads),
	}
	coreOpts := appcore.Options{
		Inputs:        opts.Inputs,
		Config:        cfg,
		Profiles:      opts.Profiles,
		Plot:          opts.Plot,
		Quiet:         opts.Quiet,
		EmptyExitCode: opts.EmptyExitCode,
	}
	writer := appcore.NewReportWriterFactory(opts.Output, opts.Sort, opts.Header, opts.Pretty, thresholds)
	return appcore.Run(parent, stdout, stderr, coreOpts, writer)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
