// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	"meshwidth/internal/cliutil"
	"meshwidth/internal/common"
	"meshwidth/internal/config"
	"meshwidth/internal/output"
)

// Sample orders accepted by --sample-order.
const (
	OrderParsed = "parsed"
	OrderRaw    = "raw"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Inputs  []string
	EnvFile string

	// Analysis
	Scale       float64
	SampleSize  int
	Thresholds  []float64
	Seed        uint64
	SampleOrder string

	// Performance
	Threads        int
	DatasetThreads int

	// Output
	Output        string // text|json|jsonl|xlsx
	Profiles      bool
	Pretty        bool
	Sort          bool
	Header        bool
	Plot          string
	EmptyExitCode int

	// Misc
	Quiet   bool
	Version bool
}

// ConfigError marks failures in .env or MESHWIDTH_* defaults.
type ConfigError struct{ Err error }

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// sliceValue appends each value to a *[]string (for --inputs/-i).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}
func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// floatList parses a comma-separated list, replacing the default on Set.
type floatList struct{ dst *[]float64 }

func (f *floatList) String() string {
	if f.dst == nil {
		return ""
	}
	return config.FormatFloatList(*f.dst)
}
func (f *floatList) Set(v string) error {
	vs, err := config.ParseFloatList(v)
	if err != nil {
		return err
	}
	*f.dst = vs
	return nil
}

// envFileArg finds --env-file before the full parse, since it decides the
// defaults the other flags are registered with.
func envFileArg(argv []string) string {
	for i, a := range argv {
		if a == "--" {
			break
		}
		name, val, hasVal := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "env-file" {
			continue
		}
		if hasVal {
			return val
		}
		if i+1 < len(argv) {
			return argv[i+1]
		}
	}
	return ""
}

// Register wires all flags onto fs with defaults d and returns a pointer to
// the "no-header" bool.
func Register(fs *flag.FlagSet, o *Options, d config.Defaults) *bool {
	// Input
	in := &sliceValue{dst: &o.Inputs}
	fs.Var(in, "inputs", "mesh CSV file(s) (repeatable) or '-'")
	fs.Var(in, "i", "alias of --inputs")
	fs.StringVar(&o.EnvFile, "env-file", "", "read MESHWIDTH_* defaults from this file [.env if present]")

	// Analysis
	fs.Float64Var(&o.Scale, "scale", d.Scale, "mesh units per micrometer")
	fs.IntVar(&o.SampleSize, "sample-size", d.SampleSize, "max cells analyzed per dataset")
	fs.IntVar(&o.SampleSize, "n", d.SampleSize, "alias of --sample-size")
	o.Thresholds = append([]float64(nil), d.Thresholds...)
	fs.Var(&floatList{dst: &o.Thresholds}, "thresholds", "comma-separated width thresholds (µm)")
	fs.Uint64Var(&o.Seed, "seed", d.Seed, "random seed for sampling (0 = random)")
	fs.StringVar(&o.SampleOrder, "sample-order", d.SampleOrder, "sample valid records (parsed) or raw rows (raw)")

	// Performance
	fs.IntVar(&o.Threads, "threads", d.Threads, "cell workers per dataset (0=all CPUs)")
	fs.IntVar(&o.Threads, "t", d.Threads, "alias of --threads")
	fs.IntVar(&o.DatasetThreads, "dataset-threads", 0, "datasets processed at once (0=all CPUs)")

	// Output
	fs.StringVar(&o.Output, "output", output.FormatText, "output: "+strings.Join(output.Formats, " | "))
	fs.StringVar(&o.Output, "o", output.FormatText, "alias of --output")
	fs.BoolVar(&o.Profiles, "profiles", false, "include per-cell width profiles (json/jsonl/xlsx)")
	fs.BoolVar(&o.Pretty, "pretty", false, "pretty ASCII summary block (text)")
	fs.BoolVar(&o.Sort, "sort", false, "sort datasets by label")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line")
	fs.StringVar(&o.Plot, "plot", "", "write the width profile figure to this image file")
	fs.IntVar(&o.EmptyExitCode, "empty-exit-code", 1, "exit code when no dataset produced statistics")

	// Misc
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential warnings")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.Version, "v", false, "print version and exit")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")

	return &noHeader
}

// ParseArgs resolves environment defaults, registers and parses all flags,
// expands positional inputs and validates the result. A *ConfigError is
// returned when the defaults themselves are invalid.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	defs, err := config.Load(envFileArg(argv))
	if err != nil {
		// Still register so that usage can be printed.
		Register(fs, &opt, config.Builtin())
		UsageCommon(fs, fs.Name())
		return opt, &ConfigError{Err: err}
	}
	noHeader := Register(fs, &opt, defs)
	var help bool
	fs.BoolVar(&help, "h", false, "show this help message")
	UsageCommon(fs, fs.Name())

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !*noHeader

	posArgs = append(posArgs, fs.Args()...)
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return opt, err
		}
		opt.Inputs = append(opt.Inputs, exp...)
	}
	opt.Inputs = common.UniquePaths(opt.Inputs)
	return opt, Validate(&opt)
}

// Validate applies the CLI invariants.
func Validate(o *Options) error {
	if len(o.Inputs) == 0 {
		return errors.New("at least one input CSV is required")
	}
	if !(o.Scale > 0) {
		return errors.New("--scale must be > 0")
	}
	if o.SampleSize < 1 {
		return errors.New("--sample-size must be ≥ 1")
	}
	if len(o.Thresholds) == 0 {
		return errors.New("--thresholds needs at least one value")
	}
	switch o.SampleOrder {
	case OrderParsed, OrderRaw:
	default:
		return fmt.Errorf("invalid --sample-order %q", o.SampleOrder)
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.DatasetThreads < 0 {
		return errors.New("--dataset-threads must be ≥ 0")
	}
	if !slices.Contains(output.Formats, o.Output) {
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.Plot != "" {
		if _, err := imaging.FormatFromFilename(o.Plot); err != nil {
			return fmt.Errorf("--plot %s: %v", o.Plot, err)
		}
	}
	if o.EmptyExitCode < 0 || o.EmptyExitCode > 255 {
		return errors.New("--empty-exit-code must be between 0 and 255")
	}
	return nil
}
