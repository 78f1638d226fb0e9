// Package aggregate drives one pass per dataset: read candidates, sample,
// parse, compute width profiles, and fold them into threshold statistics.
// Datasets are independent; one failing never affects another.
package aggregate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"meshwidth/core/mesh"
	"meshwidth/core/meshcsv"
	"meshwidth/core/profile"
	"meshwidth/core/sample"
	"meshwidth/core/tally"
	"meshwidth/internal/pipeline"
)

// SampleOrder decides whether malformed records can occupy sample slots.
type SampleOrder string

const (
	// SampleParsed parses every candidate first and samples among the
	// valid ones, so malformed records never count toward N.
	SampleParsed SampleOrder = "parsed"
	// SampleRaw samples raw candidates first and parses afterwards; a
	// malformed draw shrinks the analyzed sample.
	SampleRaw SampleOrder = "raw"
)

// Config holds the adjustable analysis parameters.
type Config struct {
	Scale      float64
	MaxSample  int
	Thresholds tally.Thresholds
	Order      SampleOrder
	Seed       uint64

	Threads        int // cell workers per dataset (0 = all CPUs)
	DatasetThreads int // datasets in flight (0 = all CPUs)

	KeepProfiles bool // retain per-cell profiles in Result
}

// DefaultConfig mirrors the reference analysis.
func DefaultConfig() Config {
	return Config{
		Scale:      profile.DefaultScale,
		MaxSample:  sample.DefaultSize,
		Thresholds: append(tally.Thresholds(nil), tally.DefaultThresholds...),
		Order:      SampleParsed,
	}
}

// Validate reports the first invalid parameter.
func (c Config) Validate() error {
	if !(c.Scale > 0) {
		return fmt.Errorf("scale must be > 0 (got %v)", c.Scale)
	}
	if c.MaxSample < 1 {
		return fmt.Errorf("sample size must be ≥ 1 (got %d)", c.MaxSample)
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("at least one threshold is required")
	}
	switch c.Order {
	case SampleParsed, SampleRaw:
	default:
		return fmt.Errorf("invalid sample order %q", c.Order)
	}
	if c.Threads < 0 || c.DatasetThreads < 0 {
		return fmt.Errorf("thread counts must be ≥ 0")
	}
	return nil
}

// Dataset is one input file and its presentation label.
type Dataset struct {
	Label string
	Path  string
}

// NewDataset labels path after its file name.
func NewDataset(path string) Dataset {
	return Dataset{Label: meshcsv.Label(path), Path: path}
}

// Summary describes the distribution of per-cell maximum widths.
type Summary struct {
	Mean, Median, StdDev, Min, Max float64
}

// Result is everything one dataset produced. When Err is set, Stats and
// Summary are zero.
type Result struct {
	Dataset
	Index int

	Rows       int // CSV rows read
	Candidates int // rows carrying a mesh field
	Sampled    int // records drawn by the sampler
	Rejected   int // malformed records skipped

	Stats    tally.Statistics
	Summary  Summary
	Profiles []profile.Profile // in sample order; nil unless KeepProfiles

	Err error
}

// Aggregator applies one Config to any number of datasets.
type Aggregator struct {
	cfg Config
}

func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

func (a *Aggregator) Config() Config { return a.cfg }

func (a *Aggregator) threads() int {
	if a.cfg.Threads > 0 {
		return a.cfg.Threads
	}
	return runtime.NumCPU()
}

// Run processes datasets concurrently and returns one Result per dataset
// in input order. Dataset i samples with stream i of the configured seed.
// The error is non-nil only when ctx was cancelled.
func (a *Aggregator) Run(ctx context.Context, datasets []Dataset) ([]Result, error) {
	out := make([]Result, 0, len(datasets))
	err := a.Stream(ctx, datasets, func(r Result) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// Stream is Run with results handed to emit in input order as soon as
// every earlier dataset is done. An emit error cancels the remaining
// datasets and is returned.
func (a *Aggregator) Stream(parent context.Context, datasets []Dataset, emit func(Result) error) error {
	limit := a.cfg.DatasetThreads
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	done := make(chan Result, len(datasets))
	go func() {
		var g errgroup.Group
		g.SetLimit(limit)
		for i, ds := range datasets {
			g.Go(func() error {
				r := a.Dataset(ctx, ds, sample.NewRand(a.cfg.Seed, uint64(i)))
				r.Index = i
				done <- r
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	pending := make(map[int]Result)
	next := 0
	var emitErr error
	for r := range done {
		if emitErr != nil {
			continue
		}
		pending[r.Index] = r
		for {
			nr, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := emit(nr); err != nil {
				emitErr = err
				cancel()
				break
			}
		}
	}
	if emitErr != nil {
		return emitErr
	}
	return parent.Err()
}

// Dataset analyzes one file.
func (a *Aggregator) Dataset(ctx context.Context, ds Dataset, rng *rand.Rand) Result {
	res := Result{Dataset: ds}

	cands, st, err := meshcsv.ReadCandidates(ctx, ds.Path)
	res.Rows, res.Candidates = st.Rows, len(cands)
	if err != nil {
		res.Err = err
		return res
	}

	var profiles []profile.Profile
	switch a.cfg.Order {
	case SampleRaw:
		drawn := sample.Sample(rng, cands, a.cfg.MaxSample)
		res.Sampled = len(drawn)
		profiles, res.Rejected, err = computeProfiles(ctx, a.threads(), drawn, func(raw string) (profile.Profile, error) {
			r, err := mesh.Parse(raw)
			if err != nil {
				return profile.Profile{}, err
			}
			return profile.Compute(r, a.cfg.Scale)
		})
	default:
		var valid []mesh.Record
		valid, res.Rejected, err = a.parseAll(ctx, cands)
		if err != nil {
			break
		}
		drawn := sample.Sample(rng, valid, a.cfg.MaxSample)
		res.Sampled = len(drawn)
		var late int
		profiles, late, err = computeProfiles(ctx, a.threads(), drawn, func(r mesh.Record) (profile.Profile, error) {
			return profile.Compute(r, a.cfg.Scale)
		})
		res.Rejected += late
	}
	if err != nil {
		res.Err = err
		return res
	}

	t := tally.New(a.cfg.Thresholds)
	maxes := make([]float64, len(profiles))
	for i, p := range profiles {
		t.Add(p.MaxWidth)
		maxes[i] = p.MaxWidth
	}
	res.Stats, err = t.Finalize()
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", ds.Label, err)
		return res
	}
	res.Summary = summarize(maxes)
	if a.cfg.KeepProfiles {
		res.Profiles = profiles
	}
	return res
}

// parseAll parses every candidate and keeps, in input order, the records
// that can yield a profile.
func (a *Aggregator) parseAll(ctx context.Context, cands []string) ([]mesh.Record, int, error) {
	recs := make([]mesh.Record, len(cands))
	ok := make([]bool, len(cands))
	rejected := 0
	err := pipeline.Map(ctx, pipeline.Config{Threads: a.threads()}, cands,
		func(raw string) (mesh.Record, error) {
			r, err := mesh.Parse(raw)
			if err == nil && r.Len() < 2 {
				err = profile.ErrDegenerate
			}
			return r, err
		},
		func(r pipeline.Result[mesh.Record]) error {
			if r.Err != nil {
				rejected++
				return nil
			}
			recs[r.Index], ok[r.Index] = r.Value, true
			return nil
		})
	if err != nil {
		return nil, rejected, err
	}
	valid := recs[:0]
	for i, r := range recs {
		if ok[i] {
			valid = append(valid, r)
		}
	}
	return valid, rejected, nil
}

// computeProfiles computes one profile per input and returns the
// successful ones in input order along with the number of failures.
func computeProfiles[In any](ctx context.Context, threads int, in []In, fn func(In) (profile.Profile, error)) ([]profile.Profile, int, error) {
	slots := make([]profile.Profile, len(in))
	ok := make([]bool, len(in))
	failed := 0
	err := pipeline.Map(ctx, pipeline.Config{Threads: threads}, in, fn,
		func(r pipeline.Result[profile.Profile]) error {
			if r.Err != nil {
				failed++
				return nil
			}
			slots[r.Index], ok[r.Index] = r.Value, true
			return nil
		})
	if err != nil {
		return nil, failed, err
	}
	out := slots[:0]
	for i, p := range slots {
		if ok[i] {
			out = append(out, p)
		}
	}
	return out, failed, nil
}

func summarize(maxes []float64) Summary {
	var s Summary
	data := stats.Float64Data(maxes)
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	return s
}
