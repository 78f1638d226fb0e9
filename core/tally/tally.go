// Package tally counts cells whose maximum width crosses fixed thresholds
// and turns the counts into per-dataset statistics.
package tally

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyDataset is returned by Finalize when no cell was analyzed; the
// percentages would be undefined.
var ErrEmptyDataset = errors.New("empty dataset: no cells analyzed")

// Thresholds is an ascending list of width thresholds (micrometers).
type Thresholds []float64

// DefaultThresholds are the reference widths, in micrometers.
var DefaultThresholds = Thresholds{0.95, 1.2, 1.4, 1.6}

// Normalize sorts ts ascending and removes duplicates. Non-finite values are
// rejected.
func Normalize(ts []float64) (Thresholds, error) {
	out := make(Thresholds, 0, len(ts))
	for _, t := range ts {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("threshold %v is not a finite number", t)
		}
		out = append(out, t)
	}
	sort.Float64s(out)
	uniq := out[:0]
	for i, t := range out {
		if i > 0 && t == out[i-1] {
			continue
		}
		uniq = append(uniq, t)
	}
	return uniq, nil
}

// Tally is a running count. The zero value is unusable; use New.
type Tally struct {
	thresholds Thresholds
	n          int
	counts     []int
}

func New(ts Thresholds) *Tally {
	return &Tally{thresholds: ts, counts: make([]int, len(ts))}
}

// Add records one analyzed cell by its maximum width. Crossing is strict:
// maxWidth must exceed the threshold.
func (t *Tally) Add(maxWidth float64) {
	t.n++
	for i, th := range t.thresholds {
		if maxWidth > th {
			t.counts[i]++
		}
	}
}

// Merge folds a partial tally built over the same thresholds into t.
func (t *Tally) Merge(o *Tally) error {
	if len(o.thresholds) != len(t.thresholds) {
		return fmt.Errorf("merge: threshold sets differ (%d vs %d)", len(t.thresholds), len(o.thresholds))
	}
	for i := range t.thresholds {
		if t.thresholds[i] != o.thresholds[i] {
			return fmt.Errorf("merge: threshold %d differs (%v vs %v)", i, t.thresholds[i], o.thresholds[i])
		}
	}
	t.n += o.n
	for i := range t.counts {
		t.counts[i] += o.counts[i]
	}
	return nil
}

// N is the number of cells added so far.
func (t *Tally) N() int { return t.n }

// Crossing is one threshold's result.
type Crossing struct {
	Value   float64
	Count   int
	Percent int // floor(100*Count/SampleSize)
}

// Statistics is the per-dataset output of the core.
type Statistics struct {
	SampleSize int
	Crossings  []Crossing
}

// Finalize derives truncated percentages. Percentages are floored, not
// rounded, to reproduce the reference numbers exactly.
func (t *Tally) Finalize() (Statistics, error) {
	if t.n == 0 {
		return Statistics{}, ErrEmptyDataset
	}
	st := Statistics{SampleSize: t.n, Crossings: make([]Crossing, len(t.thresholds))}
	for i, th := range t.thresholds {
		c := t.counts[i]
		st.Crossings[i] = Crossing{Value: th, Count: c, Percent: 100 * c / t.n}
	}
	return st, nil
}
