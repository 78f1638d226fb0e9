// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
	"slices"

	"meshwidth/core/tally"
)

// EffectiveThreads maps the "0 = all CPUs" convention onto a worker count.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ResolveSeed returns seed unchanged unless it is 0, in which case a fresh
// one is drawn from pick. The bool reports whether the seed was drawn.
func ResolveSeed(seed uint64, pick func() uint64) (uint64, bool) {
	if seed != 0 {
		return seed, false
	}
	s := pick()
	for s == 0 {
		s = pick()
	}
	return s, true
}

// ResolveThresholds normalizes a user-supplied threshold list and returns
// warnings for anything it had to change.
func ResolveThresholds(raw []float64) (tally.Thresholds, []string, error) {
	ts, err := tally.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	if len(ts) == 0 {
		return nil, nil, fmt.Errorf("at least one threshold is required")
	}
	var warns []string
	if len(ts) < len(raw) {
		warns = append(warns, fmt.Sprintf("--thresholds: dropped %d duplicate value(s)", len(raw)-len(ts)))
	}
	if !slices.IsSorted(raw) {
		warns = append(warns, "--thresholds: values reordered ascending")
	}
	if ts[0] <= 0 {
		warns = append(warns, fmt.Sprintf("--thresholds: %g ≤ 0 is crossed by every cell", ts[0]))
	}
	return ts, warns, nil
}

// ComputeKeepProfiles tells aggregation whether per-cell profiles must be
// retained: for --profiles output, for the envelope in pretty text, and
// for --plot.
func ComputeKeepProfiles(profiles, writerNeeds bool, plot string) bool {
	return profiles || writerNeeds || plot != ""
}
