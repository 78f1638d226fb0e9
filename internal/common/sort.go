// internal/common/sort.go
package common

import (
	"sort"

	"meshwidth/internal/aggregate"
)

// LessResult defines a stable order for dataset results (for --sort).
func LessResult(a, b aggregate.Result) bool {
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.Path < b.Path
}

func SortResults(rs []aggregate.Result) {
	sort.SliceStable(rs, func(i, j int) bool { return LessResult(rs[i], rs[j]) })
}
