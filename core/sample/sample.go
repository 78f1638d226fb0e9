// core/sample/sample.go
package sample

import "math/rand/v2"

// DefaultSize caps how many cells of a dataset are analyzed.
const DefaultSize = 150

// NewRand returns a PCG-backed generator. The same (seed, stream) always
// yields the same sequence, so datasets sampled with distinct streams are
// reproducible independently of each other.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Sample returns min(k, len(items)) items chosen uniformly without
// replacement. When every item fits, all of them are returned in their
// original order. items is never modified.
func Sample[T any](rng *rand.Rand, items []T, k int) []T {
	n := len(items)
	if k < 0 {
		k = 0
	}
	if k >= n {
		return append([]T(nil), items...)
	}

	// Partial Fisher-Yates over an index permutation: after step i,
	// idx[:i+1] is a uniform (i+1)-subset in uniform order.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]T, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = items[idx[i]]
	}
	return out
}
