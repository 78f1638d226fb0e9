package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSample_AllWhenKAtLeastN(t *testing.T) {
	items := ints(40)
	for _, k := range []int{40, 41, 150} {
		got := Sample(NewRand(1, 1), items, k)
		assert.Equal(t, items, got, "k=%d", k)
	}
	assert.Empty(t, Sample(NewRand(1, 1), []int{}, 150))
}

func TestSample_DistinctAndBounded(t *testing.T) {
	items := ints(500)
	got := Sample(NewRand(3, 9), items, 150)
	require.Len(t, got, 150)
	seen := map[int]bool{}
	for _, v := range got {
		require.False(t, seen[v], "duplicate %d", v)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 500)
		seen[v] = true
	}
	// input untouched
	assert.Equal(t, ints(500), items)
}

func TestSample_Reproducible(t *testing.T) {
	items := ints(300)
	a := Sample(NewRand(42, 0), items, 20)
	b := Sample(NewRand(42, 0), items, 20)
	c := Sample(NewRand(42, 1), items, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

// Every item should be drawn with frequency k/n. With 20000 trials of 3 out
// of 10 the expected count per item is 6000; a chi-square statistic over 10
// cells stays well below 40 for a fair sampler.
func TestSample_UniformFrequency(t *testing.T) {
	const (
		n      = 10
		k      = 3
		trials = 20000
	)
	items := ints(n)
	rng := NewRand(2024, 11)
	counts := make([]int, n)
	for i := 0; i < trials; i++ {
		for _, v := range Sample(rng, items, k) {
			counts[v]++
		}
	}
	expected := float64(trials*k) / n
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	assert.Less(t, chi2, 40.0, "counts=%v", counts)
}

func TestSample_NegativeK(t *testing.T) {
	assert.Empty(t, Sample(NewRand(1, 1), ints(5), -3))
}
