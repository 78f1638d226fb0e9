package mesh

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PackedField(t *testing.T) {
	raw := "[ '1 2 3 ; 4 5 6 ; 7 8 9 ; 10 11 12' ]"
	r, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, r.X1)
	assert.Equal(t, []float64{4, 5, 6}, r.Y1)
	assert.Equal(t, []float64{7, 8, 9}, r.X2)
	assert.Equal(t, []float64{10, 11, 12}, r.Y2)
	assert.Equal(t, 3, r.Len())
}

func TestParse_CollapsesRepeatedWhitespace(t *testing.T) {
	r, err := Parse("['  1.5   2.5 ;\t3 4;5   6 ;7 8  ']")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, r.X1)
	assert.Equal(t, []float64{7, 8}, r.Y2)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"too few segments":  "[ '1 2 ; 3 4 ; 5 6' ]",
		"bad token":         "[ '1 x ; 3 4 ; 5 6 ; 7 8' ]",
		"length mismatch":   "[ '1 2 3 ; 3 4 ; 5 6 ; 7 8' ]",
		"inf token":         "[ '0 0 ; 0 0 ; 0 inf ; 0 4' ]",
		"negative infinity": "[ '0 0 ; 0 -Infinity ; 0 1 ; 0 4' ]",
		"nan token":         "[ 'nan nan ; nan nan ; 0 1 ; 0 4' ]",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "want ErrMalformed, got %v", err)
		})
	}
}

func TestParse_ExtraSegmentsIgnored(t *testing.T) {
	r, err := Parse("[ '1 2 ; 3 4 ; 5 6 ; 7 8 ; junk' ]")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestCandidate_RowShape(t *testing.T) {
	mesh := "[ '1 2 ; 3 4 ; 5 6 ; 7 8' ]"
	_, ok := Candidate([]string{"a", "b", "c", "d", "e", "f"})
	assert.False(t, ok, "6 columns is too short")

	_, ok = Candidate([]string{"", "", "", "", "", "", "[ '1;2' ]"})
	assert.False(t, ok, "field under 10 chars")

	got, ok := Candidate([]string{"", "", "", "", "", "", mesh, "extra"})
	require.True(t, ok)
	assert.Equal(t, mesh, got)
}

func TestFormat_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.IntN(40)
		r := Record{X1: make([]float64, n), Y1: make([]float64, n), X2: make([]float64, n), Y2: make([]float64, n)}
		for i := 0; i < n; i++ {
			r.X1[i] = rng.Float64()*200 - 100
			r.Y1[i] = rng.Float64()*200 - 100
			r.X2[i] = rng.Float64()*200 - 100
			r.Y2[i] = rng.Float64()*200 - 100
		}
		back, err := Parse(Format(r))
		require.NoError(t, err)
		assert.Equal(t, r, back)
	}
}
