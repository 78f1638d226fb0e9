package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshwidth/core/mesh"
	"meshwidth/core/sample"
	"meshwidth/core/tally"
)

// cellField packs a cell whose width at each of n positions is widths[i]
// (already in micrometers at scale 1).
func cellField(widths ...float64) string {
	n := len(widths)
	r := mesh.Record{X1: make([]float64, n), Y1: make([]float64, n), X2: make([]float64, n), Y2: make([]float64, n)}
	for i, w := range widths {
		r.X1[i] = float64(i)
		r.X2[i] = float64(i)
		r.Y2[i] = w
	}
	return mesh.Format(r)
}

func writeCSV(t *testing.T, name string, fields ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("cell,frame,a,b,c,d,mesh\n")
	for i, f := range fields {
		fmt.Fprintf(&b, "%d,1,0,0,0,0,\"%s\"\n", i+1, f)
	}
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(b.String()), 0o644))
	return fn
}

func unitConfig() Config {
	c := DefaultConfig()
	c.Scale = 1
	c.Threads = 2
	c.Seed = 1
	return c
}

func TestDataset_MalformedRecordShrinksDenominator(t *testing.T) {
	fn := writeCSV(t, "mixed.csv",
		cellField(0, 1.0, 0),
		"[ '0 1 ; 0 oops ; 0 1 ; 0 1' ]",
		cellField(0, 1.5, 0),
	)
	for _, order := range []SampleOrder{SampleParsed, SampleRaw} {
		c := unitConfig()
		c.Order = order
		res := New(c).Dataset(context.Background(), NewDataset(fn), sample.NewRand(1, 0))
		require.NoError(t, res.Err, "order=%s", order)
		assert.Equal(t, "mixed", res.Label)
		assert.Equal(t, 3, res.Candidates)
		assert.Equal(t, 1, res.Rejected, "order=%s", order)
		assert.Equal(t, 2, res.Stats.SampleSize, "order=%s", order)
		assert.Equal(t, []tally.Crossing{
			{Value: 0.95, Count: 2, Percent: 100},
			{Value: 1.2, Count: 1, Percent: 50},
			{Value: 1.4, Count: 1, Percent: 50},
			{Value: 1.6, Count: 0, Percent: 0},
		}, res.Stats.Crossings)
		assert.InDelta(t, 1.25, res.Summary.Mean, 1e-12)
		assert.Equal(t, 1.0, res.Summary.Min)
		assert.Equal(t, 1.5, res.Summary.Max)
	}
}

func TestDataset_EmptyIsAnError(t *testing.T) {
	short := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(short, []byte("a,b,c\n1,2,3\n"), 0o644))
	allBad := writeCSV(t, "bad.csv", "[ '1 ; 2 ; 3' ]", cellField(0.5))

	for _, fn := range []string{short, allBad} {
		res := New(unitConfig()).Dataset(context.Background(), NewDataset(fn), sample.NewRand(1, 0))
		require.Error(t, res.Err, fn)
		assert.True(t, errors.Is(res.Err, tally.ErrEmptyDataset), "got %v", res.Err)
		assert.Zero(t, res.Stats.SampleSize)
	}
}

func TestDataset_DegenerateCellRejected(t *testing.T) {
	fn := writeCSV(t, "one.csv", cellField(2.0), cellField(0, 2.0, 0))
	res := New(unitConfig()).Dataset(context.Background(), NewDataset(fn), sample.NewRand(1, 0))
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 1, res.Stats.SampleSize)
}

func TestDataset_SampleCap(t *testing.T) {
	fields := make([]string, 200)
	for i := range fields {
		fields[i] = cellField(0, 0.5+float64(i)/100, 0)
	}
	fn := writeCSV(t, "big.csv", fields...)

	c := unitConfig()
	c.KeepProfiles = true
	res := New(c).Dataset(context.Background(), NewDataset(fn), sample.NewRand(9, 0))
	require.NoError(t, res.Err)
	assert.Equal(t, 150, res.Sampled)
	assert.Equal(t, 150, res.Stats.SampleSize)
	assert.Len(t, res.Profiles, 150)

	c.MaxSample = 500
	res = New(c).Dataset(context.Background(), NewDataset(fn), sample.NewRand(9, 0))
	require.NoError(t, res.Err)
	assert.Equal(t, 200, res.Stats.SampleSize)
}

func TestDataset_DeterministicAcrossThreads(t *testing.T) {
	fields := make([]string, 300)
	for i := range fields {
		fields[i] = cellField(0, float64(i%37)/20, float64(i%11)/10, 0)
	}
	fn := writeCSV(t, "det.csv", fields...)

	run := func(threads int) Result {
		c := unitConfig()
		c.Threads = threads
		c.KeepProfiles = true
		return New(c).Dataset(context.Background(), NewDataset(fn), sample.NewRand(77, 3))
	}
	serial, parallel := run(1), run(8)
	require.NoError(t, serial.Err)
	assert.Equal(t, serial.Stats, parallel.Stats)
	assert.Equal(t, serial.Profiles, parallel.Profiles)
}

func TestDataset_ProfilesDroppedUnlessKept(t *testing.T) {
	fn := writeCSV(t, "p.csv", cellField(0, 1, 0))
	res := New(unitConfig()).Dataset(context.Background(), NewDataset(fn), sample.NewRand(1, 0))
	require.NoError(t, res.Err)
	assert.Nil(t, res.Profiles)
}

func TestRun_IsolatesFailures(t *testing.T) {
	good := writeCSV(t, "good.csv", cellField(0, 1.3, 0), cellField(0, 0.7, 0))
	missing := filepath.Join(t.TempDir(), "missing.csv")
	empty := writeCSV(t, "empty.csv")

	c := unitConfig()
	c.DatasetThreads = 2
	results, err := New(c).Run(context.Background(), []Dataset{
		NewDataset(missing), NewDataset(good), NewDataset(empty),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Error(t, results[0].Err)
	assert.Equal(t, 0, results[0].Index)

	require.NoError(t, results[1].Err)
	assert.Equal(t, "good", results[1].Label)
	assert.Equal(t, 2, results[1].Stats.SampleSize)
	assert.Equal(t, 50, results[1].Stats.Crossings[0].Percent)

	assert.True(t, errors.Is(results[2].Err, tally.ErrEmptyDataset))
}

func TestRun_Canceled(t *testing.T) {
	fn := writeCSV(t, "c.csv", cellField(0, 1, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(unitConfig()).Run(ctx, []Dataset{NewDataset(fn)})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Scale = 0 },
		func(c *Config) { c.MaxSample = 0 },
		func(c *Config) { c.Thresholds = nil },
		func(c *Config) { c.Order = "sideways" },
		func(c *Config) { c.Threads = -1 },
	}
	for i, mut := range bad {
		c := DefaultConfig()
		mut(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestStream_InputOrder(t *testing.T) {
	var ds []Dataset
	for i := 0; i < 6; i++ {
		ds = append(ds, NewDataset(writeCSV(t, fmt.Sprintf("d%d.csv", i), cellField(0, float64(i), 0))))
	}
	c := unitConfig()
	c.DatasetThreads = 3
	var got []int
	require.NoError(t, New(c).Stream(context.Background(), ds, func(r Result) error {
		got = append(got, r.Index)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}

func TestStream_EmitErrorStops(t *testing.T) {
	a := writeCSV(t, "a.csv", cellField(0, 1, 0))
	b := writeCSV(t, "b.csv", cellField(0, 1, 0))
	stop := errors.New("stop")
	calls := 0
	err := New(unitConfig()).Stream(context.Background(), []Dataset{NewDataset(a), NewDataset(b)}, func(Result) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
