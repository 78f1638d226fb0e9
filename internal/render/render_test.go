package render

import (
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"meshwidth/core/profile"
	"meshwidth/core/tally"
	"meshwidth/internal/aggregate"
)

func result(label string, peaks ...float64) aggregate.Result {
	r := aggregate.Result{Dataset: aggregate.Dataset{Label: label}}
	t := tally.New(tally.DefaultThresholds)
	for _, pk := range peaks {
		r.Profiles = append(r.Profiles, profile.Profile{Length: []float64{0, 0.5, 1}, Width: []float64{0, pk, 0}, MaxWidth: pk})
		t.Add(pk)
	}
	r.Stats, r.Err = t.Finalize()
	return r
}

func TestChart_SeriesAndAxes(t *testing.T) {
	ch := Chart(result("wt", 0.8, 1.0), DefaultOptions)
	assert.Equal(t, "wt", ch.Title)
	// two cells, the reference line, the annotations
	require.Len(t, ch.Series, 4)
	assert.Equal(t, XMin, ch.XAxis.Range.GetMin())
	assert.Equal(t, XMax, ch.XAxis.Range.GetMax())
	assert.Equal(t, YMax, ch.YAxis.Range.GetMax())

	ann, ok := ch.Series[3].(chart.AnnotationSeries)
	require.True(t, ok)
	require.Len(t, ann.Annotations, 2)
	assert.Equal(t, "n = 2 cells", ann.Annotations[0].Label)
	assert.Equal(t, "50%", ann.Annotations[1].Label)
}

func TestChart_YGrowsForWideCells(t *testing.T) {
	ch := Chart(result("wide", 1.75), DefaultOptions)
	assert.InDelta(t, 1.8, ch.YAxis.Range.GetMax(), 1e-9)
	ticks := ch.YAxis.Ticks
	assert.Equal(t, "1.8", ticks[len(ticks)-1].Label)
}

func TestChart_FailedDataset(t *testing.T) {
	r := result("empty")
	require.True(t, errors.Is(r.Err, tally.ErrEmptyDataset))
	ch := Chart(r, DefaultOptions)
	require.Len(t, ch.Series, 2)
}

func TestFigure_LaysOutPanelsInARow(t *testing.T) {
	opt := Options{PanelWidth: 200, PanelHeight: 260, Gap: 10, Threshold: 0.95}
	fig, err := Figure([]aggregate.Result{result("a", 0.9, 1.1), result("b", 1.3), result("c")}, opt)
	require.NoError(t, err)
	assert.Equal(t, 3*200+2*10, fig.Bounds().Dx())
	assert.Equal(t, 260, fig.Bounds().Dy())
}

func TestFigure_SkipsNonFiniteCells(t *testing.T) {
	r := result("odd", 1.0)
	r.Profiles = append(r.Profiles,
		profile.Profile{Length: []float64{0, 1}, Width: []float64{0, math.Inf(1)}, MaxWidth: math.Inf(1)},
		profile.Profile{Length: []float64{0, 1}, Width: []float64{math.NaN(), math.NaN()}, MaxWidth: math.NaN()},
	)

	ch := Chart(r, DefaultOptions)
	assert.Equal(t, YMax, ch.YAxis.Range.GetMax())
	// one drawable cell, the reference line, the annotations
	require.Len(t, ch.Series, 3)

	done := make(chan error, 1)
	go func() {
		_, err := Figure([]aggregate.Result{r}, Options{PanelWidth: 200, PanelHeight: 260})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Figure did not return")
	}
}

func TestFigure_Empty(t *testing.T) {
	_, err := Figure(nil, DefaultOptions)
	assert.ErrorIs(t, err, ErrNoPanels)
}

func TestWriteFile_PNG(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "fig.png")
	require.NoError(t, WriteFile(fn, []aggregate.Result{result("a", 1.0)}, Options{PanelWidth: 240, PanelHeight: 300}))
	f, err := os.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
}
