// Package render draws width profiles as PNG figures: one panel per
// dataset, panels laid out side by side.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"meshwidth/core/profile"
	"meshwidth/internal/aggregate"
)

// Axis limits of every panel. The y axis grows past YMax when a cell is
// wider.
const (
	XMin = -0.15
	XMax = 1.05
	YMax = 1.6
)

var ErrNoPanels = errors.New("render: no datasets to draw")

// Options control panel size and the highlighted threshold.
type Options struct {
	PanelWidth  int // default 420
	PanelHeight int // default 560
	Gap         int // pixels between panels, default 24

	// Threshold is drawn as a dashed reference line; its percentage is
	// annotated. Zero disables both.
	Threshold float64

	LineAlpha uint8 // per-cell line opacity, default 51 (0.2)
}

// DefaultOptions draws the first default threshold.
var DefaultOptions = Options{
	PanelWidth:  420,
	PanelHeight: 560,
	Gap:         24,
	Threshold:   0.95,
	LineAlpha:   51,
}

var (
	thresholdColor = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	xTicks         = []chart.Tick{{Value: 0, Label: "0"}, {Value: 0.5, Label: "0.5"}, {Value: 1, Label: "1"}}
)

func (o Options) withDefaults() Options {
	if o.PanelWidth <= 0 {
		o.PanelWidth = DefaultOptions.PanelWidth
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = DefaultOptions.PanelHeight
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	if o.LineAlpha == 0 {
		o.LineAlpha = DefaultOptions.LineAlpha
	}
	return o
}

// finite reports whether every width of p can be drawn.
func finite(p profile.Profile) bool {
	for _, w := range p.Width {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return len(p.Length) == len(p.Width)
}

// yLimit is YMax rounded up to cover the widest drawable cell.
func yLimit(r aggregate.Result) float64 {
	top := YMax
	for _, p := range r.Profiles {
		if finite(p) {
			top = math.Max(top, p.MaxWidth)
		}
	}
	if top <= YMax {
		return YMax
	}
	return math.Ceil(top/0.2-1e-6) * 0.2
}

func yTicks(top float64) []chart.Tick {
	var ticks []chart.Tick
	for i := 0; float64(i)*0.2 <= top+1e-9; i++ {
		v := float64(i) * 0.2
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}
	return ticks
}

// thresholdPercent finds the crossing percentage for t, if tallied.
func thresholdPercent(r aggregate.Result, t float64) (int, bool) {
	for _, c := range r.Stats.Crossings {
		if c.Value == t {
			return c.Percent, true
		}
	}
	return 0, false
}

// Chart builds the go-chart description of one dataset panel.
func Chart(r aggregate.Result, opt Options) chart.Chart {
	opt = opt.withDefaults()
	top := yLimit(r)

	cellStyle := chart.Style{StrokeColor: drawing.ColorBlack.WithAlpha(opt.LineAlpha), StrokeWidth: 1}
	series := make([]chart.Series, 0, len(r.Profiles)+2)
	for _, p := range r.Profiles {
		if !finite(p) {
			continue
		}
		series = append(series, chart.ContinuousSeries{XValues: p.Length, YValues: p.Width, Style: cellStyle})
	}
	// The reference line keeps the chart non-empty for failed datasets.
	ref := chart.ContinuousSeries{
		XValues: []float64{XMin, XMax},
		YValues: []float64{opt.Threshold, opt.Threshold},
		Style:   chart.Style{StrokeColor: thresholdColor, StrokeWidth: 2, StrokeDashArray: []float64{6, 4}},
	}
	if opt.Threshold <= 0 {
		ref.Style = chart.Style{Hidden: true}
	}
	series = append(series, ref)

	var notes []chart.Value2
	if r.Err != nil {
		notes = append(notes, chart.Value2{XValue: XMin + 0.02, YValue: top * 0.95, Label: "no cells"})
	} else {
		notes = append(notes, chart.Value2{XValue: XMin + 0.02, YValue: top * 0.95, Label: fmt.Sprintf("n = %d cells", r.Stats.SampleSize)})
		if pct, ok := thresholdPercent(r, opt.Threshold); ok && opt.Threshold > 0 {
			notes = append(notes, chart.Value2{XValue: XMin + 0.02, YValue: opt.Threshold + 0.05*top, Label: fmt.Sprintf("%d%%", pct)})
		}
	}
	series = append(series, chart.AnnotationSeries{Annotations: notes})

	return chart.Chart{
		Title:      r.Label,
		Width:      opt.PanelWidth,
		Height:     opt.PanelHeight,
		Background: chart.Style{FillColor: drawing.ColorWhite, Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "normalized cell length",
			Range: &chart.ContinuousRange{Min: XMin, Max: XMax},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:  "cell width (µm)",
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Ticks: yTicks(top),
		},
		Series: series,
	}
}

// Panel renders one dataset to an image.
func Panel(r aggregate.Result, opt Options) (image.Image, error) {
	ch := Chart(r, opt)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", r.Label, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Label, err)
	}
	return img, nil
}

// Figure renders every dataset and lays the panels out in one row, in
// input order.
func Figure(results []aggregate.Result, opt Options) (*image.NRGBA, error) {
	if len(results) == 0 {
		return nil, ErrNoPanels
	}
	opt = opt.withDefaults()
	w := len(results)*opt.PanelWidth + (len(results)-1)*opt.Gap
	fig := imaging.New(w, opt.PanelHeight, color.White)
	for i, r := range results {
		img, err := Panel(r, opt)
		if err != nil {
			return nil, err
		}
		if b := img.Bounds(); b.Dx() != opt.PanelWidth || b.Dy() != opt.PanelHeight {
			img = imaging.Resize(img, opt.PanelWidth, opt.PanelHeight, imaging.Lanczos)
		}
		fig = imaging.Paste(fig, img, image.Pt(i*(opt.PanelWidth+opt.Gap), 0))
	}
	return fig, nil
}

// WriteFile renders the figure and saves it; the format follows the file
// extension (.png, .jpg, ...).
func WriteFile(path string, results []aggregate.Result, opt Options) error {
	fig, err := Figure(results, opt)
	if err != nil {
		return err
	}
	if err := imaging.Save(fig, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
