// Package pretty renders a compact ASCII summary block for one dataset:
// threshold bars and, when profiles are available, the mean width
// envelope along normalized cell length.
package pretty

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"meshwidth/core/profile"
	"meshwidth/internal/aggregate"
)

// Options control the ASCII rendering.
type Options struct {
	// Bar width in glyphs for 100%. If <=0, use default (40).
	BarWidth int

	// Draw the mean width envelope (needs profiles).
	ShowEnvelope bool
	// Envelope sample points along length. If <2, use default (25).
	EnvelopeBins int

	// Glyphs
	BarGlyph   string // default "|"
	DotGlyph   string // default "."
	SparkRunes string // low → high, default "▁▂▃▄▅▆▇█"
}

// DefaultOptions is the look used by --pretty.
var DefaultOptions = Options{
	BarWidth:     40,
	ShowEnvelope: true,
	EnvelopeBins: 25,
	BarGlyph:     "|",
	DotGlyph:     ".",
	SparkRunes:   "▁▂▃▄▅▆▇█",
}

const linePrefix = "# "

func (o Options) barWidth() int {
	if o.BarWidth <= 0 {
		return DefaultOptions.BarWidth
	}
	return o.BarWidth
}

func (o Options) bins() int {
	if o.EnvelopeBins < 2 {
		return DefaultOptions.EnvelopeBins
	}
	return o.EnvelopeBins
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// NeedProfiles reports whether rendering with o uses per-cell profiles.
func (o Options) NeedProfiles() bool { return o.ShowEnvelope }

// bar draws pct% of width as glyphs, the rest as dots.
func bar(pct, width int, glyph, dot string) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	fill := pct * width / 100
	return strings.Repeat(glyph, fill) + strings.Repeat(dot, width-fill)
}

// Envelope returns the mean width of profiles at bins evenly spaced
// points of normalized length, from 0 to 1 inclusive.
func Envelope(profiles []profile.Profile, bins int) []float64 {
	if len(profiles) == 0 || bins < 2 {
		return nil
	}
	out := make([]float64, bins)
	at := make([]float64, len(profiles))
	for b := range out {
		u := float64(b) / float64(bins-1)
		for i, p := range profiles {
			at[i] = p.At(u)
		}
		out[b] = stat.Mean(at, nil)
	}
	return out
}

// sparkline maps vs onto runes scaled to [0, max(vs)].
func sparkline(vs []float64, runes string) string {
	rs := []rune(runes)
	if len(vs) == 0 || len(rs) == 0 {
		return ""
	}
	hi := floats.Max(vs)
	var b strings.Builder
	for _, v := range vs {
		i := 0
		if hi > 0 {
			i = int(v / hi * float64(len(rs)-1))
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// RenderReportWithOptions prints the block for one dataset result.
func RenderReportWithOptions(r aggregate.Result, opt Options) string {
	var b strings.Builder
	if r.Err != nil {
		fmt.Fprintf(&b, "%s%s: %v\n#\n", linePrefix, r.Label, r.Err)
		return b.String()
	}

	fmt.Fprintf(&b, "%s%s  n = %d cells", linePrefix, r.Label, r.Stats.SampleSize)
	if r.Rejected > 0 {
		fmt.Fprintf(&b, "  (%d malformed skipped)", r.Rejected)
	}
	b.WriteString("\n")
	s := r.Summary
	fmt.Fprintf(&b, "%smax width  mean %.3f  median %.3f  sd %.3f  range [%.3f, %.3f]\n",
		linePrefix, s.Mean, s.Median, s.StdDev, s.Min, s.Max)

	labels := make([]string, len(r.Stats.Crossings))
	lw := 0
	for i, c := range r.Stats.Crossings {
		labels[i] = fmt.Sprintf("> %g", c.Value)
		lw = max(lw, len(labels[i]))
	}
	glyph, dot := orDefault(opt.BarGlyph, DefaultOptions.BarGlyph), orDefault(opt.DotGlyph, DefaultOptions.DotGlyph)
	for i, c := range r.Stats.Crossings {
		fmt.Fprintf(&b, "%s%-*s  %s %3d%% (%d)\n",
			linePrefix, lw, labels[i], bar(c.Percent, opt.barWidth(), glyph, dot), c.Percent, c.Count)
	}

	if opt.ShowEnvelope && len(r.Profiles) > 0 {
		env := Envelope(r.Profiles, opt.bins())
		fmt.Fprintf(&b, "%sprofile  0 %s 1  peak %.3f\n",
			linePrefix, sparkline(env, orDefault(opt.SparkRunes, DefaultOptions.SparkRunes)), floats.Max(env))
	}

	b.WriteString("#\n")
	return b.String()
}

// RenderReport uses DefaultOptions.
func RenderReport(r aggregate.Result) string {
	return RenderReportWithOptions(r, DefaultOptions)
}
