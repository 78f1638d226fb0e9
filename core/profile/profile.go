// Package profile turns paired boundary points into a width profile along
// normalized cell length. Length is index-based (i/(n-1)), not arc length.
package profile

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"meshwidth/core/mesh"
)

// DefaultScale converts raw mesh units to micrometers.
const DefaultScale = 13.5135

var (
	// ErrDegenerate is returned for records with fewer than two positions.
	// It also matches mesh.ErrMalformed.
	ErrDegenerate = fmt.Errorf("%w: fewer than 2 positions", mesh.ErrMalformed)
	ErrScale      = errors.New("scale must be a positive number")
	// ErrNonFinite is returned when a width is NaN or infinite, which
	// happens for hand-built records or coordinates large enough to
	// overflow. It also matches mesh.ErrMalformed.
	ErrNonFinite  = fmt.Errorf("%w: non-finite width", mesh.ErrMalformed)
)

// Profile is one cell's width profile. Width values are already divided
// by the scale.
type Profile struct {
	Length   []float64
	Width    []float64
	MaxWidth float64
}

// Len is the number of points in the profile.
func (p Profile) Len() int { return len(p.Length) }

// Width is the Euclidean distance between two paired boundary points.
func Width(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// Compute builds the profile of r.
func Compute(r mesh.Record, scale float64) (Profile, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return Profile{}, fmt.Errorf("%w: %v", ErrScale, scale)
	}
	if err := r.Validate(); err != nil {
		return Profile{}, err
	}
	n := r.Len()
	if n < 2 {
		return Profile{}, ErrDegenerate
	}

	p := Profile{
		Length: make([]float64, n),
		Width:  make([]float64, n),
	}
	last := float64(n - 1)
	for i := 0; i < n; i++ {
		p.Length[i] = float64(i) / last
		w := Width(r.X1[i], r.Y1[i], r.X2[i], r.Y2[i]) / scale
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return Profile{}, fmt.Errorf("%w at position %d", ErrNonFinite, i)
		}
		p.Width[i] = w
	}
	p.MaxWidth = floats.Max(p.Width)
	return p, nil
}

// At returns the width at normalized length u, interpolating linearly
// between neighbouring points. u is clamped to [0, 1] and NaN counts as 0;
// an empty profile yields 0.
func (p Profile) At(u float64) float64 {
	n := p.Len()
	switch {
	case n == 0:
		return 0
	case n == 1 || u <= 0 || math.IsNaN(u):
		return p.Width[0]
	case u >= 1:
		return p.Width[n-1]
	}
	pos := u * float64(n-1)
	i := int(pos)
	frac := pos - float64(i)
	if i >= n-1 {
		return p.Width[n-1]
	}
	return p.Width[i] + frac*(p.Width[i+1]-p.Width[i])
}
