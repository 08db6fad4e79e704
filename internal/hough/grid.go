package hough

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// grid is the discretization of Hough space for one transform.
type grid struct {
	maxR   float64
	edges  []float64 // radius bin edges, len R+1
	angles []float64 // angle samples in radians, len A
}

// newGrid derives the radius edges from the largest radius and samples the
// angle axis. radii must not be empty.
func newGrid(radii []float64, radiusBins, angleSamples int) grid {
	maxR := radii[0]
	for _, r := range radii[1:] {
		// math.Max keeps NaN so a bad coordinate shows up in the edges
		maxR = math.Max(maxR, r)
	}
	return grid{
		maxR:   maxR,
		edges:  radiusEdges(maxR, radiusBins),
		angles: sampleAngles(angleSamples),
	}
}

// radiusEdges returns bins+1 evenly spaced edges over [-maxR, maxR]. The
// edges are mirrored so edges[i] == -edges[bins-i] holds exactly and the
// outer edges equal ±maxR.
func radiusEdges(maxR float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	if math.IsNaN(maxR) {
		for i := range edges {
			edges[i] = maxR
		}
		return edges
	}
	linspace(edges, -maxR, maxR)
	for i := 0; i <= bins/2; i++ {
		j := bins - i
		if i == j {
			edges[i] = 0
			continue
		}
		edges[j] = -edges[i]
	}
	return edges
}

// sampleAngles returns n angles evenly spaced over [-π, π], endpoints
// included. A single sample is -π.
func sampleAngles(n int) []float64 {
	if n == 1 {
		return []float64{-math.Pi}
	}
	return linspace(make([]float64, n), -math.Pi, math.Pi)
}

// linspace fills dst with evenly spaced values from l to u and pins both
// endpoints. len(dst) must be at least 2.
func linspace(dst []float64, l, u float64) []float64 {
	floats.Span(dst, l, u)
	dst[0] = l
	dst[len(dst)-1] = u
	return dst
}

// binIndex returns the histogram bin of v for uniformly spaced edges. The
// last bin is closed. ok is false for values outside the edges, including NaN.
func binIndex(edges []float64, v float64) (i int, ok bool) {
	bins := len(edges) - 1
	lo, hi := edges[0], edges[bins]
	if !(v >= lo && v <= hi) {
		return 0, false
	}
	if v == hi {
		return bins - 1, true
	}

	// An infinite extent makes the guess NaN, which converts to any int.
	i = int((v - lo) / (hi - lo) * float64(bins))
	if i < 0 {
		i = 0
	} else if i >= bins {
		i = bins - 1
	}
	// The arithmetic guess can be off by one near an edge; the edges decide.
	if v < edges[i] {
		i--
	} else if i+1 < bins && v >= edges[i+1] {
		i++
	}
	return i, true
}
