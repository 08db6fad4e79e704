package hough

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPolar(t *testing.T) {
	p := toPolar([]Point{{X: 3, Y: 4}, {X: -1, Y: 0}, {X: 0, Y: -2}, {X: 0, Y: 0}})

	assert.Empty(t, cmp.Diff([]float64{5, 1, 2, 0}, p.r, cmpopts.EquateApprox(0, 1e-12)))
	assert.Empty(t, cmp.Diff([]float64{math.Atan2(4, 3), math.Pi, -math.Pi / 2, 0}, p.theta, cmpopts.EquateApprox(0, 1e-12)))
}

func TestToPolar_NonFinite(t *testing.T) {
	p := toPolar([]Point{{X: math.Inf(1), Y: 0}, {X: math.NaN(), Y: 1}})

	assert.True(t, math.IsInf(p.r[0], 1))
	assert.True(t, math.IsNaN(p.r[1]))
	assert.True(t, math.IsNaN(p.theta[1]))
}

func TestSampleAngles(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []float64
	}{
		{"single", 1, []float64{-math.Pi}},
		{"endpoints", 2, []float64{-math.Pi, math.Pi}},
		{"three", 3, []float64{-math.Pi, 0, math.Pi}},
		{"five", 5, []float64{-math.Pi, -math.Pi / 2, 0, math.Pi / 2, math.Pi}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleAngles(tt.n)
			assert.Empty(t, cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)))
			assert.Equal(t, -math.Pi, got[0])
			assert.Equal(t, tt.want[len(tt.want)-1], got[len(got)-1])
		})
	}
}

func TestRadiusEdges(t *testing.T) {
	edges := radiusEdges(2, 4)
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, edges)

	edges = radiusEdges(3, 3)
	assert.Empty(t, cmp.Diff([]float64{-3, -1, 1, 3}, edges, cmpopts.EquateApprox(0, 1e-12)))

	edges = radiusEdges(math.NaN(), 2)
	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.True(t, math.IsNaN(e))
	}
}

func TestNewGrid(t *testing.T) {
	g := newGrid([]float64{1, 7, 3}, 2, 3)

	assert.Equal(t, 7.0, g.maxR)
	assert.Equal(t, []float64{-7, 0, 7}, g.edges)
	assert.Len(t, g.angles, 3)
}

func TestBinIndex(t *testing.T) {
	edges := []float64{-2, -1, 0, 1, 2}

	tests := []struct {
		name   string
		v      float64
		want   int
		wantOK bool
	}{
		{"lower boundary", -2, 0, true},
		{"inside first", -1.5, 0, true},
		{"left edge inclusive", -1, 1, true},
		{"zero", 0, 2, true},
		{"just below edge", math.Nextafter(1, 0), 2, true},
		{"edge opens next bin", 1, 3, true},
		{"upper boundary closed", 2, 3, true},
		{"below range", -2.0001, 0, false},
		{"above range", math.Nextafter(2, 3), 0, false},
		{"nan", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := binIndex(edges, tt.v)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBinIndex_MatchesLinearSearch(t *testing.T) {
	edges := radiusEdges(math.Sqrt(5), 2001)

	linear := func(v float64) int {
		last := len(edges) - 2
		for i := 0; i < last; i++ {
			if edges[i] <= v && v < edges[i+1] {
				return i
			}
		}
		return last
	}

	for k := 0; k <= 5000; k++ {
		v := -math.Sqrt(5) + float64(k)*(2*math.Sqrt(5))/5000
		if v > edges[len(edges)-1] {
			v = edges[len(edges)-1]
		}
		got, ok := binIndex(edges, v)
		require.True(t, ok, "v=%v", v)
		require.Equal(t, linear(v), got, "v=%v", v)
	}

	// Every edge opens its own bin.
	for i, e := range edges[:len(edges)-1] {
		got, ok := binIndex(edges, e)
		require.True(t, ok)
		require.Equal(t, i, got)
	}
}

func TestBinIndex_SingleZeroWidthBin(t *testing.T) {
	got, ok := binIndex([]float64{0, 0}, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, got)
}
