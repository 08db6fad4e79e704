package hough

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// accumulator fills one Hough space. Rows follow the radius edges in
// increasing order; the output stage reverses them.
type accumulator struct {
	polar   polar
	weights []float64 // nil means every point weighs 1
	grid    grid
	space   *mat.Dense
}

func newAccumulator(p polar, weights []float64, g grid) *accumulator {
	return &accumulator{
		polar:   p,
		weights: weights,
		grid:    g,
		space:   mat.NewDense(len(g.edges)-1, len(g.angles), nil),
	}
}

// run computes every angle column. With more than one worker the columns are
// split into contiguous blocks; blocks never share a column.
func (a *accumulator) run(workers int) {
	cols := len(a.grid.angles)
	if workers > cols {
		workers = cols
	}
	if workers <= 1 {
		a.columns(0, cols)
		return
	}

	block := (cols + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < cols; lo += block {
		hi := min(lo+block, cols)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			a.columns(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// columns accumulates angle columns [lo, hi).
func (a *accumulator) columns(lo, hi int) {
	rows, _ := a.space.Dims()
	projected := make([]float64, len(a.polar.r))
	hist := make([]float64, rows)
	for j := lo; j < hi; j++ {
		a.project(a.grid.angles[j], projected)
		a.histogram(projected, hist)
		for i, v := range hist {
			a.space.Set(i, j, a.space.At(i, j)+v)
		}
	}
}

// project writes r·cos(phi - theta) for every point into dst.
func (a *accumulator) project(phi float64, dst []float64) {
	for i, r := range a.polar.r {
		dst[i] = math.Cos(phi-a.polar.theta[i]) * r
	}
}

// histogram bins values against the radius edges into dst, which is cleared
// first.
func (a *accumulator) histogram(values, dst []float64) {
	clear(dst)
	for k, v := range values {
		i, ok := binIndex(a.grid.edges, v)
		if !ok {
			continue
		}
		w := 1.0
		if a.weights != nil {
			w = a.weights[k]
		}
		dst[i] += w
	}
}
