package hough

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultDiscretizationRadius is the default number of radius bins.
	DefaultDiscretizationRadius = 1000

	// DefaultDiscretizationAngle is the default number of angle samples.
	DefaultDiscretizationAngle = 180
)

// Options controls the discretization of Hough space.
type Options struct {
	// DiscretizationRadius is the number of radius bins (R). Must be > 0.
	DiscretizationRadius int

	// DiscretizationAngle is the number of angle samples (A). Must be > 0.
	DiscretizationAngle int

	// Workers is the number of goroutines sharing the angle columns.
	// Zero or one runs sequentially.
	Workers int
}

// DefaultOptions returns 1000 radius bins, 180 angle samples and sequential
// accumulation.
func DefaultOptions() Options {
	return Options{
		DiscretizationRadius: DefaultDiscretizationRadius,
		DiscretizationAngle:  DefaultDiscretizationAngle,
	}
}

// Validate reports an error wrapping ErrInvalidResolution when either
// resolution is not positive.
func (o Options) Validate() error {
	if o.DiscretizationRadius <= 0 {
		return fmt.Errorf("%w: discretization radius %d must be positive", ErrInvalidResolution, o.DiscretizationRadius)
	}
	if o.DiscretizationAngle <= 0 {
		return fmt.Errorf("%w: discretization angle %d must be positive", ErrInvalidResolution, o.DiscretizationAngle)
	}
	return nil
}

// Result is the output of a transform.
type Result struct {
	// Accumulator has DiscretizationRadius rows and DiscretizationAngle
	// columns. Row 0 holds the largest radius bin.
	Accumulator *mat.Dense

	// AnglesDeg holds the angle samples in degrees, from -180 to 180.
	AnglesDeg []float64

	// RadiusEdges holds the R+1 radius bin edges in increasing order, in
	// the units of the input points.
	RadiusEdges []float64
}

// Transform computes the Hough transform of points.
//
// weights is optional: nil means every point contributes 1, otherwise it
// must hold one entry per point. Weights are expected to be non-negative but
// are not checked.
//
// # Errors
//
//   - ErrEmptyInput when points is empty
//   - ErrShapeMismatch when weights is non-nil and len(weights) != len(points)
//   - ErrInvalidResolution when a resolution in opts is not positive
//
// Validation completes before any accumulation starts. points and weights
// are never modified.
func Transform(points []Point, weights []float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points to transform", ErrEmptyInput)
	}
	if weights != nil && len(weights) != len(points) {
		return nil, fmt.Errorf("%w: %d weights for %d points", ErrShapeMismatch, len(weights), len(points))
	}

	start := time.Now()
	p := toPolar(points)
	g := newGrid(p.r, opts.DiscretizationRadius, opts.DiscretizationAngle)

	acc := newAccumulator(p, weights, g)
	acc.run(opts.Workers)

	res := &Result{
		Accumulator: ReverseRows(acc.space),
		AnglesDeg:   toDegrees(g.angles),
		RadiusEdges: g.edges,
	}

	Logger().Debug("hough transform",
		"points", len(points),
		"weighted", weights != nil,
		"radius_bins", opts.DiscretizationRadius,
		"angle_samples", opts.DiscretizationAngle,
		"max_radius", g.maxR,
		"workers", max(opts.Workers, 1),
		"elapsed", time.Since(start))

	return res, nil
}

// TransformMatrix is Transform for an n×2 matrix of points.
func TransformMatrix(points mat.Matrix, weights []float64, opts Options) (*Result, error) {
	pts, err := PointsFromMatrix(points)
	if err != nil {
		return nil, err
	}
	return Transform(pts, weights, opts)
}

// ReverseRows returns a new matrix holding the rows of m in reverse order.
// m is not modified and the result shares no storage with it.
func ReverseRows(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, m)
		out.SetRow(rows-1-i, row)
	}
	return out
}

func toDegrees(rad []float64) []float64 {
	deg := make([]float64, len(rad))
	for i, a := range rad {
		deg[i] = a * 180 / math.Pi
	}
	return deg
}
