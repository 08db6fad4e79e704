package hough

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point is a point of the input set in Cartesian coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointsFromMatrix reads an n×2 matrix, one point per row.
func PointsFromMatrix(m mat.Matrix) ([]Point, error) {
	rows, cols := m.Dims()
	if cols != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShape, cols)
	}
	points := make([]Point, rows)
	for i := range points {
		points[i] = Point{X: m.At(i, 0), Y: m.At(i, 1)}
	}
	return points, nil
}

// polar holds the polar form of a point set, index aligned with the input.
type polar struct {
	r     []float64
	theta []float64
}

// toPolar converts points to radius and angle. theta lies in (-π, π].
func toPolar(points []Point) polar {
	p := polar{
		r:     make([]float64, len(points)),
		theta: make([]float64, len(points)),
	}
	for i, pt := range points {
		p.r[i] = math.Sqrt(pt.X*pt.X + pt.Y*pt.Y)
		p.theta[i] = math.Atan2(pt.Y, pt.X)
	}
	return p
}
