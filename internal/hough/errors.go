package hough

import "errors"

var (
	// ErrEmptyInput is returned when the point set has no points, leaving the
	// maximum radius undefined.
	ErrEmptyInput = errors.New("hough: empty input")

	// ErrShapeMismatch is returned when the weight vector length differs from
	// the number of points.
	ErrShapeMismatch = errors.New("hough: weight count does not match point count")

	// ErrInvalidResolution is returned when a discretization parameter is not
	// positive.
	ErrInvalidResolution = errors.New("hough: invalid resolution")

	// ErrInvalidShape is returned when a matrix of points does not have two
	// columns.
	ErrInvalidShape = errors.New("hough: points matrix must have 2 columns")
)
