// Package hough computes the Hough transform of a weighted 2D point set.
//
// Every point is projected into a discretized (radius, angle) parameter space
// and weighted evidence is accumulated for the lines passing near it. Collinear
// points produce coincident peaks in the accumulator.
//
// # Pipeline
//
// A call to [Transform] runs four stages in strict sequence:
//
//  1. Polar conversion: each point (x, y) becomes (r, theta) with
//     r = sqrt(x² + y²) and theta = atan2(y, x).
//  2. Grid construction: R+1 radius bin edges evenly spaced over
//     [-maxR, maxR] and A angle samples evenly spaced over [-π, π].
//  3. Accumulation: for every angle sample φ the projected radius
//     r·cos(φ - theta) of each point is binned into a weighted histogram that
//     becomes one column of the accumulator.
//  4. Output assembly: the accumulator rows are reversed so radius increases
//     upward when displayed, and the angle samples are reported in degrees.
//
// # Binning
//
// A value v falls in bin i when edges[i] <= v < edges[i+1]. The last bin is
// closed on both ends, so values equal to -maxR or maxR are always counted.
// Values outside the edges, which only happen through floating-point rounding,
// are dropped silently.
//
// # Angle Samples
//
// Angles are sampled, not binned. Both -π and π are sampled when A >= 2, even
// though they describe the same family of lines with negated radius.
//
// # Concurrency
//
// Angle columns are independent. [Options.Workers] above one splits the
// columns into contiguous blocks computed by separate goroutines; the result is
// identical to the sequential one.
//
// # Non-finite Input
//
// Coordinates are not validated. A NaN coordinate propagates into the radius
// edges and no point is counted. An infinite coordinate yields a degenerate
// grid whose counts carry no meaning, though Transform still returns.
package hough
