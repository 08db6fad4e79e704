// Package render draws Hough transform results as images.
//
// Three outputs are provided:
//
//   - A raw raster with one pixel per accumulator cell ([Raster], [RasterPNG]).
//   - A labeled figure ([Session], [Render], [RenderPNG]) with the angle samples
//     on the horizontal axis ("Angle(in deg)") and the radius edges on the
//     vertical axis ("Radius"). The first and last values of each axis give the
//     image extent.
//   - An interactive HTML chart ([RenderHTML], [ChartHTML]) plotting the
//     non-zero cells on the same axes.
//
// Intensity is the accumulated weight, normalized linearly between the matrix
// minimum and maximum and mapped through a [Palette] (grayscale by default).
//
// # Sessions
//
// A figure is produced by an explicit session: [Open] acquires a canvas,
// [Session.Draw] lays out the plot, [Session.Flush] encodes it and
// [Session.Close] releases the canvas. [Render] runs the whole sequence and
// releases the canvas on every exit path. No package level figure state
// exists.
//
// Rendering never modifies the result it draws.
package render
