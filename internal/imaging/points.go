package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// Region is a rectangle in image pixel coordinates; (X1,Y1) inclusive,
// (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// EdgeOptions controls edge point extraction.
type EdgeOptions struct {
	// ThresholdLow and ThresholdHigh are the hysteresis thresholds on the
	// gradient magnitude, 0-255. Pixels above ThresholdHigh are always edges;
	// pixels above ThresholdLow are edges when next to one above ThresholdHigh.
	ThresholdLow  int
	ThresholdHigh int

	// BlurRadius is the Gaussian blur radius applied before the gradient.
	// Zero disables blurring.
	BlurRadius float64

	// Region restricts extraction to part of the image. nil means the whole
	// image.
	Region *Region

	// Center moves the origin to the center of the analyzed area with Y
	// pointing up. Otherwise points use image pixel coordinates.
	Center bool
}

// DefaultEdgeOptions returns thresholds 50/150 and a 1.4 pixel blur.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		ThresholdLow:  50,
		ThresholdHigh: 150,
		BlurRadius:    1.4,
	}
}

// EdgePointsResult is a weighted point set ready for hough.Transform.
type EdgePointsResult struct {
	Points  []hough.Point `json:"points"`
	Weights []float64     `json:"weights"`
	Count   int           `json:"count"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
}

// EdgePoints extracts the edge pixels of img as a weighted point set. Each
// point's weight is its gradient magnitude, so strong edges dominate the
// Hough accumulator.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - opts: Thresholds, blur, optional region and coordinate frame. Start
//     from DefaultEdgeOptions.
//
// Returns:
//   - *EdgePointsResult: Points and weights index aligned, in row-major pixel
//     order, plus the analyzed width and height. An image without edges gives
//     an empty, non-nil point set.
//   - error: Non-nil if the options are invalid.
//
// # Algorithm
//
//  1. Crop to opts.Region, if set
//  2. Gaussian blur with radius opts.BlurRadius (skipped when zero)
//  3. Grayscale conversion
//  4. Sobel gradient magnitude and direction
//  5. Non-maximum suppression along the gradient direction
//  6. Hysteresis: strong pixels are kept, weak pixels only next to a strong one
//
// # Coordinates
//
// Without opts.Center points are pixel coordinates of img, region offset
// included. With opts.Center the origin sits at the center of the analyzed
// area and Y points up.
//
// # Errors
//
//   - Returns error if ThresholdLow < 0, ThresholdHigh > 255 or low > high
//   - Returns error if the region lies outside the image or is empty
func EdgePoints(img image.Image, opts EdgeOptions) (*EdgePointsResult, error) {
	if opts.ThresholdLow < 0 || opts.ThresholdHigh > 255 || opts.ThresholdLow > opts.ThresholdHigh {
		return nil, fmt.Errorf("invalid thresholds: low %d, high %d (want 0 <= low <= high <= 255)",
			opts.ThresholdLow, opts.ThresholdHigh)
	}

	src, origin, err := regionOf(img, opts.Region)
	if err != nil {
		return nil, err
	}

	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	lum := luminance(effect.Grayscale(src))
	height := len(lum)
	width := 0
	if height > 0 {
		width = len(lum[0])
	}

	mag, dir := sobel(lum, width, height)
	thin := suppressNonMaxima(mag, dir, width, height)
	low := float64(opts.ThresholdLow) / 255.0
	high := float64(opts.ThresholdHigh) / 255.0

	res := &EdgePointsResult{
		Points:  make([]hough.Point, 0),
		Weights: make([]float64, 0),
		Width:   width,
		Height:  height,
	}
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isEdge(thin, x, y, width, height, low, high) {
				continue
			}
			var p hough.Point
			if opts.Center {
				p = hough.Point{X: float64(x) - cx, Y: cy - float64(y)}
			} else {
				p = hough.Point{X: float64(x + origin.X), Y: float64(y + origin.Y)}
			}
			res.Points = append(res.Points, p)
			res.Weights = append(res.Weights, thin[y][x])
		}
	}
	res.Count = len(res.Points)
	return res, nil
}

// regionOf crops img to r and returns the crop with its origin in img
// coordinates.
func regionOf(img image.Image, r *Region) (image.Image, image.Point, error) {
	b := img.Bounds()
	if r == nil {
		return img, b.Min, nil
	}
	if r.X1 < b.Min.X || r.Y1 < b.Min.Y || r.X2 > b.Max.X || r.Y2 > b.Max.Y {
		return nil, image.Point{}, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, image.Point{}, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2)
	return imaging.Crop(img, rect), rect.Min, nil
}

// luminance converts g to intensities in [0, 1], indexed [y][x] from the
// top-left of its bounds.
func luminance(g *image.RGBA) [][]float64 {
	b := g.Bounds()
	out := make([][]float64, b.Dy())
	for y := range out {
		out[y] = make([]float64, b.Dx())
		for x := range out[y] {
			out[y][x] = float64(g.RGBAAt(b.Min.X+x, b.Min.Y+y).R) / 255.0
		}
	}
	return out
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel returns the gradient magnitude and direction of lum. Borders
// replicate the outermost pixels.
func sobel(lum [][]float64, width, height int) (mag, dir [][]float64) {
	mag = make([][]float64, height)
	dir = make([][]float64, height)
	for y := 0; y < height; y++ {
		mag[y] = make([]float64, width)
		dir[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			mag[y][x] = math.Hypot(gx, gy)
			dir[y][x] = math.Atan2(gy, gx)
		}
	}
	return mag, dir
}

// suppressNonMaxima keeps a magnitude only where it is a local maximum across
// the edge. Border pixels are always suppressed.
func suppressNonMaxima(mag, dir [][]float64, width, height int) [][]float64 {
	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			var n1, n2 float64
			switch a := dir[y][x]; {
			case (a >= -math.Pi/8 && a < math.Pi/8) || a >= 7*math.Pi/8 || a < -7*math.Pi/8:
				n1, n2 = mag[y][x-1], mag[y][x+1]
			case (a >= math.Pi/8 && a < 3*math.Pi/8) || (a >= -7*math.Pi/8 && a < -5*math.Pi/8):
				n1, n2 = mag[y-1][x+1], mag[y+1][x-1]
			case (a >= 3*math.Pi/8 && a < 5*math.Pi/8) || (a >= -5*math.Pi/8 && a < -3*math.Pi/8):
				n1, n2 = mag[y-1][x], mag[y+1][x]
			default:
				n1, n2 = mag[y-1][x-1], mag[y+1][x+1]
			}
			if m := mag[y][x]; m >= n1 && m >= n2 {
				out[y][x] = m
			}
		}
	}
	return out
}

// isEdge applies the hysteresis rule to pixel (x, y). A zero magnitude is
// never an edge.
func isEdge(thin [][]float64, x, y, width, height int, low, high float64) bool {
	v := thin[y][x]
	if v <= 0 || v < low {
		return false
	}
	if v >= high {
		return true
	}
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if thin[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] >= high {
				return true
			}
		}
	}
	return false
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
