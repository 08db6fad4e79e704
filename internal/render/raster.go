package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// RasterResult contains the accumulator raster encoded as base64 PNG.
type RasterResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Raster paints m with one pixel per cell, row 0 at the top. Values are
// normalized between the finite minimum and maximum of m; a constant matrix
// paints every pixel with the lowest palette color. m is only read.
func Raster(m mat.Matrix, pal Palette) *image.RGBA {
	rows, cols := m.Dims()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))

	lo, hi := finiteRange(m)
	span := hi - lo
	ramp := pal.rgba()
	top := float64(len(ramp) - 1)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t := 0.0
			if v := m.At(i, j); span > 0 && !math.IsNaN(v) {
				t = math.Max(0, math.Min(1, (v-lo)/span))
			}
			img.SetRGBA(j, i, ramp[int(t*top+0.5)])
		}
	}
	return img
}

// finiteRange returns the smallest and largest finite values of m, or 0, 0
// when there are none.
func finiteRange(m mat.Matrix) (lo, hi float64) {
	rows, cols := m.Dims()
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// RasterPNG encodes the accumulator of res as a PNG raster. scale > 1
// enlarges every cell to scale×scale pixels.
func RasterPNG(res *hough.Result, pal Palette, scale int) (*RasterResult, error) {
	if res == nil || res.Accumulator == nil {
		return nil, ErrNoResult
	}
	var img image.Image = Raster(res.Accumulator, pal)
	if scale > 1 {
		b := img.Bounds()
		img = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode raster: %w", err)
	}

	return &RasterResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
