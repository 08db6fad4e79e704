package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

const (
	// AngleLabel is the horizontal axis label.
	AngleLabel = "Angle(in deg)"

	// RadiusLabel is the vertical axis label.
	RadiusLabel = "Radius"
)

var (
	// ErrSessionClosed is returned by any Session method called after Close.
	ErrSessionClosed = errors.New("render: session closed")

	// ErrNothingDrawn is returned by Flush before a successful Draw.
	ErrNothingDrawn = errors.New("render: nothing drawn")

	// ErrNoResult is returned when the result or its accumulator is nil.
	ErrNoResult = errors.New("render: no result")

	// ErrInvalidResult is returned when the axes of a result do not match its
	// accumulator or contain non-finite extents.
	ErrInvalidResult = errors.New("render: invalid result")
)

// Options configures a figure.
type Options struct {
	Width   vg.Length
	Height  vg.Length
	Title   string
	Palette Palette
}

// DefaultOptions returns a 6×4 inch grayscale figure.
func DefaultOptions() Options {
	return Options{
		Width:   6 * vg.Inch,
		Height:  4 * vg.Inch,
		Palette: Gray(),
	}
}

// FigureResult contains a rendered figure encoded as base64 PNG.
type FigureResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Session owns the canvas of one figure between Open and Close.
type Session struct {
	opts   Options
	canvas *vgimg.Canvas
	plot   *plot.Plot
}

// Open acquires a canvas of the configured size. The caller must Close the
// session.
func Open(opts Options) (*Session, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid figure size %v×%v", opts.Width, opts.Height)
	}
	return &Session{
		opts:   opts,
		canvas: vgimg.New(opts.Width, opts.Height),
	}, nil
}

// Draw lays out res on the session's figure, replacing anything drawn
// before. res is only read.
func (s *Session) Draw(res *hough.Result) error {
	if s.canvas == nil {
		return ErrSessionClosed
	}
	ext, err := extentOf(res)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = s.opts.Title
	p.X.Label.Text = AngleLabel
	p.Y.Label.Text = RadiusLabel

	img := Raster(res.Accumulator, s.opts.Palette)
	p.Add(plotter.NewImage(img, ext.xmin, ext.ymin, ext.xmax, ext.ymax))
	p.X.Min, p.X.Max = ext.xmin, ext.xmax
	p.Y.Min, p.Y.Max = ext.ymin, ext.ymax

	s.plot = p
	return nil
}

// Flush draws the figure onto the canvas and writes it to w as PNG.
func (s *Session) Flush(w io.Writer) error {
	if s.canvas == nil {
		return ErrSessionClosed
	}
	if s.plot == nil {
		return ErrNothingDrawn
	}
	s.plot.Draw(draw.New(s.canvas))
	if _, err := (vgimg.PngCanvas{Canvas: s.canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}
	return nil
}

// Size returns the canvas size in pixels.
func (s *Session) Size() (width, height int) {
	if s.canvas == nil {
		return 0, 0
	}
	b := s.canvas.Image().Bounds()
	return b.Dx(), b.Dy()
}

// Close releases the canvas. Calling Close more than once is allowed.
func (s *Session) Close() error {
	s.canvas = nil
	s.plot = nil
	return nil
}

// Render draws res as a figure and writes it to w as PNG. The canvas is
// released whether or not rendering succeeds.
func Render(w io.Writer, res *hough.Result, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Draw(res); err != nil {
		return err
	}
	return s.Flush(w)
}

// RenderPNG renders res and returns the figure as base64 PNG.
func RenderPNG(res *hough.Result, opts Options) (*FigureResult, error) {
	s, err := Open(opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Draw(res); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.Flush(&buf); err != nil {
		return nil, err
	}

	width, height := s.Size()
	return &FigureResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

type extent struct {
	xmin, xmax float64
	ymin, ymax float64
}

// extentOf checks res and returns its data extent. A zero-width axis, from a
// single angle sample or points all at the origin, is widened by half a unit
// on each side.
func extentOf(res *hough.Result) (extent, error) {
	if res == nil || res.Accumulator == nil {
		return extent{}, ErrNoResult
	}
	rows, cols := res.Accumulator.Dims()
	if len(res.AnglesDeg) != cols || len(res.RadiusEdges) != rows+1 {
		return extent{}, fmt.Errorf("%w: %d×%d accumulator with %d angles and %d edges",
			ErrInvalidResult, rows, cols, len(res.AnglesDeg), len(res.RadiusEdges))
	}

	e := extent{
		xmin: res.AnglesDeg[0],
		xmax: res.AnglesDeg[cols-1],
		ymin: res.RadiusEdges[0],
		ymax: res.RadiusEdges[rows],
	}
	for _, v := range []float64{e.xmin, e.xmax, e.ymin, e.ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return extent{}, fmt.Errorf("%w: non-finite extent", ErrInvalidResult)
		}
	}
	if e.xmin == e.xmax {
		e.xmin, e.xmax = e.xmin-0.5, e.xmax+0.5
	}
	if e.ymin == e.ymax {
		e.ymin, e.ymax = e.ymin-0.5, e.ymax+0.5
	}
	return e, nil
}
