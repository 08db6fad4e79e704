package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
	"github.com/ironsheep/hough-tools-mcp/internal/render"
)

// maxRasterScale bounds hough_raster output at 32×32 pixels per cell.
const maxRasterScale = 32

// Limits on client supplied transform sizes. The accumulator is
// maxCells float64 values at most, 128 MiB.
const (
	maxRadiusBins   = 1 << 16
	maxAngleSamples = 1 << 16
	maxCells        = 1 << 24
	maxWorkers      = 256
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "hough_transform").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	text, err := marshalJSON(result)
	if err != nil {
		s.log.Warn("tool result not encodable", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool call", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for optional parameters
//  3. Builds the point set, inline or from a cached image
//  4. Calls the appropriate hough/render/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Point Extraction
	case "image_edge_points":
		return s.handleImageEdgePoints(args)

	// Hough Transform
	case "hough_transform":
		return s.handleHoughTransform(args)
	case "hough_render":
		return s.handleHoughRender(args)
	case "hough_raster":
		return s.handleHoughRaster(args)
	case "hough_chart":
		return s.handleHoughChart(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// marshalJSON converts a tool result to a pretty-printed JSON string.
func marshalJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Point Extraction Handlers ===

// edgeArgs are the edge extraction parameters. Nil pointers take the
// imaging.DefaultEdgeOptions values.
type edgeArgs struct {
	ThresholdLow  *int            `json:"threshold_low"`
	ThresholdHigh *int            `json:"threshold_high"`
	Blur          *float64        `json:"blur"`
	Region        *imaging.Region `json:"region"`
	Center        bool            `json:"center"`
}

func (a edgeArgs) options() imaging.EdgeOptions {
	opts := imaging.DefaultEdgeOptions()
	if a.ThresholdLow != nil {
		opts.ThresholdLow = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		opts.ThresholdHigh = *a.ThresholdHigh
	}
	if a.Blur != nil {
		opts.BlurRadius = *a.Blur
	}
	opts.Region = a.Region
	opts.Center = a.Center
	return opts
}

type imageEdgePointsArgs struct {
	edgeArgs
	Path string `json:"path"`
}

func (s *Server) handleImageEdgePoints(args json.RawMessage) (interface{}, error) {
	var a imageEdgePointsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgePoints(img, a.options())
}

// === Hough Transform Handlers ===

type transformArgs struct {
	edgeArgs
	Path                 string      `json:"path"`
	Points               [][]float64 `json:"points"`
	Weights              []float64   `json:"weights"`
	DiscretizationRadius int         `json:"discretization_radius"`
	DiscretizationAngle  int         `json:"discretization_angle"`
	Workers              int         `json:"workers"`
}

// pointSource returns the weighted point set named by a: inline points or the
// edge pixels of an image.
func (s *Server) pointSource(a transformArgs) ([]hough.Point, []float64, error) {
	switch {
	case a.Path != "" && a.Points != nil:
		return nil, nil, errors.New("specify either points or path, not both")

	case a.Path != "":
		if a.Weights != nil {
			return nil, nil, errors.New("weights cannot be combined with path; edge strengths are used")
		}
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, nil, err
		}
		edges, err := imaging.EdgePoints(img, a.options())
		if err != nil {
			return nil, nil, err
		}
		if edges.Count == 0 {
			return nil, nil, fmt.Errorf("no edge points found in %s: %w", a.Path, hough.ErrEmptyInput)
		}
		return edges.Points, edges.Weights, nil

	case a.Points != nil:
		points := make([]hough.Point, len(a.Points))
		for i, p := range a.Points {
			if len(p) != 2 {
				return nil, nil, fmt.Errorf("%w: point %d has %d coordinates, want 2", hough.ErrInvalidShape, i, len(p))
			}
			points[i] = hough.Point{X: p[0], Y: p[1]}
		}
		return points, a.Weights, nil

	default:
		return nil, nil, errors.New("either points or path is required")
	}
}

// transform runs hough.Transform with the server defaults filling in any
// resolution or worker count left at zero.
func (s *Server) transform(a transformArgs) (*hough.Result, int, error) {
	points, weights, err := s.pointSource(a)
	if err != nil {
		return nil, 0, err
	}

	opts := s.cfg.HoughOptions()
	if a.DiscretizationRadius != 0 {
		opts.DiscretizationRadius = a.DiscretizationRadius
	}
	if a.DiscretizationAngle != 0 {
		opts.DiscretizationAngle = a.DiscretizationAngle
	}
	if a.Workers != 0 {
		opts.Workers = a.Workers
	}
	if err := checkLimits(opts); err != nil {
		return nil, 0, err
	}

	res, err := hough.Transform(points, weights, opts)
	if err != nil {
		return nil, 0, err
	}
	return res, len(points), nil
}

// checkLimits rejects transform sizes the server will not allocate. Values
// below the minimum are left to hough.Options.Validate.
func checkLimits(opts hough.Options) error {
	r, a := opts.DiscretizationRadius, opts.DiscretizationAngle
	switch {
	case r > maxRadiusBins:
		return fmt.Errorf("%w: discretization_radius %d exceeds %d", hough.ErrInvalidResolution, r, maxRadiusBins)
	case a > maxAngleSamples:
		return fmt.Errorf("%w: discretization_angle %d exceeds %d", hough.ErrInvalidResolution, a, maxAngleSamples)
	case r > 0 && a > 0 && r*a > maxCells:
		return fmt.Errorf("%w: %d radius bins × %d angles exceeds %d cells", hough.ErrInvalidResolution, r, a, maxCells)
	case opts.Workers > maxWorkers:
		return fmt.Errorf("workers %d exceeds %d", opts.Workers, maxWorkers)
	}
	return nil
}

// finite reports whether every value in xs is neither NaN nor infinite.
func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

type houghTransformArgs struct {
	transformArgs
	IncludeAccumulator *bool `json:"include_accumulator"`
}

// TransformResult is the hough_transform tool result.
type TransformResult struct {
	Rows        int         `json:"rows"`
	Cols        int         `json:"cols"`
	PointCount  int         `json:"point_count"`
	Total       float64     `json:"total"`
	MaxValue    float64     `json:"max_value"`
	AnglesDeg   []float64   `json:"angles_deg"`
	RadiusEdges []float64   `json:"radius_edges"`
	Accumulator [][]float64 `json:"accumulator,omitempty"`
}

func (s *Server) handleHoughTransform(args json.RawMessage) (interface{}, error) {
	var a houghTransformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res, n, err := s.transform(a.transformArgs)
	if err != nil {
		return nil, err
	}

	if !finite(res.RadiusEdges) || !finite(res.AnglesDeg) {
		return nil, fmt.Errorf("transform of %d points has non-finite radius edges; coordinates overflow float64 when squared", n)
	}

	rows, cols := res.Accumulator.Dims()
	out := &TransformResult{
		Rows:        rows,
		Cols:        cols,
		PointCount:  n,
		Total:       mat.Sum(res.Accumulator),
		MaxValue:    mat.Max(res.Accumulator),
		AnglesDeg:   res.AnglesDeg,
		RadiusEdges: res.RadiusEdges,
	}
	if a.IncludeAccumulator == nil || *a.IncludeAccumulator {
		out.Accumulator = make([][]float64, rows)
		for i := range out.Accumulator {
			out.Accumulator[i] = mat.Row(nil, i, res.Accumulator)
		}
	}
	return out, nil
}

type houghRenderArgs struct {
	transformArgs
	Palette string  `json:"palette"`
	Title   string  `json:"title"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// figureOptions applies the server figure size to unset dimensions.
func (s *Server) figureOptions(a houghRenderArgs) (render.Options, error) {
	if a.Width == 0 {
		a.Width = s.cfg.FigureWidth
	}
	if a.Height == 0 {
		a.Height = s.cfg.FigureHeight
	}
	if a.Width < 0 || a.Height < 0 {
		return render.Options{}, fmt.Errorf("figure size must be positive, got %gx%g", a.Width, a.Height)
	}
	pal, err := render.ParsePalette(a.Palette)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Width:   vg.Length(a.Width) * vg.Inch,
		Height:  vg.Length(a.Height) * vg.Inch,
		Title:   a.Title,
		Palette: pal,
	}, nil
}

func (s *Server) handleHoughRender(args json.RawMessage) (interface{}, error) {
	var a houghRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.figureOptions(a)
	if err != nil {
		return nil, err
	}

	res, _, err := s.transform(a.transformArgs)
	if err != nil {
		return nil, err
	}
	return render.RenderPNG(res, opts)
}

type houghRasterArgs struct {
	transformArgs
	Palette string `json:"palette"`
	Scale   int    `json:"scale"`
}

func (s *Server) handleHoughRaster(args json.RawMessage) (interface{}, error) {
	var a houghRasterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Scale < 1 || a.Scale > maxRasterScale {
		return nil, fmt.Errorf("scale must be between 1 and %d, got %d", maxRasterScale, a.Scale)
	}
	pal, err := render.ParsePalette(a.Palette)
	if err != nil {
		return nil, err
	}

	res, _, err := s.transform(a.transformArgs)
	if err != nil {
		return nil, err
	}
	rows, cols := res.Accumulator.Dims()
	if rows*cols*a.Scale*a.Scale > maxCells {
		return nil, fmt.Errorf("raster of %d×%d cells at scale %d exceeds %d pixels", cols, rows, a.Scale, maxCells)
	}
	return render.RasterPNG(res, pal, a.Scale)
}

func (s *Server) handleHoughChart(args json.RawMessage) (interface{}, error) {
	var a houghRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.figureOptions(a)
	if err != nil {
		return nil, err
	}

	res, _, err := s.transform(a.transformArgs)
	if err != nil {
		return nil, err
	}
	return render.ChartHTML(res, opts)
}
