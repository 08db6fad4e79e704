package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// ChartResult contains an interactive HTML chart of an accumulator.
type ChartResult struct {
	// Cells is the number of non-zero accumulator cells plotted.
	Cells    int    `json:"cells"`
	HTML     string `json:"html"`
	MimeType string `json:"mime_type"`
}

// RenderHTML writes res as a self-contained HTML page with one marker per
// non-zero finite accumulator cell, placed at (angle, radius bin center) and
// colored by value. It returns the number of markers. res is only read.
func RenderHTML(w io.Writer, res *hough.Result, o Options) (int, error) {
	ext, err := extentOf(res)
	if err != nil {
		return 0, err
	}

	rows, cols := res.Accumulator.Dims()
	data := make([]opts.ScatterData, 0)
	for i := 0; i < rows; i++ {
		// row 0 holds the largest radius bin
		b := rows - 1 - i
		r := (res.RadiusEdges[b] + res.RadiusEdges[b+1]) / 2
		for j := 0; j < cols; j++ {
			v := res.Accumulator.At(i, j)
			if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			data = append(data, opts.ScatterData{Value: []interface{}{res.AnglesDeg[j], r, v}})
		}
	}
	lo, hi := finiteRange(res.Accumulator)

	title := o.Title
	if title == "" {
		title = "Hough transform"
	}
	const dpi = 96
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%dpx", int(o.Width.Dots(dpi))),
			Height:    fmt.Sprintf("%dpx", int(o.Height.Dots(dpi))),
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d radius bins × %d angles, %d cells", rows, cols, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: ext.xmin, Max: ext.xmax, Name: AngleLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: ext.ymin, Max: ext.ymax, Name: RadiusLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{o.Palette.Low.Hex(), o.Palette.High.Hex()}},
		}),
	)
	scatter.AddSeries("accumulator", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	if err := scatter.Render(w); err != nil {
		return 0, fmt.Errorf("failed to render chart: %w", err)
	}
	return len(data), nil
}

// ChartHTML renders res with RenderHTML and returns the page.
func ChartHTML(res *hough.Result, o Options) (*ChartResult, error) {
	var buf bytes.Buffer
	n, err := RenderHTML(&buf, res, o)
	if err != nil {
		return nil, err
	}
	return &ChartResult{
		Cells:    n,
		HTML:     buf.String(),
		MimeType: "text/html",
	}, nil
}
