package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const defaultLevels = 256

// Palette maps normalized intensities in [0, 1] onto a linear RGB ramp
// between two colors.
type Palette struct {
	Low    colorful.Color
	High   colorful.Color
	Levels int // number of distinct colors, at least 2
}

// Gray is the default palette: black for the lowest value, white for the
// highest.
func Gray() Palette {
	return Palette{
		Low:    colorful.Color{R: 0, G: 0, B: 0},
		High:   colorful.Color{R: 1, G: 1, B: 1},
		Levels: defaultLevels,
	}
}

// GrayReversed maps the lowest value to white.
func GrayReversed() Palette {
	p := Gray()
	p.Low, p.High = p.High, p.Low
	return p
}

// ParsePalette accepts "gray", "gray_r" or a "#lowhex:#highhex" pair. An empty
// name is "gray".
func ParsePalette(name string) (Palette, error) {
	switch name {
	case "", "gray", "grey":
		return Gray(), nil
	case "gray_r", "grey_r":
		return GrayReversed(), nil
	}

	low, high, ok := strings.Cut(name, ":")
	if !ok {
		return Palette{}, fmt.Errorf("unknown palette: %s", name)
	}
	lc, err := colorful.Hex(low)
	if err != nil {
		return Palette{}, fmt.Errorf("invalid palette low color %q: %w", low, err)
	}
	hc, err := colorful.Hex(high)
	if err != nil {
		return Palette{}, fmt.Errorf("invalid palette high color %q: %w", high, err)
	}
	return Palette{Low: lc, High: hc, Levels: defaultLevels}, nil
}

// Colors returns the discrete ramp, lowest intensity first. It satisfies
// gonum.org/v1/plot/palette.Palette.
func (p Palette) Colors() []color.Color {
	levels := max(p.Levels, 2)
	cols := make([]color.Color, levels)
	for i := range cols {
		cols[i] = p.blend(float64(i) / float64(levels-1))
	}
	return cols
}

// rgba returns the ramp as 8-bit colors for direct pixel writes.
func (p Palette) rgba() []color.RGBA {
	cols := p.Colors()
	out := make([]color.RGBA, len(cols))
	for i, c := range cols {
		out[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return out
}

func (p Palette) blend(t float64) colorful.Color {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	return p.Low.BlendRgb(p.High, t).Clamped()
}
