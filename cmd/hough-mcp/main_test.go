package main

import (
	"bytes"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/render"
)

func noEnv(string) string { return "" }

// restoreLogging undoes the global logger changes run makes.
func restoreLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		hough.SetLogger(nil)
	})
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--version"}, noEnv, &out, &out))
	assert.Contains(t, out.String(), "hough-tools-mcp dev")
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-h"}, noEnv, &out, &out))
	assert.Contains(t, out.String(), "render [flags]")
	assert.Contains(t, out.String(), "HOUGH_MCP_RADIUS_BINS")
}

func TestRun_UnknownCommand(t *testing.T) {
	restoreLogging(t)
	var out bytes.Buffer
	err := run([]string{"transform"}, noEnv, &out, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRun_BadConfig(t *testing.T) {
	var out bytes.Buffer
	env := func(k string) string {
		if k == "HOUGH_MCP_RADIUS_BINS" {
			return "zero"
		}
		return ""
	}
	assert.Error(t, run([]string{"render"}, env, &out, &out))
}

func TestRun_Render(t *testing.T) {
	restoreLogging(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "points.csv")
	out := filepath.Join(dir, "figure.png")
	require.NoError(t, os.WriteFile(in, []byte("# x,y,w\n1,0,1\n0,1,2\n-1,0,1\n0,-1,2\n"), 0o644))

	var stderr bytes.Buffer
	err := run([]string{"render", "-in", in, "-out", out, "-weights", "-radius", "20", "-angle", "36", "-title", "square"},
		noEnv, &stderr, &stderr)
	require.NoError(t, err, stderr.String())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// 6×4 inches at 96 DPI
	assert.Equal(t, 576, img.Bounds().Dx())
	assert.Equal(t, 384, img.Bounds().Dy())
}

func TestRun_RenderHTML(t *testing.T) {
	restoreLogging(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "points.csv")
	out := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(in, []byte("2,1\n2,-1\n2,0\n"), 0o644))

	var stderr bytes.Buffer
	require.NoError(t, run([]string{"render", "-in", in, "-out", out, "-radius", "50", "-angle", "19"}, noEnv, &stderr, &stderr), stderr.String())

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Angle(in deg)")
}

func TestRun_RenderErrors(t *testing.T) {
	restoreLogging(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("1,2\n3,4\n"), 0o644))
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o644))
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
	}{
		{"missing in", []string{"-out", out}},
		{"missing out", []string{"-in", good}},
		{"no such file", []string{"-in", filepath.Join(dir, "nope.csv"), "-out", out}},
		{"empty file", []string{"-in", empty, "-out", out}},
		{"weights column missing", []string{"-in", good, "-out", out, "-weights"}},
		{"bad palette", []string{"-in", good, "-out", out, "-palette", "jet"}},
		{"zero radius", []string{"-in", good, "-out", out, "-radius", "0"}},
		{"unknown flag", []string{"-in", good, "-out", out, "-dpi", "300"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Error(t, run(append([]string{"render"}, tt.args...), noEnv, &stderr, &stderr))
		})
	}
}

func TestRun_RenderFailureLeavesNoFile(t *testing.T) {
	restoreLogging(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "huge.csv")
	require.NoError(t, os.WriteFile(in, []byte("1e200,1e200\n1,1\n"), 0o644))

	for _, name := range []string{"figure.png", "chart.html"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			var stderr bytes.Buffer
			err := run([]string{"render", "-in", in, "-out", out, "-radius", "4", "-angle", "3"}, noEnv, &stderr, &stderr)
			assert.ErrorIs(t, err, render.ErrInvalidResult)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "figure file should not exist")
		})
	}
}

func TestReadPoints(t *testing.T) {
	points, weights, err := readPoints(strings.NewReader("# header\n1, 2\n-3.5,4e1\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []hough.Point{{X: 1, Y: 2}, {X: -3.5, Y: 40}}, points)
	assert.Nil(t, weights)

	points, weights, err = readPoints(strings.NewReader("1,2,0.5\n3,4,2\n"), true)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, []float64{0.5, 2}, weights)
}

func TestReadPoints_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		weighted bool
	}{
		{"three columns unweighted", "1,2,3\n", false},
		{"two columns weighted", "1,2\n", true},
		{"not a number", "1,x\n", false},
		{"ragged", "1,2\n3\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := readPoints(strings.NewReader(tt.input), tt.weighted)
			assert.Error(t, err)
		})
	}
}
