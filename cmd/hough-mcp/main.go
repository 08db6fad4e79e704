package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/render"
	"github.com/ironsheep/hough-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "hough-tools-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "hough-tools-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return nil
		case "--help", "-h", "help":
			printUsage(stdout)
			return nil
		}
	}

	cfg, err := config.FromEnv(getenv)
	if err != nil {
		return err
	}

	// stdout is reserved for the MCP protocol
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	hough.SetLogger(logger.With("component", "hough"))

	if len(args) > 0 && args[0] == "render" {
		return runRender(args[1:], cfg, stderr)
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q (see --help)", args[0])
	}

	logger.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit)
	if Version != "dev" {
		server.Version = Version
	}
	if err := server.New(cfg).Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "hough-tools-mcp - MCP server for Hough transforms of weighted point sets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  hough-tools-mcp [options]          Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  hough-tools-mcp render [flags]     Render the transform of a CSV point file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render flags:")
	fmt.Fprintln(w, "  -in FILE         CSV file with x,y rows (x,y,w with -weights)")
	fmt.Fprintln(w, "  -out FILE        Output path; .html writes an interactive chart, anything else PNG")
	fmt.Fprintln(w, "  -weights         Read a weight from the third column")
	fmt.Fprintln(w, "  -radius N        Radius bins")
	fmt.Fprintln(w, "  -angle N         Angle samples")
	fmt.Fprintln(w, "  -workers N       Worker goroutines")
	fmt.Fprintln(w, "  -palette NAME    gray, gray_r or #lowhex:#highhex")
	fmt.Fprintln(w, "  -title TEXT      Figure title")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  HOUGH_MCP_LOG_LEVEL=debug      Log level (debug, info, warn, error)")
	fmt.Fprintln(w, "  HOUGH_MCP_CONFIG=FILE          JSON configuration file")
	fmt.Fprintln(w, "  HOUGH_MCP_RADIUS_BINS=N        Default radius bins")
	fmt.Fprintln(w, "  HOUGH_MCP_ANGLE_SAMPLES=N      Default angle samples")
	fmt.Fprintln(w, "  HOUGH_MCP_WORKERS=N            Default worker goroutines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func runRender(args []string, cfg config.Config, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		in       = fs.String("in", "", "CSV file with x,y[,w] rows")
		out      = fs.String("out", "", "output path (.html for an interactive chart, otherwise PNG)")
		weighted = fs.Bool("weights", false, "read a weight from the third column")
		radius   = fs.Int("radius", cfg.DiscretizationRadius, "radius bins")
		angle    = fs.Int("angle", cfg.DiscretizationAngle, "angle samples")
		workers  = fs.Int("workers", cfg.Workers, "worker goroutines")
		palette  = fs.String("palette", "gray", "gray, gray_r or #lowhex:#highhex")
		title    = fs.String("title", "", "figure title")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("render: -in and -out are required")
	}

	pal, err := render.ParsePalette(*palette)
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open points: %w", err)
	}
	points, weights, err := readPoints(f, *weighted)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}

	res, err := hough.Transform(points, weights, hough.Options{
		DiscretizationRadius: *radius,
		DiscretizationAngle:  *angle,
		Workers:              *workers,
	})
	if err != nil {
		return err
	}

	opts := render.Options{
		Width:   vg.Length(cfg.FigureWidth) * vg.Inch,
		Height:  vg.Length(cfg.FigureHeight) * vg.Inch,
		Title:   *title,
		Palette: pal,
	}
	// out is only written once rendering has succeeded
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(*out), ".html") {
		_, err = render.RenderHTML(&buf, res, opts)
	} else {
		err = render.Render(&buf, res, opts)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}

	slog.Info("rendered", "points", len(points), "out", *out)
	return nil
}

// readPoints parses x,y rows, or x,y,w rows when weighted. Lines starting
// with # are skipped. Without weighted the returned weights are nil.
func readPoints(r io.Reader, weighted bool) ([]hough.Point, []float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	want := 2
	if weighted {
		want = 3
	}
	cr.FieldsPerRecord = want

	var (
		points  []hough.Point
		weights []float64
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("invalid CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		vals := make([]float64, want)
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: column %d: %w", line, i+1, err)
			}
			vals[i] = v
		}
		points = append(points, hough.Point{X: vals[0], Y: vals[1]})
		if weighted {
			weights = append(weights, vals[2])
		}
	}
	return points, weights, nil
}
