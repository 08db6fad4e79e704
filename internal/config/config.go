// Package config loads server settings from defaults, an optional JSON file
// and environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath   = "HOUGH_MCP_CONFIG"
	EnvLogLevel     = "HOUGH_MCP_LOG_LEVEL"
	EnvRadiusBins   = "HOUGH_MCP_RADIUS_BINS"
	EnvAngleSamples = "HOUGH_MCP_ANGLE_SAMPLES"
	EnvWorkers      = "HOUGH_MCP_WORKERS"
)

// Config holds the server settings.
type Config struct {
	LogLevel slog.Level

	// Defaults used when a tool call leaves a resolution unset.
	DiscretizationRadius int
	DiscretizationAngle  int
	Workers              int

	// Figure size in inches for hough_render.
	FigureWidth  float64
	FigureHeight float64
}

// fileConfig is the JSON file schema. Nil fields keep the current value.
type fileConfig struct {
	LogLevel             *string  `json:"log_level,omitempty"`
	DiscretizationRadius *int     `json:"discretization_radius,omitempty"`
	DiscretizationAngle  *int     `json:"discretization_angle,omitempty"`
	Workers              *int     `json:"workers,omitempty"`
	FigureWidth          *float64 `json:"figure_width,omitempty"`
	FigureHeight         *float64 `json:"figure_height,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:             slog.LevelInfo,
		DiscretizationRadius: hough.DefaultDiscretizationRadius,
		DiscretizationAngle:  hough.DefaultDiscretizationAngle,
		Workers:              1,
		FigureWidth:          6,
		FigureHeight:         4,
	}
}

// HoughOptions returns the transform defaults as hough.Options.
func (c Config) HoughOptions() hough.Options {
	return hough.Options{
		DiscretizationRadius: c.DiscretizationRadius,
		DiscretizationAngle:  c.DiscretizationAngle,
		Workers:              c.Workers,
	}
}

// Validate checks that every numeric setting is usable.
func (c Config) Validate() error {
	if err := c.HoughOptions().Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", c.FigureWidth, c.FigureHeight)
	}
	return nil
}

// FromEnv builds a Config from the defaults, the JSON file named by
// HOUGH_MCP_CONFIG and the remaining HOUGH_MCP_* variables. getenv is usually
// os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigPath); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if v := getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{EnvRadiusBins, &cfg.DiscretizationRadius},
		{EnvAngleSamples, &cfg.DiscretizationAngle},
		{EnvWorkers, &cfg.Workers},
	} {
		v := getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.LogLevel != nil {
		level, err := ParseLevel(*fc.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	if fc.DiscretizationRadius != nil {
		c.DiscretizationRadius = *fc.DiscretizationRadius
	}
	if fc.DiscretizationAngle != nil {
		c.DiscretizationAngle = *fc.DiscretizationAngle
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.FigureWidth != nil {
		c.FigureWidth = *fc.FigureWidth
	}
	if fc.FigureHeight != nil {
		c.FigureHeight = *fc.FigureHeight
	}
	return nil
}

// ParseLevel accepts debug, info, warn or error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
