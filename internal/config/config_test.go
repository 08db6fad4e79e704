package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, hough.Options{DiscretizationRadius: 1000, DiscretizationAngle: 180, Workers: 1}, cfg.HoughOptions())
}

func TestFromEnv_Empty(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvLogLevel:     "DEBUG",
		EnvRadiusBins:   "2001",
		EnvAngleSamples: "181",
		EnvWorkers:      "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2001, cfg.DiscretizationRadius)
	assert.Equal(t, 181, cfg.DiscretizationAngle)
	assert.Equal(t, 4, cfg.Workers)
}

func TestFromEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hough.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log_level": "warn",
		"discretization_radius": 500,
		"figure_width": 8
	}`), 0o644))

	cfg, err := FromEnv(envMap(map[string]string{
		EnvConfigPath:   path,
		EnvAngleSamples: "90",
	}))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 500, cfg.DiscretizationRadius)
	assert.Equal(t, 90, cfg.DiscretizationAngle)
	assert.Equal(t, 8.0, cfg.FigureWidth)
	assert.Equal(t, 4.0, cfg.FigureHeight)
}

func TestFromEnv_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hough.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"discretization_radius": 500}`), 0o644))

	cfg, err := FromEnv(envMap(map[string]string{
		EnvConfigPath: path,
		EnvRadiusBins: "64",
	}))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.DiscretizationRadius)
}

func TestFromEnv_Errors(t *testing.T) {
	badFile := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badFile, []byte(`{not json`), 0o644))

	zeroFile := filepath.Join(t.TempDir(), "zero.json")
	require.NoError(t, os.WriteFile(zeroFile, []byte(`{"figure_height": 0}`), 0o644))

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{EnvLogLevel: "verbose"}},
		{"non-numeric bins", map[string]string{EnvRadiusBins: "many"}},
		{"zero bins", map[string]string{EnvRadiusBins: "0"}},
		{"negative angles", map[string]string{EnvAngleSamples: "-1"}},
		{"zero workers", map[string]string{EnvWorkers: "0"}},
		{"missing file", map[string]string{EnvConfigPath: "/nonexistent/hough.json"}},
		{"malformed file", map[string]string{EnvConfigPath: badFile}},
		{"zero figure height", map[string]string{EnvConfigPath: zeroFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_InvalidResolutionWraps(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvRadiusBins: "0"}))
	assert.ErrorIs(t, err, hough.ErrInvalidResolution)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" Info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
