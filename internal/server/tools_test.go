package server

import (
	"encoding/json"
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("%s tool not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_edge_points",
		"hough_transform",
		"hough_render",
		"hough_chart",
		"hough_raster",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Error("InputSchema properties missing or empty")
			}

			// Every tool a client sees must serialize cleanly
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("failed to marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, name := range []string{"image_load", "image_dimensions", "image_edge_points"} {
		t.Run(name, func(t *testing.T) {
			required, ok := toolByName(t, name).InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(required) != 1 || required[0] != "path" {
				t.Errorf("required: got %v, want [path]", required)
			}
		})
	}
}

func TestToolDefinitions_ResolutionLimits(t *testing.T) {
	limits := map[string]int{
		"discretization_radius": maxRadiusBins,
		"discretization_angle":  maxAngleSamples,
		"workers":               maxWorkers,
	}
	for _, name := range []string{"hough_transform", "hough_render", "hough_chart", "hough_raster"} {
		props := toolByName(t, name).InputSchema["properties"].(map[string]interface{})
		for prop, want := range limits {
			schema := props[prop].(map[string]interface{})
			if got, ok := schema["maximum"].(int); !ok || got != want {
				t.Errorf("%s.%s: maximum %v, want %d", name, prop, schema["maximum"], want)
			}
		}
	}
}

func TestToolDefinitions_HoughInputs(t *testing.T) {
	common := []string{
		"points", "weights", "path",
		"discretization_radius", "discretization_angle", "workers",
		"threshold_low", "threshold_high", "blur", "region", "center",
	}
	extra := map[string][]string{
		"hough_transform": {"include_accumulator"},
		"hough_render":    {"palette", "title", "width", "height"},
		"hough_chart":     {"palette", "title", "width", "height"},
		"hough_raster":    {"palette", "scale"},
	}

	for name, more := range extra {
		t.Run(name, func(t *testing.T) {
			tool := toolByName(t, name)
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, p := range append(append([]string{}, common...), more...) {
				if _, ok := props[p]; !ok {
					t.Errorf("missing property %s", p)
				}
			}
			// points and path are alternatives, so neither is required
			if _, ok := tool.InputSchema["required"]; ok {
				t.Error("hough tools should not declare required properties")
			}
		})
	}
}

func TestToolDefinitions_IndependentSchemas(t *testing.T) {
	// Each tool gets its own property map
	render := toolByName(t, "hough_render").InputSchema["properties"].(map[string]interface{})
	transform := toolByName(t, "hough_transform").InputSchema["properties"].(map[string]interface{})

	if _, ok := transform["palette"]; ok {
		t.Error("hough_transform should not have a palette property")
	}
	if _, ok := render["include_accumulator"]; ok {
		t.Error("hough_render should not have include_accumulator")
	}
}
