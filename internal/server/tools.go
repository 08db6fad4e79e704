package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// edgeProperties are the edge extraction parameters shared by every tool that
// reads points from an image.
func edgeProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold_low": map[string]interface{}{
			"type":        "integer",
			"description": "Low hysteresis threshold on gradient magnitude, 0-255 (default 50)",
			"default":     50,
		},
		"threshold_high": map[string]interface{}{
			"type":        "integer",
			"description": "High hysteresis threshold on gradient magnitude, 0-255 (default 150)",
			"default":     150,
		},
		"blur": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before edge detection; 0 disables (default 1.4)",
			"default":     1.4,
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional rectangle to analyze; x2 and y2 are exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"center": map[string]interface{}{
			"type":        "boolean",
			"description": "Place the origin at the center of the analyzed area with Y up",
		},
	}
}

// transformProperties describes a point source plus the transform
// resolutions. extra is merged on top.
func transformProperties(extra map[string]interface{}) map[string]interface{} {
	props := edgeProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to an image whose edge pixels become the points. Mutually exclusive with points",
	}
	props["points"] = map[string]interface{}{
		"type":        "array",
		"description": "Points as [x, y] pairs. Mutually exclusive with path",
		"items": map[string]interface{}{
			"type":     "array",
			"items":    map[string]interface{}{"type": "number"},
			"minItems": 2,
			"maxItems": 2,
		},
	}
	props["weights"] = map[string]interface{}{
		"type":        "array",
		"description": "Optional weight per point; defaults to 1 for inline points and to edge strength for images",
		"items":       map[string]interface{}{"type": "number"},
	}
	props["discretization_radius"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of radius bins (default from server configuration, 1000). Radius bins × angle samples may not exceed 16777216",
		"minimum":     1,
		"maximum":     maxRadiusBins,
	}
	props["discretization_angle"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of angle samples between -180 and 180 degrees (default from server configuration, 180)",
		"minimum":     1,
		"maximum":     maxAngleSamples,
	}
	props["workers"] = map[string]interface{}{
		"type":        "integer",
		"description": "Goroutines sharing the angle columns (default from server configuration)",
		"minimum":     1,
		"maximum":     maxWorkers,
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func paletteProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Color map: gray, gray_r or a '#lowhex:#highhex' pair (default gray)",
		"default":     "gray",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Point Extraction
		{
			Name:        "image_edge_points",
			Description: "Extract the edge pixels of an image as a weighted point set. Weights are gradient magnitudes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := edgeProperties()
					props["path"] = pathProperty()
					return props
				}(),
				"required": []string{"path"},
			},
		},

		// Hough Transform
		{
			Name: "hough_transform",
			Description: "Compute the Hough transform of a weighted point set. Returns the accumulator " +
				"(rows are radius bins, largest radius first; columns are angles in degrees), the angle samples and the radius bin edges.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": transformProperties(map[string]interface{}{
					"include_accumulator": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the accumulator values in the result (default true)",
						"default":     true,
					},
				}),
			},
		},
		{
			Name:        "hough_render",
			Description: "Compute the Hough transform and render it as an image plot with angle in degrees on the horizontal axis and radius on the vertical axis. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": transformProperties(map[string]interface{}{
					"palette": paletteProperty(),
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional figure title",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Figure width in inches (default from server configuration, 6)",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Figure height in inches (default from server configuration, 4)",
					},
				}),
			},
		},
		{
			Name:        "hough_chart",
			Description: "Compute the Hough transform and return an interactive HTML chart with one marker per non-zero accumulator cell, colored by value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": transformProperties(map[string]interface{}{
					"palette": paletteProperty(),
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional chart title",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Chart width in inches at 96 DPI (default from server configuration, 6)",
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Chart height in inches at 96 DPI (default from server configuration, 4)",
					},
				}),
			},
		},
		{
			Name:        "hough_raster",
			Description: "Compute the Hough transform and return the accumulator as a raw raster with one pixel per cell. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": transformProperties(map[string]interface{}{
					"palette": paletteProperty(),
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels per cell along each axis (default 1)",
						"default":     1,
					},
				}),
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
