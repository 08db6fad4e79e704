// Package server implements the MCP (Model Context Protocol) server for the
// Hough transform tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the transform, its
// renderings and the image point source through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Point Extraction:
//   - image_edge_points: Edge pixels of an image as weighted points
//
// Hough Transform:
//   - hough_transform: Accumulator, angle samples and radius edges
//   - hough_render: Accumulator as a labeled figure (base64 PNG)
//   - hough_chart: Accumulator as an interactive HTML chart
//   - hough_raster: Accumulator as a raw raster (base64 PNG)
//
// The hough tools take either inline points ([[x, y], ...] with optional
// weights) or an image path whose edge pixels become the points. Resolutions
// and worker counts left unset come from the server configuration.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by absolute path and reused across tool calls for the lifetime of the
// server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.FromEnv(os.Getenv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
