// Package server implements the MCP (Model Context Protocol) server that
// exposes quadrilateral detection and rectification as tools.
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
//   - quad_image_info: Load an image and report its metadata
//   - quad_detect_lines: Hough lines, raw and deduplicated
//   - quad_find_corners: Ordered corners plus every intermediate stage
//   - quad_rectify: Warp the quadrilateral to an upright rectangle
//
// Tools that need lines accept them in the "lines" argument; when omitted
// the configured line detector runs on the image.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls, so detecting
// lines, inspecting corners and rectifying the same photograph decodes it
// once. The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000. When a pipeline stage fails, data is an object:
//
//	{"stage": "validate", "kind": "NotQuadrilateral", "count": 3, "detail": "..."}
//
// Other failures carry the Go error string as data.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
