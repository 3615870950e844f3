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

func linesProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Optional polar lines {rho, theta} to use instead of running the line detector. Coordinates are pixels from the top-left corner.",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"rho":   map[string]interface{}{"type": "number"},
				"theta": map[string]interface{}{"type": "number", "description": "Radians in [0, pi)"},
			},
			"required": []string{"rho", "theta"},
		},
	}
}

// detectorProperties are the line detector overrides shared by every tool
// that may run detection.
func detectorProperties(props map[string]interface{}) map[string]interface{} {
	props["detector"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"hough", "opencv"},
		"description": "Line detector. Defaults to the configured detector",
	}
	props["hough_threshold"] = map[string]interface{}{
		"type":        "integer",
		"description": "Minimum accumulator votes for a line",
	}
	props["max_lines"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum lines to keep, strongest first",
	}
	return props
}

func previewProperties(props map[string]interface{}) map[string]interface{} {
	props["overlay"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return a PNG preview with the result drawn over the image",
		"default":     false,
	}
	props["preview_max"] = map[string]interface{}{
		"type":        "integer",
		"description": "Longest side of the preview in pixels. Default 1024",
		"default":     1024,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "quad_image_info",
			Description: "Load an image file and return its dimensions, format and diagonal. The image stays cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "quad_detect_lines",
			Description: "Detect straight lines in an image with the Hough transform. Returns every line in polar form with its votes, plus the deduplicated set the corner finder would use.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": previewProperties(detectorProperties(map[string]interface{}{
					"path": pathProperty(),
				})),
				"required": []string{"path"},
			},
		},
		{
			Name:        "quad_find_corners",
			Description: "Find the four corners of a document or other quadrilateral. Returns the corners ordered top-left, top-right, bottom-right, bottom-left, every intermediate stage, and edge measurements.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": previewProperties(detectorProperties(map[string]interface{}{
					"path":  pathProperty(),
					"lines": linesProperty(),
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label the corners TL, TR, BR, BL in the preview",
						"default":     false,
					},
				})),
				"required": []string{"path"},
			},
		},
		{
			Name:        "quad_rectify",
			Description: "Find the quadrilateral and warp it to an upright rectangle. Returns the homography and the rectified PNG, or writes it to output_path. Optionally runs OCR on the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectorProperties(map[string]interface{}{
					"path":  pathProperty(),
					"lines": linesProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width in pixels. Defaults to the configured width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Output height in pixels. Defaults to the configured height",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor applied to the rectified image before returning it. Default 1.0",
						"default":     1.0,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Write the rectified image here instead of returning it inline",
					},
					"ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Extract text from the rectified image (requires a Tesseract build)",
						"default":     false,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the configured language",
					},
				}),
				"required": []string{"path"},
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
