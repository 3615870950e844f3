package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"quad_image_info",
		"quad_detect_lines",
		"quad_find_corners",
		"quad_rectify",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
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
			if !ok {
				t.Fatal("InputSchema missing 'properties' map")
			}
			if _, ok := props["path"]; !ok {
				t.Error("every tool takes a path")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) != 1 || required[0] != "path" {
				t.Errorf("required: got %v, want [path]", tool.InputSchema["required"])
			}
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %s is not defined", name)
				}
			}
		})
	}
}

func TestToolDefinitions_LineArguments(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		switch tool.Name {
		case "quad_find_corners", "quad_rectify":
			lines, ok := props["lines"].(map[string]interface{})
			if !ok || lines["type"] != "array" {
				t.Errorf("%s: lines should be an array property", tool.Name)
			}
			fallthrough
		case "quad_detect_lines":
			for _, p := range []string{"detector", "hough_threshold", "max_lines"} {
				if _, ok := props[p]; !ok {
					t.Errorf("%s: missing detector override %s", tool.Name, p)
				}
			}
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := []struct {
		tool, prop string
		want       interface{}
	}{
		{"quad_rectify", "scale", 1.0},
		{"quad_rectify", "ocr", false},
		{"quad_find_corners", "labels", false},
		{"quad_detect_lines", "preview_max", 1024},
	}

	defs := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		defs[tool.Name] = tool
	}
	for _, tt := range tests {
		props := defs[tt.tool].InputSchema["properties"].(map[string]interface{})
		prop, ok := props[tt.prop].(map[string]interface{})
		if !ok {
			t.Errorf("%s.%s: missing", tt.tool, tt.prop)
			continue
		}
		if prop["default"] != tt.want {
			t.Errorf("%s.%s default: got %v, want %v", tt.tool, tt.prop, prop["default"], tt.want)
		}
	}
}

func TestToolStruct_Marshal(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions()[0])
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, ok := decoded["inputSchema"]; !ok {
		t.Error("Tool should marshal its schema as inputSchema")
	}
}
