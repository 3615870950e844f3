package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/quad-rectify/internal/detection"
	"github.com/ironsheep/quad-rectify/internal/geometry"
	"github.com/ironsheep/quad-rectify/internal/imaging"
	"github.com/ironsheep/quad-rectify/internal/ocr"
	"github.com/ironsheep/quad-rectify/internal/quad"
)

// defaultPreviewMax bounds the longer side of overlay previews.
const defaultPreviewMax = 1024

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "quad_rectify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Pipeline failures carry {stage, kind, count, detail} in the error data. A
// result that cannot be encoded returns -32603.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolErrorData(err))
	}
	return s.toolResponse(req.ID, result)
}

// toolResponse wraps a tool result in MCP's text content. A result that
// cannot be encoded yields a -32603 internal error.
func (s *Server) toolResponse(id interface{}, result interface{}) *MCPResponse {
	text, err := marshalJSON(result)
	if err != nil {
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "quad_image_info":
		return s.handleImageInfo(args)
	case "quad_detect_lines":
		return s.handleDetectLines(args)
	case "quad_find_corners":
		return s.handleFindCorners(args)
	case "quad_rectify":
		return s.handleRectify(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// StageErrorData is the error data for a failed pipeline stage.
type StageErrorData struct {
	Stage  quad.Stage `json:"stage"`
	Kind   string     `json:"kind"`
	Count  int        `json:"count"`
	Detail string     `json:"detail"`
}

// toolErrorData returns StageErrorData for pipeline failures and the error
// string for everything else.
func toolErrorData(err error) interface{} {
	var se *quad.StageError
	if errors.As(err, &se) {
		return StageErrorData{
			Stage:  se.Stage,
			Kind:   quad.Kind(err),
			Count:  se.Count,
			Detail: se.Detail,
		}
	}
	return err.Error()
}

// marshalJSON converts a value to a pretty-printed JSON string.
func marshalJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// === Shared helpers ===

type imageArgs struct {
	Path string `json:"path"`
}

func (s *Server) loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return s.cache.Load(path)
}

type detectorArgs struct {
	Detector       string `json:"detector"`
	HoughThreshold int    `json:"hough_threshold"`
	MaxLines       int    `json:"max_lines"`
}

// detect runs the configured line detector, with per-call overrides.
func (s *Server) detect(img image.Image, a detectorArgs) ([]detection.Line, error) {
	opts := s.cfg.Detection()
	if a.HoughThreshold > 0 {
		opts.HoughThreshold = a.HoughThreshold
	}
	if a.MaxLines > 0 {
		opts.MaxLines = a.MaxLines
	}
	kind := a.Detector
	if kind == "" {
		kind = s.cfg.GetLineDetector()
	}
	d, err := detection.New(kind, opts)
	if err != nil {
		return nil, err
	}
	return d.DetectLines(img)
}

// lines returns given when non-empty, otherwise the detector output.
func (s *Server) lines(img image.Image, given []geometry.PolarLine, a detectorArgs) ([]geometry.PolarLine, error) {
	if len(given) > 0 {
		return given, nil
	}
	found, err := s.detect(img, a)
	if err != nil {
		return nil, err
	}
	return detection.Polar(found), nil
}

func (s *Server) pipeline(img image.Image, width, height int) *quad.Pipeline {
	cfg := s.cfg.Quad(img.Bounds())
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	p := quad.New(cfg)
	p.Logger = s.logger
	return p
}

func overlayPreview(img image.Image, o imaging.Overlay, maxSize int) (*imaging.EncodedImage, error) {
	if maxSize == 0 {
		maxSize = defaultPreviewMax
	}
	return imaging.EncodePNG(imaging.FitPreview(imaging.DrawOverlay(img, o), maxSize))
}

// === quad_image_info ===

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === quad_detect_lines ===

type detectLinesArgs struct {
	Path string `json:"path"`
	detectorArgs
	Overlay    bool `json:"overlay"`
	PreviewMax int  `json:"preview_max"`
}

// DetectLinesResult is the quad_detect_lines response.
type DetectLinesResult struct {
	Count int              `json:"count"`
	Lines []detection.Line `json:"lines"`
	// Unique is what survives deduplication, in the order the pipeline
	// would see it.
	Unique  []geometry.PolarLine  `json:"unique"`
	Overlay *imaging.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleDetectLines(args json.RawMessage) (interface{}, error) {
	var a detectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}
	lines, err := s.detect(img, a.detectorArgs)
	if err != nil {
		return nil, err
	}

	result := &DetectLinesResult{
		Count:  len(lines),
		Lines:  lines,
		Unique: quad.Deduplicate(detection.Polar(lines), s.cfg.GetDedupRhoTolerance(), s.cfg.GetDedupThetaTolerance()),
	}
	if result.Lines == nil {
		result.Lines = []detection.Line{}
	}
	if a.Overlay {
		result.Overlay, err = overlayPreview(img, imaging.Overlay{Lines: result.Unique}, a.PreviewMax)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// === quad_find_corners ===

type findCornersArgs struct {
	Path  string               `json:"path"`
	Lines []geometry.PolarLine `json:"lines"`
	detectorArgs
	Overlay    bool `json:"overlay"`
	Labels     bool `json:"labels"`
	PreviewMax int  `json:"preview_max"`
}

// FindCornersResult is the quad_find_corners response.
type FindCornersResult struct {
	Detection    *quad.Detection       `json:"detection"`
	Measurements quad.Measurements     `json:"measurements"`
	Overlay      *imaging.EncodedImage `json:"overlay,omitempty"`
}

func (s *Server) handleFindCorners(args json.RawMessage) (interface{}, error) {
	var a findCornersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines(img, a.Lines, a.detectorArgs)
	if err != nil {
		return nil, err
	}

	det, err := s.pipeline(img, 0, 0).FindQuadrilateral(lines)
	if err != nil {
		return nil, err
	}

	result := &FindCornersResult{
		Detection:    det,
		Measurements: quad.Measure(det.Quadrilateral),
	}
	if a.Overlay {
		result.Overlay, err = overlayPreview(img, imaging.Overlay{
			Lines:      det.Lines.Lines(),
			Candidates: det.Corners.Corners,
			Corners:    &det.Quadrilateral.Corners,
			Centroid:   &det.Quadrilateral.Centroid,
			Labels:     a.Labels,
		}, a.PreviewMax)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// === quad_rectify ===

type rectifyArgs struct {
	Path  string               `json:"path"`
	Lines []geometry.PolarLine `json:"lines"`
	detectorArgs
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path"`
	OCR        bool    `json:"ocr"`
	Language   string  `json:"language"`
}

// RectifyResult is the quad_rectify response. Image is omitted when the
// raster was written to OutputPath.
type RectifyResult struct {
	Detection  *quad.Detection       `json:"detection"`
	Homography [3][3]float64         `json:"homography"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
	OCR        *ocr.Result           `json:"ocr,omitempty"`
}

func (s *Server) handleRectify(args json.RawMessage) (interface{}, error) {
	var a rectifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.loadImage(a.Path)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines(img, a.Lines, a.detectorArgs)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline(img, a.Width, a.Height).Rectify(img, lines)
	if err != nil {
		return nil, err
	}

	out, err := imaging.Scale(res.Image, a.Scale)
	if err != nil {
		return nil, err
	}
	b := out.Bounds()
	result := &RectifyResult{
		Detection:  res.Detection,
		Homography: res.Homography.Rows(),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}

	if a.OCR {
		language := a.Language
		if language == "" {
			language = s.cfg.GetOCRLanguage()
		}
		if result.OCR, err = ocr.Extract(res.Image, language); err != nil {
			return nil, err
		}
	}

	if a.OutputPath != "" {
		if err := imaging.Save(out, a.OutputPath); err != nil {
			return nil, err
		}
		result.OutputPath = a.OutputPath
		return result, nil
	}
	if result.Image, err = imaging.EncodePNG(out); err != nil {
		return nil, err
	}
	return result, nil
}
