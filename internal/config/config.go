// Package config loads the tuning parameters shared by the command-line tool
// and the MCP server.
//
// The file format is JSON with every field optional. Omitted fields fall back
// to the defaults through the Get* accessors, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/quad-rectify/internal/detection"
	"github.com/ironsheep/quad-rectify/internal/homography"
	"github.com/ironsheep/quad-rectify/internal/ocr"
	"github.com/ironsheep/quad-rectify/internal/quad"
)

// DefaultConfigPath is the checked-in defaults file, relative to the
// repository root.
const DefaultConfigPath = "config/quad.defaults.json"

// Corner filter names.
const (
	FilterNonNegative = "non_negative"
	FilterImageBounds = "image_bounds"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root configuration.
type Config struct {
	// Line deduplication
	DedupRhoTolerance   *float64 `json:"dedup_rho_tolerance,omitempty"`
	DedupThetaTolerance *float64 `json:"dedup_theta_tolerance,omitempty"`

	// Corner geometry
	EpsilonRatio        *float64 `json:"epsilon_ratio,omitempty"`
	SegmentExtent       *float64 `json:"segment_extent,omitempty"`
	ParallelTolerance   *float64 `json:"parallel_tolerance,omitempty"`
	MinCornerSeparation *float64 `json:"min_corner_separation,omitempty"`
	CornerFilter        *string  `json:"corner_filter,omitempty"` // "non_negative" or "image_bounds"
	BoundsMargin        *float64 `json:"bounds_margin,omitempty"`

	// Output raster
	OutputWidth  *int    `json:"output_width,omitempty"`
	OutputHeight *int    `json:"output_height,omitempty"`
	Background   *string `json:"background,omitempty"` // hex colour like "#000000"
	WarpWorkers  *int    `json:"warp_workers,omitempty"`

	// Line detection
	LineDetector   *string  `json:"line_detector,omitempty"` // "hough" or "opencv"
	BlurRadius     *float64 `json:"blur_radius,omitempty"`
	CannyLow       *float64 `json:"canny_low,omitempty"`
	CannyHigh      *float64 `json:"canny_high,omitempty"`
	HoughThreshold *int     `json:"hough_threshold,omitempty"`
	MaxLines       *int     `json:"max_lines,omitempty"`

	// OCR
	OCRLanguage *string `json:"ocr_language,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		DedupRhoTolerance:   ptrFloat64(quad.DefaultRhoTolerance),
		DedupThetaTolerance: ptrFloat64(quad.DefaultThetaTolerance),
		EpsilonRatio:        ptrFloat64(quad.DefaultEpsilonRatio),
		SegmentExtent:       ptrFloat64(quad.DefaultSegmentExtent),
		ParallelTolerance:   ptrFloat64(quad.DefaultParallelTolerance),
		MinCornerSeparation: ptrFloat64(quad.DefaultMinCornerSeparation),
		CornerFilter:        ptrString(FilterNonNegative),
		BoundsMargin:        ptrFloat64(0),
		OutputWidth:         ptrInt(quad.DefaultWidth),
		OutputHeight:        ptrInt(quad.DefaultHeight),
		Background:          ptrString("#000000"),
		WarpWorkers:         ptrInt(0),
		LineDetector:        ptrString(detection.KindHough),
		BlurRadius:          ptrFloat64(detection.DefaultBlurRadius),
		CannyLow:            ptrFloat64(detection.DefaultCannyLow),
		CannyHigh:           ptrFloat64(detection.DefaultCannyHigh),
		HoughThreshold:      ptrInt(detection.DefaultHoughThreshold),
		MaxLines:            ptrInt(detection.DefaultMaxLines),
		OCRLanguage:         ptrString(ocr.DefaultLanguage),
	}
}

// Load reads a Config from a JSON file. The file must have a .json extension
// and be under 1MB. The result is validated.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON config.
func Parse(data []byte) (*Config, error) {
	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Merge returns a copy of c with every field that is set in override
// replaced by the override value.
func (c *Config) Merge(override *Config) *Config {
	out := *c
	if override == nil {
		return &out
	}
	mergeFloat(&out.DedupRhoTolerance, override.DedupRhoTolerance)
	mergeFloat(&out.DedupThetaTolerance, override.DedupThetaTolerance)
	mergeFloat(&out.EpsilonRatio, override.EpsilonRatio)
	mergeFloat(&out.SegmentExtent, override.SegmentExtent)
	mergeFloat(&out.ParallelTolerance, override.ParallelTolerance)
	mergeFloat(&out.MinCornerSeparation, override.MinCornerSeparation)
	mergeString(&out.CornerFilter, override.CornerFilter)
	mergeFloat(&out.BoundsMargin, override.BoundsMargin)
	mergeInt(&out.OutputWidth, override.OutputWidth)
	mergeInt(&out.OutputHeight, override.OutputHeight)
	mergeString(&out.Background, override.Background)
	mergeInt(&out.WarpWorkers, override.WarpWorkers)
	mergeString(&out.LineDetector, override.LineDetector)
	mergeFloat(&out.BlurRadius, override.BlurRadius)
	mergeFloat(&out.CannyLow, override.CannyLow)
	mergeFloat(&out.CannyHigh, override.CannyHigh)
	mergeInt(&out.HoughThreshold, override.HoughThreshold)
	mergeInt(&out.MaxLines, override.MaxLines)
	mergeString(&out.OCRLanguage, override.OCRLanguage)
	return &out
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = ptrFloat64(*src)
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		*dst = ptrInt(*src)
	}
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = ptrString(*src)
	}
}

// Validate checks the fields that are set.
func (c *Config) Validate() error {
	if c.DedupRhoTolerance != nil && *c.DedupRhoTolerance < 0 {
		return fmt.Errorf("dedup_rho_tolerance must be non-negative, got %f", *c.DedupRhoTolerance)
	}
	if c.DedupThetaTolerance != nil && *c.DedupThetaTolerance < 0 {
		return fmt.Errorf("dedup_theta_tolerance must be non-negative, got %f", *c.DedupThetaTolerance)
	}
	if c.EpsilonRatio != nil && (*c.EpsilonRatio <= 0 || *c.EpsilonRatio >= 1) {
		return fmt.Errorf("epsilon_ratio must be between 0 and 1, got %f", *c.EpsilonRatio)
	}
	if c.SegmentExtent != nil && *c.SegmentExtent <= 0 {
		return fmt.Errorf("segment_extent must be positive, got %f", *c.SegmentExtent)
	}
	if c.ParallelTolerance != nil && *c.ParallelTolerance < 0 {
		return fmt.Errorf("parallel_tolerance must be non-negative, got %g", *c.ParallelTolerance)
	}
	if c.MinCornerSeparation != nil && *c.MinCornerSeparation < 0 {
		return fmt.Errorf("min_corner_separation must be non-negative, got %f", *c.MinCornerSeparation)
	}
	if c.CornerFilter != nil {
		switch *c.CornerFilter {
		case FilterNonNegative, FilterImageBounds:
		default:
			return fmt.Errorf("corner_filter must be %q or %q, got %q", FilterNonNegative, FilterImageBounds, *c.CornerFilter)
		}
	}
	if c.OutputWidth != nil && *c.OutputWidth <= 0 {
		return fmt.Errorf("output_width must be positive, got %d", *c.OutputWidth)
	}
	if c.OutputHeight != nil && *c.OutputHeight <= 0 {
		return fmt.Errorf("output_height must be positive, got %d", *c.OutputHeight)
	}
	if c.Background != nil {
		if _, err := colorful.Hex(*c.Background); err != nil {
			return fmt.Errorf("invalid background %q: %w", *c.Background, err)
		}
	}
	if c.WarpWorkers != nil && *c.WarpWorkers < 0 {
		return fmt.Errorf("warp_workers must be non-negative, got %d", *c.WarpWorkers)
	}
	if c.LineDetector != nil {
		switch *c.LineDetector {
		case detection.KindHough, detection.KindOpenCV:
		default:
			return fmt.Errorf("line_detector must be %q or %q, got %q", detection.KindHough, detection.KindOpenCV, *c.LineDetector)
		}
	}
	if c.BlurRadius != nil && *c.BlurRadius < 0 {
		return fmt.Errorf("blur_radius must be non-negative, got %f", *c.BlurRadius)
	}
	if c.CannyLow != nil && c.CannyHigh != nil && *c.CannyLow > *c.CannyHigh {
		return fmt.Errorf("canny_low (%f) must not exceed canny_high (%f)", *c.CannyLow, *c.CannyHigh)
	}
	if c.HoughThreshold != nil && *c.HoughThreshold <= 0 {
		return fmt.Errorf("hough_threshold must be positive, got %d", *c.HoughThreshold)
	}
	if c.MaxLines != nil && *c.MaxLines < 0 {
		return fmt.Errorf("max_lines must be non-negative, got %d", *c.MaxLines)
	}
	return nil
}

// GetDedupRhoTolerance returns the dedup_rho_tolerance value or the default.
func (c *Config) GetDedupRhoTolerance() float64 {
	if c.DedupRhoTolerance == nil {
		return quad.DefaultRhoTolerance
	}
	return *c.DedupRhoTolerance
}

// GetDedupThetaTolerance returns the dedup_theta_tolerance value or the default.
func (c *Config) GetDedupThetaTolerance() float64 {
	if c.DedupThetaTolerance == nil {
		return quad.DefaultThetaTolerance
	}
	return *c.DedupThetaTolerance
}

// GetEpsilonRatio returns the epsilon_ratio value or the default.
func (c *Config) GetEpsilonRatio() float64 {
	if c.EpsilonRatio == nil {
		return quad.DefaultEpsilonRatio
	}
	return *c.EpsilonRatio
}

// GetSegmentExtent returns the segment_extent value or the default.
func (c *Config) GetSegmentExtent() float64 {
	if c.SegmentExtent == nil {
		return quad.DefaultSegmentExtent
	}
	return *c.SegmentExtent
}

// GetParallelTolerance returns the parallel_tolerance value or the default.
func (c *Config) GetParallelTolerance() float64 {
	if c.ParallelTolerance == nil {
		return quad.DefaultParallelTolerance
	}
	return *c.ParallelTolerance
}

// GetMinCornerSeparation returns the min_corner_separation value or the default.
func (c *Config) GetMinCornerSeparation() float64 {
	if c.MinCornerSeparation == nil {
		return quad.DefaultMinCornerSeparation
	}
	return *c.MinCornerSeparation
}

// GetCornerFilter returns the corner_filter value or the default.
func (c *Config) GetCornerFilter() string {
	if c.CornerFilter == nil || *c.CornerFilter == "" {
		return FilterNonNegative
	}
	return *c.CornerFilter
}

// GetBoundsMargin returns the bounds_margin value or the default.
func (c *Config) GetBoundsMargin() float64 {
	if c.BoundsMargin == nil {
		return 0
	}
	return *c.BoundsMargin
}

// GetOutputWidth returns the output_width value or the default.
func (c *Config) GetOutputWidth() int {
	if c.OutputWidth == nil {
		return quad.DefaultWidth
	}
	return *c.OutputWidth
}

// GetOutputHeight returns the output_height value or the default.
func (c *Config) GetOutputHeight() int {
	if c.OutputHeight == nil {
		return quad.DefaultHeight
	}
	return *c.OutputHeight
}

// GetBackground returns the background colour, opaque black by default or
// when the value does not parse.
func (c *Config) GetBackground() color.NRGBA {
	black := color.NRGBA{A: 255}
	if c.Background == nil || *c.Background == "" {
		return black
	}
	col, err := colorful.Hex(*c.Background)
	if err != nil {
		return black
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// GetWarpWorkers returns the warp_workers value. Zero means one per CPU.
func (c *Config) GetWarpWorkers() int {
	if c.WarpWorkers == nil {
		return 0
	}
	return *c.WarpWorkers
}

// GetLineDetector returns the line_detector value or the default.
func (c *Config) GetLineDetector() string {
	if c.LineDetector == nil || *c.LineDetector == "" {
		return detection.KindHough
	}
	return *c.LineDetector
}

// GetBlurRadius returns the blur_radius value or the default.
func (c *Config) GetBlurRadius() float64 {
	if c.BlurRadius == nil {
		return detection.DefaultBlurRadius
	}
	return *c.BlurRadius
}

// GetCannyLow returns the canny_low value or the default.
func (c *Config) GetCannyLow() float64 {
	if c.CannyLow == nil {
		return detection.DefaultCannyLow
	}
	return *c.CannyLow
}

// GetCannyHigh returns the canny_high value or the default.
func (c *Config) GetCannyHigh() float64 {
	if c.CannyHigh == nil {
		return detection.DefaultCannyHigh
	}
	return *c.CannyHigh
}

// GetHoughThreshold returns the hough_threshold value or the default.
func (c *Config) GetHoughThreshold() int {
	if c.HoughThreshold == nil {
		return detection.DefaultHoughThreshold
	}
	return *c.HoughThreshold
}

// GetMaxLines returns the max_lines value or the default.
func (c *Config) GetMaxLines() int {
	if c.MaxLines == nil {
		return detection.DefaultMaxLines
	}
	return *c.MaxLines
}

// GetOCRLanguage returns the ocr_language value or the default.
func (c *Config) GetOCRLanguage() string {
	if c.OCRLanguage == nil || *c.OCRLanguage == "" {
		return ocr.DefaultLanguage
	}
	return *c.OCRLanguage
}

// Quad builds the pipeline configuration. bounds is the frame of the image
// being processed, used by the image_bounds corner filter. The segment extent
// is raised past the frame diagonal when the configured value is too short.
func (c *Config) Quad(bounds image.Rectangle) quad.Config {
	cfg := quad.Config{
		RhoTolerance:        c.GetDedupRhoTolerance(),
		ThetaTolerance:      c.GetDedupThetaTolerance(),
		EpsilonRatio:        c.GetEpsilonRatio(),
		SegmentExtent:       c.GetSegmentExtent(),
		ParallelTolerance:   c.GetParallelTolerance(),
		MinCornerSeparation: c.GetMinCornerSeparation(),
		CornerFilter:        quad.NonNegative,
		Width:               c.GetOutputWidth(),
		Height:              c.GetOutputHeight(),
		Warp: homography.WarpOptions{
			Background: c.GetBackground(),
			Workers:    c.GetWarpWorkers(),
		},
	}
	if d := math.Hypot(float64(bounds.Dx()), float64(bounds.Dy())); cfg.SegmentExtent <= d {
		cfg.SegmentExtent = math.Ceil(d) + 1
	}
	if c.GetCornerFilter() == FilterImageBounds {
		// Lines are relative to the image origin.
		frame := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
		cfg.CornerFilter = quad.WithinBounds(frame, c.GetBoundsMargin())
	}
	return cfg
}

// Detection returns the line detector settings.
func (c *Config) Detection() detection.Options {
	return detection.Options{
		BlurRadius:     c.GetBlurRadius(),
		CannyLow:       c.GetCannyLow(),
		CannyHigh:      c.GetCannyHigh(),
		HoughThreshold: c.GetHoughThreshold(),
		MaxLines:       c.GetMaxLines(),
	}
}
