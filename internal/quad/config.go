package quad

import (
	"fmt"

	"github.com/ironsheep/quad-rectify/internal/homography"
)

// Reference values for the tunable thresholds.
const (
	DefaultRhoTolerance        = 10.0
	DefaultThetaTolerance      = 0.2
	DefaultEpsilonRatio        = 0.02
	DefaultSegmentExtent       = 1000.0
	DefaultParallelTolerance   = 1e-9
	DefaultMinCornerSeparation = 1.0
	DefaultWidth               = 220
	DefaultHeight              = 300
)

// Config holds the thresholds of one pipeline run.
type Config struct {
	// RhoTolerance and ThetaTolerance: two lines closer than both are duplicates.
	RhoTolerance   float64
	ThetaTolerance float64

	// EpsilonRatio scales the corner-set perimeter into the polygon
	// simplification tolerance.
	EpsilonRatio float64

	// SegmentExtent is the half-length of the segment built from each polar
	// line. Must exceed the image diagonal.
	SegmentExtent float64

	// ParallelTolerance is the largest |sin| of the angle between two lines
	// that still counts as parallel.
	ParallelTolerance float64

	// MinCornerSeparation is the smallest distance allowed between two
	// validated corners.
	MinCornerSeparation float64

	// CornerFilter decides which intersections are plausible corners.
	// Nil means NonNegative.
	CornerFilter CornerFilter

	// Width and Height size the rectified output.
	Width  int
	Height int

	Warp homography.WarpOptions
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		RhoTolerance:        DefaultRhoTolerance,
		ThetaTolerance:      DefaultThetaTolerance,
		EpsilonRatio:        DefaultEpsilonRatio,
		SegmentExtent:       DefaultSegmentExtent,
		ParallelTolerance:   DefaultParallelTolerance,
		MinCornerSeparation: DefaultMinCornerSeparation,
		CornerFilter:        NonNegative,
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		Warp:                homography.DefaultWarpOptions(),
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.RhoTolerance < 0:
		return fmt.Errorf("rho tolerance must be >= 0, got %v", c.RhoTolerance)
	case c.ThetaTolerance < 0:
		return fmt.Errorf("theta tolerance must be >= 0, got %v", c.ThetaTolerance)
	case c.EpsilonRatio <= 0 || c.EpsilonRatio >= 1:
		return fmt.Errorf("epsilon ratio must be in (0, 1), got %v", c.EpsilonRatio)
	case c.SegmentExtent <= 0:
		return fmt.Errorf("segment extent must be > 0, got %v", c.SegmentExtent)
	case c.ParallelTolerance < 0:
		return fmt.Errorf("parallel tolerance must be >= 0, got %v", c.ParallelTolerance)
	case c.MinCornerSeparation < 0:
		return fmt.Errorf("min corner separation must be >= 0, got %v", c.MinCornerSeparation)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("output size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

func (c Config) cornerFilter() CornerFilter {
	if c.CornerFilter == nil {
		return NonNegative
	}
	return c.CornerFilter
}
