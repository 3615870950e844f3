package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/quad-rectify/internal/imaging"
)

// Detector kinds accepted by New.
const (
	KindHough  = "hough"
	KindOpenCV = "opencv"
)

// Default detector settings, tuned for photographs of a single document.
const (
	DefaultBlurRadius     = 1.0
	DefaultCannyLow       = float64(imaging.DefaultCannyLow)
	DefaultCannyHigh      = float64(imaging.DefaultCannyHigh)
	DefaultHoughThreshold = 100
	DefaultMaxLines       = 50
)

// Options configures line detection.
type Options struct {
	// BlurRadius is the box blur radius applied before edge detection.
	BlurRadius float64
	// CannyLow and CannyHigh are the hysteresis thresholds.
	CannyLow  float64
	CannyHigh float64
	// HoughThreshold is the minimum accumulator votes for a line.
	HoughThreshold int
	// MaxLines caps the number of lines returned, strongest first.
	MaxLines int
}

// DefaultOptions returns the default detector settings.
func DefaultOptions() Options {
	return Options{
		BlurRadius:     DefaultBlurRadius,
		CannyLow:       DefaultCannyLow,
		CannyHigh:      DefaultCannyHigh,
		HoughThreshold: DefaultHoughThreshold,
		MaxLines:       DefaultMaxLines,
	}
}

// Detector finds straight lines in an image. Coordinates are relative to
// img.Bounds().Min.
type Detector interface {
	DetectLines(img image.Image) ([]Line, error)
}

// New returns the detector for kind. KindOpenCV fails unless the binary was
// built with the gocv tag.
func New(kind string, opts Options) (Detector, error) {
	switch kind {
	case "", KindHough:
		return &HoughDetector{Options: opts}, nil
	case KindOpenCV:
		return newOpenCV(opts)
	default:
		return nil, fmt.Errorf("unknown line detector %q", kind)
	}
}

// HoughDetector is the pure-Go detector: grayscale, box blur, Canny-style
// edges, then HoughLines.
type HoughDetector struct {
	Options Options
}

// DetectLines implements Detector.
func (d *HoughDetector) DetectLines(img image.Image) ([]Line, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	gray := imaging.Preprocess(img, d.Options.BlurRadius)
	edges := imaging.EdgeMap(gray, d.Options.CannyLow, d.Options.CannyHigh)
	return HoughLines(edges, d.Options.HoughThreshold, d.Options.MaxLines), nil
}
