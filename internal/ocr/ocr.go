package ocr

import (
	"errors"
	"image"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr not built in (rebuild with -tags tesseract)")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is one recognised word with its location.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result contains the text recognised in a rectified page.
type Result struct {
	// FullText is all recognised text with the engine's spacing and newlines.
	FullText string `json:"full_text"`

	// Regions holds word-level boxes. It is empty, not nil, when the engine
	// could not report boxes; FullText is still set.
	Regions []TextRegion `json:"regions"`
}

// Words returns the recognised words at or above minConfidence, in reading
// order as reported by the engine.
func (r *Result) Words(minConfidence float64) []string {
	var words []string
	for _, reg := range r.Regions {
		if reg.Confidence >= minConfidence {
			words = append(words, reg.Text)
		}
	}
	return words
}

// regionBounds converts an image rectangle into Bounds.
func regionBounds(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}
