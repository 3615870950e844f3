//go:build !tesseract

package ocr

import "image"

// Available reports whether text extraction is compiled in.
func Available() bool { return false }

// Extract always returns ErrUnavailable in builds without the tesseract tag.
func Extract(image.Image, string) (*Result, error) {
	return nil, ErrUnavailable
}

// Version returns an empty string in builds without the tesseract tag.
func Version() string { return "" }
