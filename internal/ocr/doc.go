// Package ocr reads text from rectified pages using Tesseract.
//
// The engine is reached through gosseract/v2, which links libtesseract via
// cgo. It is only compiled in with the tesseract build tag:
//
//	go build -tags tesseract ./cmd/quad-rectify
//
// Without the tag, Extract returns ErrUnavailable and Available reports
// false, so the rest of the module builds with no C toolchain.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is English ("eng").
package ocr
