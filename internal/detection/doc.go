// Package detection finds straight lines in photographs and reports them in
// polar form, ready for the quad package to turn into a quadrilateral.
//
// # Detectors
//
// Two implementations satisfy the Detector interface:
//
//   - HoughDetector: pure Go. Grayscale and box blur (imaging.Preprocess),
//     Canny-style edges (imaging.EdgeMap), then HoughLines.
//   - OpenCVDetector: the same stages through gocv. Only built with the
//     gocv build tag, since it needs OpenCV installed; otherwise New
//     returns ErrOpenCVUnavailable for KindOpenCV.
//
// # Polar Convention
//
// A line is the set of points with x*cos(theta) + y*sin(theta) == rho,
// where (x, y) are pixel coordinates relative to the image's Bounds().Min.
// Theta lies in [0, pi) and rho may be negative, matching OpenCV's
// HoughLines output.
//
// # Ordering
//
// HoughLines returns lines strongest first. The quad package keeps the
// first of any near-duplicate lines, so this ordering decides which of two
// similar lines survives.
//
// # Performance
//
// The accumulator costs O(edge pixels * 180). Downsize large photographs
// before detection and scale the resulting rho values back up.
package detection
