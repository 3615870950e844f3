//go:build gocv

package detection

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// OpenCVDetector runs the same stages as HoughDetector through OpenCV:
// grayscale, box blur, Canny, then the standard Hough transform with 1 pixel
// and 1 degree resolution.
type OpenCVDetector struct {
	Options Options
}

func newOpenCV(opts Options) (Detector, error) {
	return &OpenCVDetector{Options: opts}, nil
}

// DetectLines implements Detector. OpenCV does not report votes; Votes is
// set to the threshold for every line, and lines keep OpenCV's order.
func (d *OpenCVDetector) DetectLines(img image.Image) ([]Line, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	if k := int(2*d.Options.BlurRadius + 1); k > 1 {
		gocv.Blur(gray, &gray, image.Pt(k, k))
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(d.Options.CannyLow), float32(d.Options.CannyHigh))

	raw := gocv.NewMat()
	defer raw.Close()
	gocv.HoughLines(edges, &raw, 1, math.Pi/180, d.Options.HoughThreshold)

	n := raw.Rows()
	if d.Options.MaxLines > 0 && n > d.Options.MaxLines {
		n = d.Options.MaxLines
	}
	lines := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		v := raw.GetVecfAt(i, 0)
		lines = append(lines, Line{
			PolarLine: geometry.PolarLine{Rho: float64(v[0]), Theta: float64(v[1])},
			Votes:     d.Options.HoughThreshold,
		})
	}
	return lines, nil
}
