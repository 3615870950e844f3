package quad

import (
	"image"
	"math"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// CornerFilter accepts or rejects a candidate intersection.
type CornerFilter func(p geometry.Point) bool

// NonNegative keeps points with both coordinates >= 0. Lines that meet at a
// negative coordinate meet outside the frame, away from the image.
func NonNegative(p geometry.Point) bool {
	return p.X >= 0 && p.Y >= 0
}

// WithinBounds keeps points inside r grown by margin on every side. r is in
// the same coordinates as the detected lines.
func WithinBounds(r image.Rectangle, margin float64) CornerFilter {
	minX := float64(r.Min.X) - margin
	minY := float64(r.Min.Y) - margin
	maxX := float64(r.Max.X) + margin
	maxY := float64(r.Max.Y) + margin
	return func(p geometry.Point) bool {
		return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
	}
}

// Intersect returns the crossing point of the infinite lines through a and b.
// The determinant is treated as zero, and ok is false, when the sine of the
// angle between the lines is at most parallelTol. With parallelTol == 0 only
// an exact zero counts as parallel.
//
// Intersect is symmetric: Intersect(a, b, t) == Intersect(b, a, t).
func Intersect(a, b geometry.Segment, parallelTol float64) (p geometry.Point, ok bool) {
	x1, y1, x2, y2 := a.P1.X, a.P1.Y, a.P2.X, a.P2.Y
	x3, y3, x4, y4 := b.P1.X, b.P1.Y, b.P2.X, b.P2.Y

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if d == 0 || math.Abs(d) <= parallelTol*a.Length()*b.Length() {
		return geometry.Point{}, false
	}

	c1 := x1*y2 - y1*x2
	c2 := x3*y4 - y3*x4
	return geometry.Point{
		X: (c1*(x3-x4) - (x1-x2)*c2) / d,
		Y: (c1*(y3-y4) - (y1-y2)*c2) / d,
	}, true
}

// CornerReport is the output of the intersection stage.
type CornerReport struct {
	// Corners holds accepted intersections in pair order (0,1), (0,2), ... (2,3).
	Corners []geometry.Point `json:"corners"`

	// ParallelPairs lists line index pairs that produced no intersection.
	ParallelPairs [][2]int `json:"parallel_pairs,omitempty"`

	// Rejected holds intersections the corner filter refused.
	Rejected []geometry.Point `json:"rejected,omitempty"`
}

// FindCorners intersects every unordered pair of the four lines. A pair with
// no intersection is informational; it becomes ErrParallelLinesUnresolved only
// when it leaves fewer than 4 corners.
func FindCorners(lq LineQuad, cfg Config) (CornerReport, error) {
	segs := lq.Segments(cfg.SegmentExtent)
	keep := cfg.cornerFilter()

	var report CornerReport
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			p, ok := Intersect(segs[i], segs[j], cfg.ParallelTolerance)
			if !ok {
				report.ParallelPairs = append(report.ParallelPairs, [2]int{i, j})
				continue
			}
			if !keep(p) {
				report.Rejected = append(report.Rejected, p)
				continue
			}
			report.Corners = append(report.Corners, p)
		}
	}

	if len(report.Corners) < 4 && len(report.ParallelPairs) > 0 {
		return report, stageErr(StageIntersect, ErrParallelLinesUnresolved, len(report.Corners),
			"%d parallel pair(s) %v left too few corners", len(report.ParallelPairs), report.ParallelPairs)
	}
	return report, nil
}
