package quad

import (
	"math"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// LineQuad is the four boundary lines of one object. It can only be built
// through NewLineQuad, which enforces the arity.
type LineQuad [4]geometry.PolarLine

// NewLineQuad turns a deduplicated line list into a LineQuad. Any length
// other than 4 is ErrAmbiguousLineCount.
func NewLineQuad(lines []geometry.PolarLine) (LineQuad, error) {
	var lq LineQuad
	if len(lines) != len(lq) {
		return lq, stageErr(StageDedup, ErrAmbiguousLineCount, len(lines),
			"want 4 distinct lines after deduplication")
	}
	copy(lq[:], lines)
	return lq, nil
}

// Deduplicate drops near-duplicate detections. Lines are visited in input
// order; a line is kept unless an already-kept line is within rhoTol AND
// thetaTol of it. The first line seen from a cluster wins, so the result
// depends on input order (detectors emit strongest first).
//
// The output is a fixed point: Deduplicate(Deduplicate(x)) equals
// Deduplicate(x).
func Deduplicate(lines []geometry.PolarLine, rhoTol, thetaTol float64) []geometry.PolarLine {
	kept := make([]geometry.PolarLine, 0, len(lines))
	for _, l := range lines {
		if !nearAny(kept, l, rhoTol, thetaTol) {
			kept = append(kept, l)
		}
	}
	return kept
}

func nearAny(kept []geometry.PolarLine, l geometry.PolarLine, rhoTol, thetaTol float64) bool {
	for _, k := range kept {
		if math.Abs(l.Rho-k.Rho) < rhoTol && math.Abs(l.Theta-k.Theta) < thetaTol {
			return true
		}
	}
	return false
}

// Lines returns the LineQuad as a slice.
func (lq LineQuad) Lines() []geometry.PolarLine {
	return append([]geometry.PolarLine(nil), lq[:]...)
}

// Segments converts each line into a segment of the given half-length.
func (lq LineQuad) Segments(extent float64) [4]geometry.Segment {
	var segs [4]geometry.Segment
	for i, l := range lq {
		segs[i] = l.Segment(extent)
	}
	return segs
}
