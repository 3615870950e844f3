package quad

import (
	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// Corner indices within Quadrilateral.Corners.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// Quadrilateral is an ordered set of 4 corners plus the centroid used to
// order them.
type Quadrilateral struct {
	Corners  [4]geometry.Point `json:"corners"`
	Centroid geometry.Point    `json:"centroid"`
}

// TopLeft returns the top-left corner.
func (q Quadrilateral) TopLeft() geometry.Point { return q.Corners[TopLeft] }

// TopRight returns the top-right corner.
func (q Quadrilateral) TopRight() geometry.Point { return q.Corners[TopRight] }

// BottomRight returns the bottom-right corner.
func (q Quadrilateral) BottomRight() geometry.Point { return q.Corners[BottomRight] }

// BottomLeft returns the bottom-left corner.
func (q Quadrilateral) BottomLeft() geometry.Point { return q.Corners[BottomLeft] }

// Order assigns corner roles by splitting on centroid.Y: points strictly above
// it are top, the rest bottom. Each half must hold exactly 2 points, else
// ErrCornersNotOrderable. Within a half the smaller X is left; on equal X the
// earlier point is left.
//
// Shapes whose split is ambiguous, such as a square rotated near 45 degrees,
// are rejected rather than guessed.
func Order(corners [4]geometry.Point, centroid geometry.Point) (Quadrilateral, error) {
	var top, bottom []geometry.Point
	for _, p := range corners {
		if p.Y < centroid.Y {
			top = append(top, p)
		} else {
			bottom = append(bottom, p)
		}
	}
	if len(top) != 2 || len(bottom) != 2 {
		return Quadrilateral{}, stageErr(StageOrder, ErrCornersNotOrderable, len(top),
			"%d corner(s) above centroid %v, %d below", len(top), centroid, len(bottom))
	}

	tl, tr := leftRight(top[0], top[1])
	bl, br := leftRight(bottom[0], bottom[1])
	return Quadrilateral{
		Corners:  [4]geometry.Point{tl, tr, br, bl},
		Centroid: centroid,
	}, nil
}

func leftRight(a, b geometry.Point) (left, right geometry.Point) {
	if b.X < a.X {
		return b, a
	}
	return a, b
}
