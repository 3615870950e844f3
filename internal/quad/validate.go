package quad

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// Simplify reduces the corner set to polygon vertices. The tolerance is
// epsilonRatio times the closed arc length of corners in their given order;
// the convex hull of corners, closed back on its first point, is then run
// through Douglas-Peucker at that tolerance. The returned slice is open (no
// repeated first point).
func Simplify(corners []geometry.Point, epsilonRatio float64) []geometry.Point {
	hull := geometry.ConvexHull(corners)
	if len(hull) < 3 {
		return hull
	}
	epsilon := epsilonRatio * geometry.ArcLength(corners, true)

	ls := make(orb.LineString, 0, len(hull)+1)
	for _, p := range hull {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	ls = append(ls, ls[0])

	// The simplifier works in place.
	simplified := simplify.DouglasPeucker(epsilon).LineString(ls)

	out := make([]geometry.Point, 0, len(simplified))
	for _, p := range simplified {
		out = append(out, geometry.Pt(p[0], p[1]))
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Validate confirms the corner set collapses to a usable quadrilateral and
// returns its 4 vertices in hull order. Fewer or more vertices, vertices
// closer than MinCornerSeparation, or an area below MinCornerSeparation
// squared give ErrNotQuadrilateral.
func Validate(corners []geometry.Point, cfg Config) ([4]geometry.Point, error) {
	var quad [4]geometry.Point

	vertices := Simplify(corners, cfg.EpsilonRatio)
	if len(vertices) != len(quad) {
		return quad, stageErr(StageValidate, ErrNotQuadrilateral, len(vertices),
			"%d corner(s) simplified to %d vertices", len(corners), len(vertices))
	}
	copy(quad[:], vertices)

	sep := geometry.MinSeparation(quad[:])
	if sep < cfg.MinCornerSeparation {
		return quad, stageErr(StageValidate, ErrNotQuadrilateral, len(vertices),
			"corners %.3g apart, need %.3g", sep, cfg.MinCornerSeparation)
	}
	area := geometry.PolygonArea(quad[:])
	if minArea := cfg.MinCornerSeparation * cfg.MinCornerSeparation; area < minArea || area == 0 {
		return quad, stageErr(StageValidate, ErrNotQuadrilateral, len(vertices),
			"area %.3g below %.3g", area, minArea)
	}
	return quad, nil
}
