package quad

import (
	"math"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// Measurements summarises the shape of an ordered quadrilateral. Lengths are
// in pixels rounded to 0.01, angles in degrees rounded to 0.1.
type Measurements struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`

	// Interior angles at TL, TR, BR, BL.
	Angles [4]float64 `json:"angles_degrees"`

	Area float64 `json:"area"`
	// AspectRatio is mean horizontal edge length over mean vertical edge
	// length. Comparing it to Width/Height shows how much the warp stretches.
	AspectRatio float64 `json:"aspect_ratio"`
	// Skew is the angle of the top edge from horizontal; positive means the
	// right end is lower.
	Skew float64 `json:"skew_degrees"`
}

// Measure computes Measurements for q.
func Measure(q Quadrilateral) Measurements {
	c := q.Corners
	top := c[TopLeft].Distance(c[TopRight])
	right := c[TopRight].Distance(c[BottomRight])
	bottom := c[BottomRight].Distance(c[BottomLeft])
	left := c[BottomLeft].Distance(c[TopLeft])

	var angles [4]float64
	for i := range c {
		prev := c[(i+3)%4]
		next := c[(i+1)%4]
		angles[i] = round(interiorAngle(prev, c[i], next), 10)
	}

	aspect := 0.0
	if vertical := (left + right) / 2; vertical > 0 {
		aspect = (top + bottom) / 2 / vertical
	}

	d := c[TopRight].Sub(c[TopLeft])
	skew := math.Atan2(d.Y, d.X) * 180 / math.Pi

	return Measurements{
		Top:         round(top, 100),
		Right:       round(right, 100),
		Bottom:      round(bottom, 100),
		Left:        round(left, 100),
		Angles:      angles,
		Area:        round(geometry.PolygonArea(c[:]), 100),
		AspectRatio: round(aspect, 1000),
		Skew:        round(skew, 10),
	}
}

// interiorAngle returns the angle at b between rays b->a and b->c, in degrees.
func interiorAngle(a, b, c geometry.Point) float64 {
	u, v := a.Sub(b), c.Sub(b)
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	cos := (u.X*v.X + u.Y*v.Y) / (nu * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func round(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
