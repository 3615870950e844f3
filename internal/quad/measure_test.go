package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

func TestMeasure_Rectangle(t *testing.T) {
	q := Quadrilateral{Corners: [4]geometry.Point{
		{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 60}, {X: 10, Y: 60},
	}}
	m := Measure(q)

	assert.Equal(t, 100.0, m.Top)
	assert.Equal(t, 50.0, m.Right)
	assert.Equal(t, 100.0, m.Bottom)
	assert.Equal(t, 50.0, m.Left)
	assert.Equal(t, [4]float64{90, 90, 90, 90}, m.Angles)
	assert.Equal(t, 5000.0, m.Area)
	assert.Equal(t, 2.0, m.AspectRatio)
	assert.Equal(t, 0.0, m.Skew)
}

func TestMeasure_TrialQuad(t *testing.T) {
	q, err := Order(trialQuad, geometry.Centroid(trialQuad[:]))
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	m := Measure(q)

	var sum float64
	for _, a := range m.Angles {
		assert.Greater(t, a, 0.0)
		assert.Less(t, a, 180.0)
		sum += a
	}
	assert.InDelta(t, 360, sum, 0.5)
	assert.Greater(t, m.Skew, 0.0, "top edge falls to the right")
	assert.InDelta(t, geometry.PolygonArea(trialQuad[:]), m.Area, 0.01)
}

func TestMeasure_DegenerateEdges(t *testing.T) {
	p := geometry.Pt(5, 5)
	m := Measure(Quadrilateral{Corners: [4]geometry.Point{p, p, p, p}})
	assert.Equal(t, 0.0, m.AspectRatio)
	assert.Equal(t, [4]float64{}, m.Angles)
}
