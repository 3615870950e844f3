package ocr

import (
	"image"
	"testing"
)

func TestResult_Words(t *testing.T) {
	r := &Result{
		FullText: "QUARTERLY REPORT 2024",
		Regions: []TextRegion{
			{Text: "QUARTERLY", Confidence: 0.95},
			{Text: "REPORT", Confidence: 0.40},
			{Text: "2024", Confidence: 0.80},
		},
	}

	got := r.Words(0.5)
	if len(got) != 2 || got[0] != "QUARTERLY" || got[1] != "2024" {
		t.Errorf("Words(0.5): got %v", got)
	}
	if len(r.Words(0)) != 3 {
		t.Error("Words(0) should keep every region")
	}
	if r.Words(1.1) != nil {
		t.Error("Words above 1 should be empty")
	}
}

func TestRegionBounds(t *testing.T) {
	b := regionBounds(image.Rect(10, 20, 30, 45))
	want := Bounds{X1: 10, Y1: 20, X2: 30, Y2: 45}
	if b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
}
