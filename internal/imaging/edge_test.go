package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createStepImage returns a gray image that is black left of splitX and white
// from splitX on.
func createStepImage(width, height, splitX int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := splitX; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func TestEdgeMap_VerticalStep(t *testing.T) {
	edges := EdgeMap(createStepImage(40, 40, 20), DefaultCannyLow, DefaultCannyHigh)

	for y := 1; y < 39; y++ {
		if edges.GrayAt(19, y).Y == 0 && edges.GrayAt(20, y).Y == 0 {
			t.Fatalf("row %d: no edge at the step", y)
		}
		if edges.GrayAt(5, y).Y != 0 || edges.GrayAt(35, y).Y != 0 {
			t.Fatalf("row %d: edge away from the step", y)
		}
	}
	// Both columns either side of a hard step share the peak magnitude.
	if got := CountEdges(edges); got != 2*38 {
		t.Errorf("CountEdges: got %d, want %d", got, 2*38)
	}
}

func TestEdgeMap_HorizontalStep(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for y := 15; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	edges := EdgeMap(img, 50, 150)

	for x := 1; x < 29; x++ {
		if edges.GrayAt(x, 14).Y == 0 && edges.GrayAt(x, 15).Y == 0 {
			t.Fatalf("column %d: no edge at the step", x)
		}
	}
}

func TestEdgeMap_UniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	if got := CountEdges(EdgeMap(img, 10, 20)); got != 0 {
		t.Errorf("uniform image produced %d edge pixels", got)
	}
}

func TestEdgeMap_HighThresholdSuppressesAll(t *testing.T) {
	edges := EdgeMap(createStepImage(40, 40, 20), 2000, 2000)
	if got := CountEdges(edges); got != 0 {
		t.Errorf("threshold above peak magnitude left %d edge pixels", got)
	}
}

func TestEdgeMap_HysteresisKeepsWeakNeighbours(t *testing.T) {
	// A faint step joined to a strong step along the same column. The faint
	// half only survives by touching the strong half.
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		v := uint8(255)
		if y >= 20 {
			v = 40
		}
		for x := 20; x < 40; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	// Faint step magnitude is 4*40 = 160.
	linked := CountEdges(EdgeMap(img, 100, 500))
	strongOnly := CountEdges(EdgeMap(img, 500, 500))
	if linked <= strongOnly {
		t.Errorf("hysteresis did not extend edge: linked=%d strong-only=%d", linked, strongOnly)
	}
}

func TestEdgeMap_SmallImage(t *testing.T) {
	edges := EdgeMap(image.NewGray(image.Rect(0, 0, 2, 2)), 10, 20)
	if edges.Bounds().Dx() != 2 || edges.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", edges.Bounds())
	}
	if CountEdges(edges) != 0 {
		t.Error("image too small for a 3x3 kernel produced edges")
	}
}

func TestEdgeMap_OffsetBounds(t *testing.T) {
	full := createStepImage(40, 40, 20)
	sub := full.SubImage(image.Rect(10, 10, 30, 30)).(*image.Gray)

	edges := EdgeMap(sub, DefaultCannyLow, DefaultCannyHigh)
	if edges.Bounds().Min != (image.Point{}) {
		t.Fatalf("edge map should start at origin, got %v", edges.Bounds())
	}
	// Step sits at x=20 in the parent, x=10 in the sub-image.
	if edges.GrayAt(9, 10).Y == 0 && edges.GrayAt(10, 10).Y == 0 {
		t.Error("step not found at shifted position")
	}
}

func TestPreprocess(t *testing.T) {
	src := createInMemoryImage(20, 10, color.RGBA{255, 0, 0, 255})
	gray := Preprocess(src, 0)

	if gray.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Fatalf("bounds: got %v", gray.Bounds())
	}
	// Luma of pure red is about 0.3 * 255.
	if v := gray.GrayAt(5, 5).Y; v < 70 || v > 82 {
		t.Errorf("red luma: got %d, want about 76", v)
	}
}

func TestPreprocess_BlurSpreadsSpot(t *testing.T) {
	src := createInMemoryImage(21, 21, color.Black)
	src.Set(10, 10, color.White)

	sharp := Preprocess(src, 0)
	blurred := Preprocess(src, 1)

	if sharp.GrayAt(11, 10).Y != 0 {
		t.Fatal("unblurred neighbour should stay black")
	}
	if blurred.GrayAt(10, 10).Y >= 255 {
		t.Error("blur did not reduce the spot")
	}
	if blurred.GrayAt(11, 10).Y == 0 {
		t.Error("blur did not spread the spot")
	}
	if blurred.GrayAt(0, 0).Y != 0 {
		t.Error("blur reached the far corner")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}
