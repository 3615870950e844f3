package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// Overlay describes what DrawOverlay paints on top of an input image.
type Overlay struct {
	// Lines are drawn edge to edge in ColorLine.
	Lines []geometry.PolarLine
	// Candidates are intersection points before validation.
	Candidates []geometry.Point
	// Corners, when set, are the ordered TL, TR, BR, BL corners.
	Corners *[4]geometry.Point
	// Centroid, when set, is marked in ColorCentroid.
	Centroid *geometry.Point
	// Labels prints "TL", "TR", "BR", "BL" beside the corners.
	Labels bool
}

var cornerLabels = [4]string{"TL", "TR", "BR", "BL"}

// DrawOverlay returns a copy of img with the overlay painted on it.
// Coordinates are relative to img.Bounds().Min.
func DrawOverlay(img image.Image, o Overlay) *image.NRGBA {
	b := img.Bounds()
	result := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(result, result.Bounds(), img, b.Min, draw.Src)

	for _, l := range o.Lines {
		drawPolarLine(result, l, ColorLine)
	}
	for _, p := range o.Candidates {
		drawDisc(result, p, 2, ColorCandidate)
	}
	if o.Corners != nil {
		colors := [4]color.NRGBA{ColorTopLeft, ColorTopRight, ColorBotRight, ColorBotLeft}
		for i, p := range o.Corners {
			drawDisc(result, p, 3, colors[i])
			if o.Labels {
				drawLabel(result, int(p.X)+5, int(p.Y)-5, cornerLabels[i], colors[i])
			}
		}
	}
	if o.Centroid != nil {
		drawDisc(result, *o.Centroid, 3, ColorCentroid)
	}
	return result
}

// drawPolarLine walks the line along its dominant axis so every column (or
// row) inside the image gets exactly one pixel.
func drawPolarLine(img *image.NRGBA, l geometry.PolarLine, c color.NRGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cos, sin := math.Cos(l.Theta), math.Sin(l.Theta)
	if math.Abs(sin) >= math.Abs(cos) {
		for x := 0; x < w; x++ {
			y := (l.Rho - float64(x)*cos) / sin
			setPixel(img, x, int(math.Round(y)), c)
		}
		return
	}
	for y := 0; y < h; y++ {
		x := (l.Rho - float64(y)*sin) / cos
		setPixel(img, int(math.Round(x)), y, c)
	}
}

func drawDisc(img *image.NRGBA, p geometry.Point, radius int, c color.NRGBA) {
	cx, cy := int(math.Round(p.X)), int(math.Round(p.Y))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setPixel(img, cx+dx, cy+dy, c)
			}
		}
	}
}

// drawLabel writes text with its baseline at (x, y) on a dark backing box.
func drawLabel(img *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}

	bounds, _ := d.BoundString(text)
	box := image.Rect(
		bounds.Min.X.Floor()-1, bounds.Min.Y.Floor()-1,
		bounds.Max.X.Ceil()+1, bounds.Max.Y.Ceil()+1,
	).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	d.DrawString(text)
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	img.SetNRGBA(x, y, c)
}
