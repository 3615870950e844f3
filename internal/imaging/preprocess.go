package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Preprocess converts img to grayscale and smooths it with a box blur of the
// given radius (radius 1 is a 3x3 kernel). A radius of 0 skips the blur. The
// result starts at (0, 0).
func Preprocess(img image.Image, blurRadius float64) *image.Gray {
	var smoothed image.Image = imaging.Grayscale(img)
	if blurRadius > 0 {
		smoothed = blur.Box(smoothed, blurRadius)
	}
	return toGray(smoothed)
}

// toGray copies the red channel of an already-gray image into an
// *image.Gray at origin (0, 0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range row {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = uint8(r >> 8)
		}
	}
	return out
}

func diagonal(b image.Rectangle) float64 {
	return math.Hypot(float64(b.Dx()), float64(b.Dy()))
}
