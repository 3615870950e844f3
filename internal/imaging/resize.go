package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Scale resizes img by factor with Lanczos resampling. A factor of 1 returns
// an unscaled copy.
func Scale(img image.Image, factor float64) (*image.NRGBA, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", factor)
	}
	if factor == 1.0 {
		return imaging.Clone(img), nil
	}

	b := img.Bounds()
	newWidth := int(float64(b.Dx()) * factor)
	newHeight := int(float64(b.Dy()) * factor)
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("scale %v reduces %dx%d image to nothing", factor, b.Dx(), b.Dy())
	}
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos), nil
}

// FitPreview shrinks img to fit within maxSize x maxSize, keeping the aspect
// ratio. Images already small enough are copied unchanged.
func FitPreview(img image.Image, maxSize int) *image.NRGBA {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}
