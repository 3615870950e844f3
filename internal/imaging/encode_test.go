package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestEncodePNG(t *testing.T) {
	src := createInMemoryImage(30, 20, color.RGBA{1, 2, 3, 255})

	enc, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 30 || enc.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", enc.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	r, g, b, _ := img.At(4, 4).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("pixel: got (%d, %d, %d), want (1, 2, 3)", r>>8, g>>8, b>>8)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(createInMemoryImage(8, 6, color.White), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img, format, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != "png" || img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("got %s %v, want png 8x6", format, img.Bounds())
	}
}

func TestSave_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	if err := Save(createInMemoryImage(2, 2, color.White), path); err == nil {
		t.Error("Save should fail for an unsupported extension")
	}
}

func TestScale(t *testing.T) {
	src := createInMemoryImage(100, 50, color.White)

	half, err := Scale(src, 0.5)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if half.Bounds().Dx() != 50 || half.Bounds().Dy() != 25 {
		t.Errorf("0.5x: got %v", half.Bounds())
	}

	same, err := Scale(src, 1)
	if err != nil {
		t.Fatalf("Scale(1) failed: %v", err)
	}
	if same.Bounds().Dx() != 100 || same.Bounds().Dy() != 50 {
		t.Errorf("1x: got %v", same.Bounds())
	}

	for _, f := range []float64{0, -1, 0.001} {
		if _, err := Scale(src, f); err == nil {
			t.Errorf("Scale(%v) should fail", f)
		}
	}
}

func TestFitPreview(t *testing.T) {
	big := createInMemoryImage(200, 100, color.White)
	if got := FitPreview(big, 50).Bounds(); got.Dx() != 50 || got.Dy() != 25 {
		t.Errorf("fit 200x100 into 50: got %v", got)
	}

	small := createInMemoryImage(20, 10, color.White)
	if got := FitPreview(small, 50).Bounds(); got.Dx() != 20 || got.Dy() != 10 {
		t.Errorf("small image resized: got %v", got)
	}
}
