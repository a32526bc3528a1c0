package focus

import (
	"image"
	"image/color"
	"testing"
)

// flatImage is a featureless gray canvas.
func flatImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	return img
}

// withSquare stamps a high-contrast checkered square onto img.
func withSquare(img *image.RGBA, x0, y0, size int) *image.RGBA {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFocusPointFlatImageFallsBackToCenter(t *testing.T) {
	d := NewDetector()
	p := d.FocusPointImage(flatImage(400, 400))
	if p != Center {
		t.Errorf("flat image focus = %+v, want center", p)
	}
}

func TestFocusPointFindsContrastRegion(t *testing.T) {
	d := NewDetector()
	img := withSquare(flatImage(400, 400), 250, 60, 100)

	p := d.FocusPointImage(img)
	// The square spans x in [250,350], y in [60,160]; its center is
	// (0.75, 0.275) normalized. Allow slack for dilation growth.
	if p.X < 0.6 || p.X > 0.9 {
		t.Errorf("focus X = %.3f, want near 0.75", p.X)
	}
	if p.Y < 0.15 || p.Y > 0.4 {
		t.Errorf("focus Y = %.3f, want near 0.275", p.Y)
	}
}

func TestDetectWeightsPreferDenserRegion(t *testing.T) {
	d := NewDetector()
	img := flatImage(400, 400)
	withSquare(img, 40, 40, 40)   // small
	withSquare(img, 200, 200, 120) // large

	p := d.FocusPointImage(img)
	if p.X < 0.5 || p.Y < 0.5 {
		t.Errorf("focus = %+v, want pulled toward the larger region", p)
	}
}

func TestFocusPointMissingFile(t *testing.T) {
	d := NewDetector()
	if p := d.FocusPoint("/nonexistent/image.jpg"); p != Center {
		t.Errorf("missing file focus = %+v, want center", p)
	}
}
