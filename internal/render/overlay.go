package render

import (
	"image"
)

// RenderTextOverlay renders a scene's headline text as a transparent
// full-width strip: wrapped, centered, white with a black outline.
// Composite it at a quarter of the frame height.
func RenderTextOverlay(text string, videoW int, cfg TextOverlayStyle) *image.RGBA {
	size := cfg.FontSize
	if size <= 0 {
		size = 64
	}
	face := Face(WeightBold, size)
	lines := WrapText(face, text, int(float64(videoW)*0.85))
	lineH := size + size/4
	stripH := len(lines)*lineH + 40

	img := image.NewRGBA(image.Rect(0, 0, videoW, stripH))
	textColor := ParseHex(cfg.Color)
	strokeColor := ParseHex(cfg.StrokeColor)
	strokeW := cfg.StrokeWidth
	if strokeW <= 0 {
		strokeW = 3
	}

	for i, line := range lines {
		tw := MeasureText(face, line)
		x := (videoW - tw) / 2
		y := 20 + i*lineH + size
		for dx := -strokeW; dx <= strokeW; dx++ {
			for dy := -strokeW; dy <= strokeW; dy++ {
				if dx != 0 || dy != 0 {
					DrawText(img, face, line, x+dx, y+dy, strokeColor)
				}
			}
		}
		DrawText(img, face, line, x, y, textColor)
	}
	return img
}

// TextOverlayStyle configures headline overlays.
type TextOverlayStyle struct {
	FontSize    int
	Color       string
	StrokeColor string
	StrokeWidth int
}

// DefaultTextOverlayStyle matches the configured subtitle palette.
func DefaultTextOverlayStyle() TextOverlayStyle {
	return TextOverlayStyle{FontSize: 64, Color: "#FFFFFF", StrokeColor: "#000000", StrokeWidth: 3}
}

// SaveTextOverlay renders and writes the overlay strip as a PNG.
func SaveTextOverlay(text string, videoW int, cfg TextOverlayStyle, outPath string) error {
	return writePNG(outPath, RenderTextOverlay(text, videoW, cfg))
}
