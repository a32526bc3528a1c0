package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// ChartColors is the palette cycled through by infographic elements.
var ChartColors = []color.RGBA{
	{255, 215, 0, 255},   // gold
	{100, 200, 255, 255}, // sky blue
	{255, 120, 160, 255}, // pink
	{120, 255, 160, 255}, // green
	{200, 140, 255, 255}, // purple
	{255, 180, 100, 255}, // orange
}

// Gold is the accent used by text highlights and cursors.
var Gold = color.RGBA{255, 215, 0, 255}

// ParseHex parses #RGB or #RRGGBB into an opaque color. Invalid input
// yields white so a bad config value stays visible instead of crashing.
func ParseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.RGBA{255, 255, 255, 255}
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{255, 255, 255, 255}
		}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{r, g, b, 255}
}

// Scale multiplies a color's channels by opacity in [0,1], keeping it
// opaque. Drawing dimmed text on an opaque background fakes alpha the
// same way the frame renderers do.
func Scale(c color.RGBA, opacity float64) color.RGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: 255,
	}
}

// LerpColor blends a toward b by t in [0,1].
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

// FillGradient paints a vertical gradient across the whole frame.
func FillGradient(img *image.RGBA, top, bottom color.RGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h-1)
		row := LerpColor(top, bottom, t)
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, b.Min.Y+y, row)
		}
	}
}

// FillSolid paints the whole frame one color.
func FillSolid(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// FillRect paints an axis-aligned rectangle clipped to the frame.
func FillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	b := img.Bounds()
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// FillCircle paints a filled circle clipped to the frame.
func FillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				if image.Pt(x, y).In(img.Bounds()) {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}
