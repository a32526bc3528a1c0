package render

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font weights available to the frame renderers. Both ship embedded in
// the binary so rendering never depends on system font paths.
const (
	WeightRegular = iota
	WeightBold
)

type faceKey struct {
	weight int
	size   int
}

var (
	fontMu    sync.Mutex
	fontCache = map[faceKey]font.Face{}
	parsedMu  sync.Once
	regularFt *opentype.Font
	boldFt    *opentype.Font
)

func parseFonts() {
	parsedMu.Do(func() {
		regularFt, _ = opentype.Parse(goregular.TTF)
		boldFt, _ = opentype.Parse(gobold.TTF)
	})
}

// Face returns a cached face at the given pixel size. Faces are never
// released; a run touches maybe a dozen sizes total.
func Face(weight, size int) font.Face {
	parseFonts()
	fontMu.Lock()
	defer fontMu.Unlock()

	key := faceKey{weight, size}
	if f, ok := fontCache[key]; ok {
		return f
	}
	ft := regularFt
	if weight == WeightBold {
		ft = boldFt
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only reachable if the embedded TTFs fail to parse.
		face = basicfont.Face7x13
	}
	fontCache[key] = face
	return face
}

// MeasureText returns the advance width of s in pixels.
func MeasureText(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// DrawText draws s with its baseline at (x, y).
func DrawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// DrawTextCentered draws s horizontally centered on cx with its
// baseline at y.
func DrawTextCentered(img *image.RGBA, face font.Face, s string, cx, y int, c color.RGBA) {
	w := MeasureText(face, s)
	DrawText(img, face, s, cx-w/2, y, c)
}

// DrawTextShadowed draws s with a dark offset copy underneath, the
// cheap drop shadow every overlay here uses.
func DrawTextShadowed(img *image.RGBA, face font.Face, s string, x, y int, c, shadow color.RGBA, offset int) {
	DrawText(img, face, s, x+offset, y+offset, shadow)
	DrawText(img, face, s, x, y, c)
}

// WrapText splits text into lines no wider than maxWidth using greedy
// word wrapping. A single word wider than maxWidth gets its own line.
func WrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if MeasureText(face, candidate) <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	lines = append(lines, current)
	return lines
}
