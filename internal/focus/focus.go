// Package focus finds the visually busy region of a still image so the
// Ken Burns pan can drift toward it instead of always zooming on dead
// center.
package focus

import (
	"image"
	"image/color"
	"log"
	"math"
	"os"

	_ "image/jpeg"
	_ "image/png"
)

// Region is a detected area of interest with an edge-density weight.
type Region struct {
	Rect   image.Rectangle
	Weight float64
}

// Detector finds salient regions using Sobel edges, dilation, and
// connected-component grouping.
type Detector struct {
	MinRegionArea int     // minimum area in pixels squared
	EdgeThreshold float64 // gradient magnitude cutoff
	MaxDim        int     // images are downsampled to this before analysis
}

func NewDetector() *Detector {
	return &Detector{
		MinRegionArea: 500,
		EdgeThreshold: 30.0,
		MaxDim:        480,
	}
}

// Point is a normalized focus target in [0,1]x[0,1].
type Point struct {
	X float64
	Y float64
}

// Center is the fallback focus when detection finds nothing.
var Center = Point{X: 0.5, Y: 0.5}

// FocusPoint loads an image and returns the normalized center of its
// most salient region. Any failure falls back to center focus; a pan
// toward the middle is always safe.
func (d *Detector) FocusPoint(path string) Point {
	f, err := os.Open(path)
	if err != nil {
		return Center
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("[focus] %s: decode failed, using center: %v", path, err)
		return Center
	}
	return d.FocusPointImage(img)
}

// FocusPointImage is FocusPoint for an already-decoded image.
func (d *Detector) FocusPointImage(img image.Image) Point {
	regions := d.Detect(img)
	if len(regions) == 0 {
		return Center
	}

	best := regions[0]
	for _, r := range regions[1:] {
		if r.Weight > best.Weight {
			best = r
		}
	}

	b := img.Bounds()
	cx := float64(best.Rect.Min.X+best.Rect.Max.X) / 2
	cy := float64(best.Rect.Min.Y+best.Rect.Max.Y) / 2
	return Point{
		X: clamp01((cx - float64(b.Min.X)) / float64(b.Dx())),
		Y: clamp01((cy - float64(b.Min.Y)) / float64(b.Dy())),
	}
}

// Detect returns salient regions in the image's own coordinates.
func (d *Detector) Detect(img image.Image) []Region {
	gray, scale := d.downsampleGray(img)
	edges := sobelEdges(gray, d.EdgeThreshold)
	dilated := dilate(edges, 5, 2)

	minArea := int(float64(d.MinRegionArea) * scale * scale)
	if minArea < 16 {
		minArea = 16
	}

	var regions []Region
	for _, comp := range connectedComponents(dilated) {
		area := comp.rect.Dx() * comp.rect.Dy()
		if area < minArea {
			continue
		}
		// Weight by filled pixels, not bounding-box area, so a dense
		// subject beats a sparse scatter of edges.
		regions = append(regions, Region{
			Rect:   scaleRect(comp.rect, 1/scale),
			Weight: float64(comp.filled),
		})
	}
	return regions
}

// downsampleGray converts to grayscale at no more than MaxDim on the
// long side. Returns the scale factor applied.
func (d *Detector) downsampleGray(img image.Image) (*image.Gray, float64) {
	b := img.Bounds()
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	scale := 1.0
	if d.MaxDim > 0 && long > d.MaxDim {
		scale = float64(d.MaxDim) / float64(long)
	}

	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := b.Min.Y + int(float64(y)/scale)
		for x := 0; x < w; x++ {
			sx := b.Min.X + int(float64(x)/scale)
			gray.Set(x, y, color.GrayModel.Convert(img.At(sx, sy)))
		}
	}
	return gray, scale
}

func scaleRect(r image.Rectangle, factor float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Min.X)*factor),
		int(float64(r.Min.Y)*factor),
		int(float64(r.Max.X)*factor),
		int(float64(r.Max.Y)*factor),
	)
}

func sobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	b := gray.Bounds()
	edges := image.NewGray(b)

	gx := [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	gy := [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					p := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += p * float64(gx[ky+1][kx+1])
					sumY += p * float64(gy[ky+1][kx+1])
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	b := img.Bounds()
	result := image.NewGray(b)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2
	for iter := 0; iter < iterations; iter++ {
		next := image.NewGray(b)
		for y := b.Min.Y + half; y < b.Max.Y-half; y++ {
			for x := b.Min.X + half; x < b.Max.X-half; x++ {
				var maxVal uint8
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						if v := result.GrayAt(x+kx, y+ky).Y; v > maxVal {
							maxVal = v
						}
					}
				}
				next.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = next
	}
	return result
}

type component struct {
	rect   image.Rectangle
	filled int
}

func connectedComponents(img *image.Gray) []component {
	b := img.Bounds()
	visited := make([]bool, b.Dx()*b.Dy())
	idx := func(x, y int) int { return (y-b.Min.Y)*b.Dx() + (x - b.Min.X) }

	var comps []component
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[idx(x, y)] {
				comps = append(comps, floodFill(img, visited, idx, x, y))
			}
		}
	}
	return comps
}

func floodFill(img *image.Gray, visited []bool, idx func(x, y int) int, startX, startY int) component {
	b := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	filled := 0

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < b.Min.X || p.X >= b.Max.X || p.Y < b.Min.Y || p.Y >= b.Max.Y {
			continue
		}
		if visited[idx(p.X, p.Y)] || img.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[idx(p.X, p.Y)] = true
		filled++

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return component{rect: image.Rect(minX, minY, maxX+1, maxY+1), filled: filled}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
