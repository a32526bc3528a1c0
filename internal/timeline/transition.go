package timeline

import (
	"image"

	"shortreel/internal/anim"
	"shortreel/internal/storyboard"
)

// XfadeName maps a transition to the ffmpeg xfade name used when two
// file-based segments are joined. Unknown types fall back to a plain
// fade; zoom-out has no xfade equivalent and fades too.
func XfadeName(t storyboard.TransitionType) string {
	switch t {
	case storyboard.TransitionCrossfade:
		return "fade"
	case storyboard.TransitionFadeBlack:
		return "fadeblack"
	case storyboard.TransitionSlideLeft:
		return "slideleft"
	case storyboard.TransitionSlideRight:
		return "slideright"
	case storyboard.TransitionZoomIn:
		return "zoomin"
	default:
		return "fade"
	}
}

// ApplyTransition bakes a transition-in into the head frames of a
// procedurally rendered sequence. Cut and non-positive durations leave
// the frames untouched. Effects the pixel transforms cannot express
// degrade to the crossfade ramp.
func ApplyTransition(seq *anim.FrameSeq, t storyboard.TransitionType, duration float64) {
	if seq == nil || len(seq.Frames) == 0 || duration <= 0 || t == storyboard.TransitionCut {
		return
	}

	headFrames := int(duration * float64(seq.FPS))
	if headFrames > len(seq.Frames) {
		headFrames = len(seq.Frames)
	}

	for f := 0; f < headFrames; f++ {
		p := float64(f) / float64(headFrames)

		switch t {
		case storyboard.TransitionSlideLeft:
			slideFrame(seq.Frames[f], anim.EaseOutCubic(p), true)
		case storyboard.TransitionSlideRight:
			slideFrame(seq.Frames[f], anim.EaseOutCubic(p), false)
		case storyboard.TransitionZoomIn:
			zoomInFrame(seq.Frames[f], anim.EaseOutCubic(p))
		case storyboard.TransitionZoomOut:
			zoomOutFrame(seq.Frames[f], anim.EaseOutCubic(p))
		default: // crossfade, fade_black
			fadeFrame(seq.Frames[f], p)
		}
	}
}

// fadeFrame scales every channel toward black by p in [0,1].
func fadeFrame(img *image.RGBA, p float64) {
	if p >= 1 {
		return
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i]) * p)
		img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * p)
		img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * p)
	}
}

// slideFrame shifts content horizontally, filling the vacated side
// with black. fromRight means the content enters from the right edge.
func slideFrame(img *image.RGBA, p float64, fromRight bool) {
	b := img.Bounds()
	w := b.Dx()
	offset := int(float64(w) * (1 - p))
	if offset <= 0 {
		return
	}
	if offset >= w {
		fadeFrame(img, 0)
		return
	}

	rowBytes := w * 4
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		if fromRight {
			// Visible columns [offset, w) move to [0, w-offset).
			copy(row[:(w-offset)*4], row[offset*4:])
			zero(row[(w-offset)*4:])
		} else {
			copy(row[offset*4:], row[:(w-offset)*4])
			zero(row[:offset*4])
		}
	}
}

// zoomInFrame shrinks content to scale 0.3..1.0 centered on black,
// with an alpha ramp that finishes ahead of the zoom.
func zoomInFrame(img *image.RGBA, p float64) {
	scale := 0.3 + 0.7*p
	alpha := p * 1.5
	if alpha > 1 {
		alpha = 1
	}
	if scale >= 0.999 {
		return
	}
	scaled := resampleScale(img, scale, true)
	copy(img.Pix, scaled.Pix)
	fadeFrame(img, alpha)
}

// zoomOutFrame over-scales content 1.5..1.0 cropping the center, with
// the same alpha ramp.
func zoomOutFrame(img *image.RGBA, p float64) {
	scale := 1.5 - 0.5*p
	alpha := p * 1.5
	if alpha > 1 {
		alpha = 1
	}
	if scale <= 1.001 {
		return
	}
	scaled := resampleScale(img, scale, false)
	copy(img.Pix, scaled.Pix)
	fadeFrame(img, alpha)
}

// resampleScale nearest-neighbor rescales the frame. When pad is true
// the result is the shrunken image centered on black; otherwise the
// enlarged image cropped to the original bounds.
func resampleScale(img *image.RGBA, scale float64, pad bool) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	offX := (w - newW) / 2
	offY := (h - newH) / 2

	if pad {
		for y := 0; y < newH; y++ {
			sy := y * h / newH
			for x := 0; x < newW; x++ {
				sx := x * w / newW
				out.SetRGBA(offX+x, offY+y, img.RGBAAt(sx, sy))
			}
		}
		return out
	}

	// Crop path: sample the enlarged image's center window.
	for y := 0; y < h; y++ {
		sy := (y - offY) * h / newH
		if sy < 0 {
			sy = 0
		}
		if sy >= h {
			sy = h - 1
		}
		for x := 0; x < w; x++ {
			sx := (x - offX) * w / newW
			if sx < 0 {
				sx = 0
			}
			if sx >= w {
				sx = w - 1
			}
			out.SetRGBA(x, y, img.RGBAAt(sx, sy))
		}
	}
	return out
}

func zero(p []uint8) {
	for i := range p {
		p[i] = 0
	}
}
