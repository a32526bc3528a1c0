package anim

import "image"

// DefaultFPS is the frame rate of procedurally rendered clips. Animated
// overlays do not need the full output frame rate; the encoder upsamples
// on the final pass.
const DefaultFPS = 10

// FrameSeq is a rendered clip: a fixed-rate sequence of RGBA frames.
// It is the unit the transition engine transforms and the encoder pipes
// to ffmpeg as raw video.
type FrameSeq struct {
	FPS    int
	Frames []*image.RGBA
}

func NewFrameSeq(fps int) *FrameSeq {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &FrameSeq{FPS: fps}
}

// Duration returns the clip length in seconds.
func (s *FrameSeq) Duration() float64 {
	if s == nil || s.FPS <= 0 {
		return 0
	}
	return float64(len(s.Frames)) / float64(s.FPS)
}

// FrameCount returns the number of frames needed for duration seconds at
// the sequence rate, never less than one for a positive duration.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 {
		return 0
	}
	n := int(duration * float64(fps))
	if n < 1 {
		n = 1
	}
	return n
}

// Bounds returns the pixel bounds of the clip, or the zero rectangle for
// an empty sequence.
func (s *FrameSeq) Bounds() image.Rectangle {
	if s == nil || len(s.Frames) == 0 {
		return image.Rectangle{}
	}
	return s.Frames[0].Bounds()
}
