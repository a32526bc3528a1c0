package timeline

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"shortreel/internal/focus"
)

// KenBurnsEffect names a pan/zoom movement for still images.
type KenBurnsEffect string

const (
	KenBurnsZoomIn   KenBurnsEffect = "zoom_in"
	KenBurnsZoomOut  KenBurnsEffect = "zoom_out"
	KenBurnsPanLeft  KenBurnsEffect = "pan_left"
	KenBurnsPanRight KenBurnsEffect = "pan_right"
	KenBurnsDiagonal KenBurnsEffect = "diagonal"
)

var kenBurnsEffects = []KenBurnsEffect{
	KenBurnsZoomIn, KenBurnsZoomOut, KenBurnsPanLeft, KenBurnsPanRight, KenBurnsDiagonal,
}

// PickKenBurns chooses an effect pseudo-randomly but stably: the same
// scene of the same topic always moves the same way.
func PickKenBurns(topic string, sceneIndex int) KenBurnsEffect {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%d", topic, sceneIndex)
	rng := rand.New(rand.NewSource(int64(h.Sum32())))
	return kenBurnsEffects[rng.Intn(len(kenBurnsEffects))]
}

// KenBurnsFilter builds the ffmpeg filter chain that animates a still
// image: upscale for headroom, zoompan with the effect's zoom and pan
// expressions, then scale to the output size. The focus point steers
// where zooms anchor and pans settle; center focus reproduces the
// symmetric motion.
func KenBurnsFilter(effect KenBurnsEffect, width, height, fps int, duration float64, fp focus.Point) string {
	totalFrames := int(duration * float64(fps))
	if totalFrames < 1 {
		totalFrames = 1
	}
	// Frame progress in [0,1].
	p := fmt.Sprintf("(on/%d)", totalFrames)

	// Anchor expressions scaled by the normalized focus point.
	anchorX := func(f float64) string { return fmt.Sprintf("(iw-(iw/zoom))*%.3f", f) }
	anchorY := func(f float64) string { return fmt.Sprintf("(ih-(ih/zoom))*%.3f", f) }

	var z, x, y string
	switch effect {
	case KenBurnsZoomOut:
		z = fmt.Sprintf("1.15-0.15*%s", p)
		x = anchorX(fp.X)
		y = anchorY(fp.Y)
	case KenBurnsPanLeft:
		z = "1.05"
		x = fmt.Sprintf("(iw-(iw/zoom))*(1-%s)", p)
		y = anchorY(fp.Y)
	case KenBurnsPanRight:
		z = "1.05"
		x = fmt.Sprintf("(iw-(iw/zoom))*%s", p)
		y = anchorY(fp.Y)
	case KenBurnsDiagonal:
		z = fmt.Sprintf("1+0.1*%s", p)
		x = fmt.Sprintf("(iw-(iw/zoom))*0.6*%s", p)
		y = fmt.Sprintf("(ih-(ih/zoom))*0.6*%s", p)
	default: // zoom_in
		z = fmt.Sprintf("1+0.15*%s", p)
		x = anchorX(fp.X)
		y = anchorY(fp.Y)
	}

	aspect := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		width*2, height*2, width*2, height*2,
	)
	zoompan := fmt.Sprintf(
		"zoompan=z='%s':d=%d:s=%dx%d:x='%s':y='%s':fps=%d",
		z, totalFrames, width, height, x, y, fps,
	)
	return fmt.Sprintf("%s,%s,scale=%d:%d", aspect, zoompan, width, height)
}
