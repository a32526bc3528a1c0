// Package timeline turns a completed storyboard into an executable
// composition plan: scene segments with their windows, overlay layers
// with enable windows, and the audio tracks to mix.
package timeline

import (
	"log"
	"path/filepath"
	"strings"

	"shortreel/internal/anim"
	"shortreel/internal/config"
	"shortreel/internal/focus"
	"shortreel/internal/render"
	"shortreel/internal/storyboard"
)

// SegmentKind says how a segment's pixels are produced.
type SegmentKind int

const (
	SegmentColor  SegmentKind = iota // flat filler
	SegmentFrames                    // procedurally rendered FrameSeq
	SegmentImage                     // still image animated with Ken Burns
	SegmentVideo                     // video file, trimmed or looped
)

// Segment is one stretch of the background layer.
type Segment struct {
	SceneIndex int // -1 for the hook lead-in and tail filler
	Kind       SegmentKind
	Start      float64
	Duration   float64

	Frames *anim.FrameSeq // SegmentFrames
	Path   string         // SegmentImage, SegmentVideo

	// Ken Burns movement for still images.
	Effect KenBurnsEffect
	Focus  focus.Point

	// Transition into this segment at concatenation time.
	Transition         storyboard.TransitionType
	TransitionDuration float64
}

// Overlay is a transparent image composited over the background for a
// time window.
type Overlay struct {
	Path    string
	X       int
	Y       int
	Start   float64
	End     float64
	Opacity float64
	FadeIn  float64
}

// Plan is everything the encoder needs for the final render.
type Plan struct {
	Width  int
	Height int
	FPS    int
	Total  float64

	Segments []Segment
	Overlays []Overlay

	NarrationPath string
	MusicPath     string
	MusicVolume   float64
	MusicFadeIn   float64
	MusicFadeOut  float64
}

// Assets are the side files the director prepared before planning:
// rendered overlay PNGs and the chosen music track.
type Assets struct {
	MusicPath   string
	LogoPath    string
	CTAPath     string
	HookPath    string         // hook text overlay PNG
	SceneText   map[int]string // scene index -> text overlay PNG
	Subtitles   []render.SubtitleEvent
	FocusPoints map[int]focus.Point // scene index -> pan target
}

// BuildPlan lays the storyboard out on the final timeline. Pure
// assembly: no file IO, so it is fully testable with fake paths.
func BuildPlan(sb *storyboard.Storyboard, cfg *config.Config, assets Assets) *Plan {
	total := sb.TotalAudioDuration()
	slots := Allocate(len(sb.Scenes), total, sb.CTA != "")

	plan := &Plan{
		Width:         cfg.Video.Width,
		Height:        cfg.Video.Height,
		FPS:           cfg.Video.FPS,
		Total:         total,
		NarrationPath: sb.Narration.AudioPath,
	}

	// Hook lead-in: color filler under the hook overlay and subtitles.
	plan.Segments = append(plan.Segments, Segment{
		SceneIndex: -1,
		Kind:       SegmentColor,
		Start:      0,
		Duration:   HookDuration,
		Transition: storyboard.TransitionCut,
	})

	for i, sc := range sb.Scenes {
		seg := Segment{
			SceneIndex:         i,
			Start:              slots[i].Start,
			Duration:           slots[i].Duration,
			Transition:         sc.TransitionIn,
			TransitionDuration: sc.TransitionDuration,
		}

		switch {
		case sc.VisualClip != nil:
			seg.Kind = SegmentFrames
			seg.Frames = sc.VisualClip
			// The transition is baked into the frames already; a second
			// one at the join would double it.
			seg.Transition = storyboard.TransitionCut
		case sc.VisualPath != "" && isImagePath(sc.VisualPath):
			seg.Kind = SegmentImage
			seg.Path = sc.VisualPath
			seg.Effect = PickKenBurns(sb.Topic, i)
			seg.Focus = focusFor(assets, i)
		case sc.VisualPath != "" && isVideoPath(sc.VisualPath):
			seg.Kind = SegmentVideo
			seg.Path = sc.VisualPath
		default:
			if sc.VisualPath != "" {
				log.Printf("[timeline] scene %d: unsupported visual %s, using filler", i, sc.VisualPath)
			}
			seg.Kind = SegmentColor
		}

		plan.Segments = append(plan.Segments, seg)
	}

	// Tail filler when the scene slots end before the narration does.
	if n := len(plan.Segments); n > 0 {
		last := plan.Segments[n-1]
		if end := last.Start + last.Duration; end < total {
			plan.Segments = append(plan.Segments, Segment{
				SceneIndex: -1,
				Kind:       SegmentColor,
				Start:      end,
				Duration:   total - end,
				Transition: storyboard.TransitionCrossfade,
			})
		}
	}

	plan.Overlays = buildOverlays(sb, cfg, assets, slots, total)

	if cfg.Music.Enabled && assets.MusicPath != "" {
		plan.MusicPath = assets.MusicPath
		plan.MusicVolume = cfg.Music.Volume
		plan.MusicFadeIn = cfg.Music.FadeIn
		plan.MusicFadeOut = cfg.Music.FadeOut
	}

	return plan
}

func buildOverlays(sb *storyboard.Storyboard, cfg *config.Config, assets Assets, slots []Slot, total float64) []Overlay {
	var overlays []Overlay

	if assets.HookPath != "" {
		overlays = append(overlays, Overlay{
			Path:    assets.HookPath,
			Y:       int(float64(cfg.Video.Height) * 0.25),
			Start:   0,
			End:     HookDuration,
			Opacity: 1,
			FadeIn:  0.3,
		})
	}

	for i := range sb.Scenes {
		path, ok := assets.SceneText[i]
		if !ok || path == "" {
			continue
		}
		overlays = append(overlays, Overlay{
			Path:    path,
			Y:       int(float64(cfg.Video.Height) * 0.25),
			Start:   slots[i].Start,
			End:     slots[i].Start + slots[i].Duration,
			Opacity: 1,
			FadeIn:  0.3,
		})
	}

	for _, ev := range assets.Subtitles {
		overlays = append(overlays, Overlay{
			Path:    ev.Path,
			X:       ev.X,
			Y:       ev.Y,
			Start:   ev.Start,
			End:     ev.End,
			Opacity: 1,
		})
	}

	if assets.LogoPath != "" {
		margin := 30
		size := cfg.Brand.LogoSize
		x, y := cfg.Video.Width-size-margin, margin
		switch cfg.Brand.LogoPosition {
		case "top_left":
			x, y = margin, margin
		case "bottom_left":
			x, y = margin, cfg.Video.Height-size-margin
		case "bottom_right":
			x, y = cfg.Video.Width-size-margin, cfg.Video.Height-size-margin
		}
		overlays = append(overlays, Overlay{
			Path:    assets.LogoPath,
			X:       x,
			Y:       y,
			Start:   0,
			End:     total,
			Opacity: cfg.Brand.LogoOpacity,
		})
	}

	if assets.CTAPath != "" && sb.CTA != "" && cfg.Brand.CTA.Enabled {
		dur := cfg.Brand.CTA.Duration
		if dur <= 0 {
			dur = CTADuration
		}
		overlays = append(overlays, Overlay{
			Path:    assets.CTAPath,
			Start:   total - dur,
			End:     total,
			Opacity: 1,
			FadeIn:  0.5,
		})
	}

	return overlays
}

func focusFor(assets Assets, sceneIndex int) focus.Point {
	if p, ok := assets.FocusPoints[sceneIndex]; ok {
		return p
	}
	return focus.Center
}

func isImagePath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func isVideoPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mp4", ".mov", ".avi", ".webm", ".mkv":
		return true
	}
	return false
}
