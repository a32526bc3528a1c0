package timeline

import (
	"image"
	"math"
	"strings"
	"testing"

	"shortreel/internal/anim"
	"shortreel/internal/config"
	"shortreel/internal/focus"
	"shortreel/internal/render"
	"shortreel/internal/storyboard"
)

func TestAllocate(t *testing.T) {
	slots := Allocate(3, 30, true)
	if len(slots) != 3 {
		t.Fatalf("got %d slots", len(slots))
	}
	// 30s - 3s hook - 3s cta = 24s over 3 scenes.
	if slots[0].Start != 3.0 || slots[0].Duration != 8.0 {
		t.Errorf("slot 0 = %+v, want start 3 duration 8", slots[0])
	}
	if slots[2].Start != 19.0 {
		t.Errorf("slot 2 starts at %.1f, want 19", slots[2].Start)
	}

	// Without a CTA the tail time goes to the scenes.
	noCTA := Allocate(3, 30, false)
	if noCTA[0].Duration != 9.0 {
		t.Errorf("duration without cta = %.1f, want 9", noCTA[0].Duration)
	}
}

func TestAllocateMinimumScene(t *testing.T) {
	// 10s total leaves barely anything after the hook; scenes still
	// get three seconds each.
	slots := Allocate(4, 10, true)
	for i, s := range slots {
		if s.Duration != 3.0 {
			t.Errorf("slot %d duration = %.1f, want clamp to 3", i, s.Duration)
		}
	}
	if Allocate(0, 30, false) != nil {
		t.Error("zero scenes should allocate nothing")
	}
}

func TestPickKenBurnsStable(t *testing.T) {
	a := PickKenBurns("morning routines", 2)
	b := PickKenBurns("morning routines", 2)
	if a != b {
		t.Errorf("same inputs picked %s then %s", a, b)
	}
}

func TestKenBurnsFilter(t *testing.T) {
	f := KenBurnsFilter(KenBurnsZoomIn, 1080, 1920, 30, 5.0, focus.Center)
	for _, want := range []string{"zoompan=", "d=150", "s=1080x1920", "scale=1080:1920"} {
		if !strings.Contains(f, want) {
			t.Errorf("filter missing %q: %s", want, f)
		}
	}

	// Focus steering shifts the anchor away from 0.5.
	steered := KenBurnsFilter(KenBurnsZoomIn, 1080, 1920, 30, 5.0, focus.Point{X: 0.8, Y: 0.3})
	if !strings.Contains(steered, "*0.800") || !strings.Contains(steered, "*0.300") {
		t.Errorf("focus point not in filter: %s", steered)
	}

	pan := KenBurnsFilter(KenBurnsPanLeft, 1080, 1920, 30, 5.0, focus.Center)
	if !strings.Contains(pan, "z='1.05'") {
		t.Errorf("pan should hold a fixed mild zoom: %s", pan)
	}
}

func TestXfadeName(t *testing.T) {
	cases := map[storyboard.TransitionType]string{
		storyboard.TransitionCrossfade:  "fade",
		storyboard.TransitionFadeBlack:  "fadeblack",
		storyboard.TransitionSlideLeft:  "slideleft",
		storyboard.TransitionSlideRight: "slideright",
		storyboard.TransitionZoomIn:     "zoomin",
		storyboard.TransitionZoomOut:    "fade",
		storyboard.TransitionCut:        "fade",
	}
	for in, want := range cases {
		if got := XfadeName(in); got != want {
			t.Errorf("XfadeName(%s) = %q, want %q", in, got, want)
		}
	}
}

func whiteSeq(frames, w, h int) *anim.FrameSeq {
	seq := anim.NewFrameSeq(anim.DefaultFPS)
	for i := 0; i < frames; i++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for p := 0; p < len(img.Pix); p++ {
			img.Pix[p] = 255
		}
		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

func TestApplyTransitionCrossfade(t *testing.T) {
	seq := whiteSeq(20, 8, 8)
	ApplyTransition(seq, storyboard.TransitionCrossfade, 1.0)

	// First frame fully dark, frames past the window untouched.
	if seq.Frames[0].Pix[0] != 0 {
		t.Errorf("first frame channel = %d, want 0", seq.Frames[0].Pix[0])
	}
	if seq.Frames[15].Pix[0] != 255 {
		t.Errorf("frame past window = %d, want 255", seq.Frames[15].Pix[0])
	}
	// Midway the ramp is partial.
	mid := seq.Frames[5].Pix[0]
	if mid == 0 || mid == 255 {
		t.Errorf("mid-ramp channel = %d, want partial", mid)
	}
}

func TestApplyTransitionCutIsIdentity(t *testing.T) {
	seq := whiteSeq(10, 8, 8)
	ApplyTransition(seq, storyboard.TransitionCut, 1.0)
	ApplyTransition(seq, storyboard.TransitionCrossfade, 0)
	if seq.Frames[0].Pix[0] != 255 {
		t.Error("cut and zero-duration transitions should not touch frames")
	}
}

func TestApplyTransitionSlide(t *testing.T) {
	seq := whiteSeq(20, 10, 4)
	ApplyTransition(seq, storyboard.TransitionSlideLeft, 1.0)

	// Early in the slide the left side shows content and the right
	// side is still vacated... content enters from the right, so the
	// vacated black region sits on the right.
	frame := seq.Frames[2]
	if frame.Pix[0] != 255 {
		t.Errorf("leading edge should show content, got %d", frame.Pix[0])
	}
	lastCol := (10 - 1) * 4
	if frame.Pix[lastCol] != 0 {
		t.Errorf("trailing edge should be vacated, got %d", frame.Pix[lastCol])
	}
}

func buildStoryboard() *storyboard.Storyboard {
	sb := storyboard.New("deep sleep", "en", "education", 30)
	sb.Hook = "You are sleeping wrong"
	sb.CTA = "Follow for more"

	s0 := storyboard.NewScene("Cooler rooms mean deeper sleep", storyboard.VisualStock)
	s0.VisualPath = "/cache/stock/abc.mp4"
	sb.AddScene(s0)

	s1 := storyboard.NewScene("Your brain flushes toxins at night", storyboard.VisualAIImage)
	s1.VisualPath = "/cache/ai_image/scene_001.jpg"
	sb.AddScene(s1)

	s2 := storyboard.NewScene("Try it tonight", storyboard.VisualTextAnim)
	s2.VisualClip = whiteSeq(20, 4, 4)
	sb.AddScene(s2)

	sb.Narration = storyboard.NarrationTrack{
		AudioPath: "/cache/tts/abc.mp3",
		Duration:  30,
		Words: []storyboard.Word{
			{Word: "you", Start: 0.0, End: 0.3},
			{Word: "are", Start: 0.3, End: 0.5},
		},
	}
	return sb
}

func TestBuildPlanSegments(t *testing.T) {
	sb := buildStoryboard()
	cfg := config.Default()
	plan := BuildPlan(sb, cfg, Assets{})

	if plan.Total != 30 {
		t.Fatalf("total = %.1f, want narration duration 30", plan.Total)
	}
	// Hook filler + 3 scenes; slots cover 3..27 and the CTA tail needs
	// a filler through 30.
	if len(plan.Segments) != 5 {
		t.Fatalf("got %d segments, want 5", len(plan.Segments))
	}
	if plan.Segments[0].Kind != SegmentColor || plan.Segments[0].Start != 0 {
		t.Errorf("segment 0 should be the hook filler: %+v", plan.Segments[0])
	}
	if plan.Segments[1].Kind != SegmentVideo {
		t.Errorf("segment 1 kind = %v, want video", plan.Segments[1].Kind)
	}
	if plan.Segments[2].Kind != SegmentImage || plan.Segments[2].Effect == "" {
		t.Errorf("segment 2 should be a Ken Burns image: %+v", plan.Segments[2])
	}
	if plan.Segments[3].Kind != SegmentFrames {
		t.Errorf("segment 3 kind = %v, want frames", plan.Segments[3].Kind)
	}
	// Procedural segments bake their own transition.
	if plan.Segments[3].Transition != storyboard.TransitionCut {
		t.Errorf("frames segment join transition = %s, want cut", plan.Segments[3].Transition)
	}

	tail := plan.Segments[4]
	if tail.Kind != SegmentColor {
		t.Errorf("tail filler kind = %v", tail.Kind)
	}
	if math.Abs(tail.Start+tail.Duration-30) > 1e-9 {
		t.Errorf("tail ends at %.2f, want 30", tail.Start+tail.Duration)
	}
}

func TestBuildPlanOverlays(t *testing.T) {
	sb := buildStoryboard()
	cfg := config.Default()
	cfg.Brand.CTA.Enabled = true
	cfg.Brand.CTA.URL = "https://example.com"

	assets := Assets{
		MusicPath: "/assets/music/chill.mp3",
		LogoPath:  "/assets/logo.png",
		CTAPath:   "/tmp/cta.png",
		HookPath:  "/tmp/hook.png",
		Subtitles: []render.SubtitleEvent{
			{Path: "/tmp/sub_0000.png", Start: 0.0, End: 0.3, Y: 1400},
		},
	}
	plan := BuildPlan(sb, cfg, assets)

	if plan.MusicPath == "" || plan.MusicVolume != 0.15 {
		t.Errorf("music not wired: %+v", plan)
	}

	var hook, logo, cta, sub bool
	for _, ov := range plan.Overlays {
		switch ov.Path {
		case "/tmp/hook.png":
			hook = true
			if ov.Start != 0 || ov.End != HookDuration {
				t.Errorf("hook window [%.1f, %.1f]", ov.Start, ov.End)
			}
		case "/assets/logo.png":
			logo = true
			if ov.End != 30 || ov.Opacity != 0.8 {
				t.Errorf("logo overlay %+v", ov)
			}
		case "/tmp/cta.png":
			cta = true
			if ov.Start != 27 || ov.End != 30 {
				t.Errorf("cta window [%.1f, %.1f], want [27, 30]", ov.Start, ov.End)
			}
		case "/tmp/sub_0000.png":
			sub = true
		}
	}
	if !hook || !logo || !cta || !sub {
		t.Errorf("missing overlays: hook=%v logo=%v cta=%v sub=%v", hook, logo, cta, sub)
	}
}

func TestBuildPlanMusicDisabled(t *testing.T) {
	sb := buildStoryboard()
	cfg := config.Default()
	cfg.Music.Enabled = false

	plan := BuildPlan(sb, cfg, Assets{MusicPath: "/assets/music/chill.mp3"})
	if plan.MusicPath != "" {
		t.Error("disabled music should not reach the plan")
	}
}

func TestBuildPlanCTADisabled(t *testing.T) {
	sb := buildStoryboard()
	cfg := config.Default()
	cfg.Brand.CTA.Enabled = false

	plan := BuildPlan(sb, cfg, Assets{CTAPath: "/tmp/cta.png"})
	for _, ov := range plan.Overlays {
		if ov.Path == "/tmp/cta.png" {
			t.Error("disabled CTA should not be overlaid")
		}
	}
}
