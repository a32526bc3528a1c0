package director

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"

	"shortreel/internal/anim"
	"shortreel/internal/config"
	"shortreel/internal/focus"
	"shortreel/internal/script"
	"shortreel/internal/storyboard"
	"shortreel/internal/timeline"
)

func newTestFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func scriptOptions() script.Options {
	return script.Options{
		Topic:    "deep sleep",
		Language: "en",
		Style:    "education",
		Duration: 30,
		Seed:     7,
	}
}

type fakeNarrator struct {
	fail bool
}

func (f *fakeNarrator) Synthesize(ctx context.Context, text, voice string) (storyboard.NarrationTrack, error) {
	if f.fail {
		return storyboard.NarrationTrack{}, errors.New("edge-tts missing")
	}
	return storyboard.NarrationTrack{
		AudioPath: "/tmp/narration.mp3",
		Duration:  25,
		Words: []storyboard.Word{
			{Word: "hello", Start: 0, End: 0.4},
			{Word: "there", Start: 0.4, End: 0.8},
		},
	}, nil
}

func (f *fakeNarrator) BestVoice(language, gender string) string { return "en-US-GuyNeural" }

type fakeStock struct {
	calls []string
	fail  bool
}

func (f *fakeStock) Fetch(ctx context.Context, query string) (string, error) {
	f.calls = append(f.calls, query)
	if f.fail {
		return "", errors.New("no results")
	}
	return "/cache/stock/clip.mp4", nil
}

type fakeImages struct {
	fail     bool
	unloaded bool
}

func (f *fakeImages) Generate(ctx context.Context, prompt string, sceneIndex int) (string, error) {
	if f.fail {
		return "", errors.New("backend down")
	}
	return fmt.Sprintf("/cache/ai_image/scene_%03d.jpg", sceneIndex), nil
}

func (f *fakeImages) Unload() { f.unloaded = true }

type fakeRenderer struct{ fail bool }

func (f *fakeRenderer) RenderScene(sc *storyboard.Scene) (*anim.FrameSeq, error) {
	if f.fail {
		return nil, errors.New("render failed")
	}
	seq := anim.NewFrameSeq(anim.DefaultFPS)
	seq.Frames = append(seq.Frames, newTestFrame())
	return seq, nil
}

type fakeExporter struct {
	plan *timeline.Plan
	fail bool
}

func (f *fakeExporter) Export(ctx context.Context, plan *timeline.Plan, outPath string) error {
	f.plan = plan
	if f.fail {
		return errors.New("ffmpeg exploded")
	}
	return nil
}

func newTestDirector(t *testing.T) (*Director, *fakeStock, *fakeImages, *fakeExporter) {
	t.Helper()
	cfg := config.Default()
	cfg.Subtitles.Enabled = false
	cfg.Music.Enabled = false

	stock := &fakeStock{}
	images := &fakeImages{}
	exp := &fakeExporter{}
	d := &Director{
		Config:   cfg,
		OutDir:   t.TempDir(),
		Narrator: &fakeNarrator{},
		Stock:    stock,
		Images:   images,
		Renderer: &fakeRenderer{},
		Exporter: exp,
		Detector: focus.NewDetector(),
	}
	return d, stock, images, exp
}

func testBoard() *storyboard.Storyboard {
	sb := storyboard.New("deep sleep", "en", "education", 30)
	sb.Hook = "You sleep wrong"
	sb.CTA = "Follow for more"
	sb.MusicMood = "chill"

	sb.AddScene(storyboard.NewScene("Cool rooms help", storyboard.VisualStock))
	sb.AddScene(storyboard.NewScene("Brains flush toxins", storyboard.VisualAIImage))
	sb.AddScene(storyboard.NewScene("Try tonight", storyboard.VisualTextAnim))
	sb.Scenes[0].VisualPrompt = "bedroom night"
	sb.Scenes[1].VisualPrompt = "cinematic brain scan"
	return sb
}

func TestExecuteStoryboardHappyPath(t *testing.T) {
	d, stock, images, exp := newTestDirector(t)
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if sb.Narration.Duration != 25 {
		t.Errorf("narration not attached: %+v", sb.Narration)
	}
	if len(stock.calls) != 1 || stock.calls[0] != "bedroom night" {
		t.Errorf("stock calls = %v", stock.calls)
	}
	if sb.Scenes[1].VisualPath == "" {
		t.Error("AI image scene has no path")
	}
	if !images.unloaded {
		t.Error("image backend not unloaded after its phase")
	}
	if sb.Scenes[2].VisualClip == nil {
		t.Error("procedural scene has no clip")
	}
	if exp.plan == nil {
		t.Fatal("exporter never called")
	}
	if exp.plan.Total != 25 {
		t.Errorf("plan total = %.1f, want narration duration", exp.plan.Total)
	}
}

func TestAIFailureDowngradesToStock(t *testing.T) {
	d, stock, images, _ := newTestDirector(t)
	images.fail = true
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if sb.Scenes[1].Visual != storyboard.VisualStock {
		t.Errorf("failed AI scene visual = %s, want stock", sb.Scenes[1].Visual)
	}
	// The downgraded scene goes through the stock phase like any other.
	if len(stock.calls) != 2 {
		t.Errorf("stock calls = %v, want both scenes", stock.calls)
	}
}

func TestNoImageBackendDowngrades(t *testing.T) {
	d, _, _, exp := newTestDirector(t)
	d.Images = nil
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if sb.Scenes[1].Visual != storyboard.VisualStock {
		t.Errorf("visual = %s, want stock", sb.Scenes[1].Visual)
	}
	if exp.plan == nil {
		t.Error("run should still export")
	}
}

func TestStockFailureLeavesFiller(t *testing.T) {
	d, stock, _, exp := newTestDirector(t)
	stock.fail = true
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err != nil {
		t.Fatalf("stock failure must not abort: %v", err)
	}
	if sb.Scenes[0].VisualPath != "" {
		t.Error("failed stock scene should stay empty")
	}
	// The compositor turns the empty scene into a color segment.
	for _, seg := range exp.plan.Segments {
		if seg.SceneIndex == 0 && seg.Kind != timeline.SegmentColor {
			t.Errorf("scene 0 segment kind = %v, want color filler", seg.Kind)
		}
	}
}

func TestNarrationFailureRendersSilent(t *testing.T) {
	d, _, _, exp := newTestDirector(t)
	d.Narrator = &fakeNarrator{fail: true}
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err != nil {
		t.Fatalf("narration failure must not abort: %v", err)
	}
	if exp.plan.NarrationPath != "" {
		t.Error("silent run should carry no narration")
	}
	if exp.plan.Total != 30 {
		t.Errorf("silent run total = %.1f, want target duration", exp.plan.Total)
	}
}

func TestExportFailureAborts(t *testing.T) {
	d, _, _, exp := newTestDirector(t)
	exp.fail = true
	sb := testBoard()

	if err := d.ExecuteStoryboard(context.Background(), sb, filepath.Join(d.OutDir, "out.mp4")); err == nil {
		t.Fatal("export failure must fail the run")
	}
}

func TestCreateStoryboardTemplateMode(t *testing.T) {
	d, _, _, _ := newTestDirector(t)
	d.Config.Brain.Mode = "template"

	sb := d.CreateStoryboard(context.Background(), scriptOptions())
	if sb == nil || len(sb.Scenes) == 0 {
		t.Fatal("template storyboard empty")
	}
	if sb.Hook == "" || sb.CTA == "" {
		t.Errorf("hook/CTA missing: %q %q", sb.Hook, sb.CTA)
	}
}

func TestCreateStoryboardClaudeModeFallsBack(t *testing.T) {
	d, _, _, _ := newTestDirector(t)
	d.Config.Brain.Mode = "claude"
	t.Setenv("ANTHROPIC_API_KEY", "")

	// No API key means the LLM writer errors and templates take over.
	sb := d.CreateStoryboard(context.Background(), scriptOptions())
	if sb == nil || len(sb.Scenes) == 0 {
		t.Fatal("fallback storyboard empty")
	}
}
