package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"shortreel/internal/config"
	"shortreel/internal/storyboard"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#FFD700", color.RGBA{255, 215, 0, 255}},
		{"ffd700", color.RGBA{255, 215, 0, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"garbage", color.RGBA{255, 255, 255, 255}},
		{"", color.RGBA{255, 255, 255, 255}},
	}
	for _, c := range cases {
		if got := ParseHex(c.in); got != c.want {
			t.Errorf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLerpColor(t *testing.T) {
	a := color.RGBA{0, 0, 0, 255}
	b := color.RGBA{200, 100, 50, 255}
	mid := LerpColor(a, b, 0.5)
	if mid.R != 100 || mid.G != 50 || mid.B != 25 {
		t.Errorf("midpoint = %v", mid)
	}
	if LerpColor(a, b, -1) != a || LerpColor(a, b, 2) != b {
		t.Error("lerp should clamp t to [0,1]")
	}
}

func TestWrapText(t *testing.T) {
	face := Face(WeightBold, 52)
	lines := WrapText(face, "the quick brown fox jumps over the lazy dog", 300)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := MeasureText(face, line); w > 300 {
			t.Errorf("line %q is %dpx wide, over the 300px limit", line, w)
		}
	}
	if got := WrapText(face, "", 300); got != nil {
		t.Errorf("empty text should wrap to nil, got %v", got)
	}
}

func TestMotionFrameCount(t *testing.T) {
	m := NewMotion(270, 480)
	for _, effect := range []string{"typewriter", "fade_words", "slide_in", "kinetic_typography", "counter", "lower_third", "title_card", "unknown"} {
		seq, err := m.Render(effect, "Focus on one thing", 3.0, nil)
		if err != nil {
			t.Fatalf("%s: %v", effect, err)
		}
		if len(seq.Frames) != 30 {
			t.Errorf("%s: %d frames for 3s at 10fps, want 30", effect, len(seq.Frames))
		}
		if seq.Frames[0].Bounds() != image.Rect(0, 0, 270, 480) {
			t.Errorf("%s: frame bounds %v", effect, seq.Frames[0].Bounds())
		}
	}
}

func TestMotionMinimumDuration(t *testing.T) {
	m := NewMotion(270, 480)
	seq, err := m.Render("title_card", "Hi", 0.5, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Durations under two seconds are stretched to two.
	if len(seq.Frames) != 20 {
		t.Errorf("got %d frames, want 20", len(seq.Frames))
	}
}

func TestKineticDeterministic(t *testing.T) {
	m := NewMotion(270, 480)
	a, _ := m.Render("kinetic_typography", "Discipline beats motivation", 2.0, nil)
	b, _ := m.Render("kinetic_typography", "Discipline beats motivation", 2.0, nil)
	last := len(a.Frames) - 1
	if !samePixels(a.Frames[last], b.Frames[last]) {
		t.Error("same text should render identical kinetic frames")
	}
}

func TestGenerateChartItems(t *testing.T) {
	items := generateChartItems("sleep memory focus")
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Label != "Sleep" {
		t.Errorf("label = %q, want capitalized word", items[0].Label)
	}
	for _, it := range items {
		if it.Value < 30 || it.Value > 95 {
			t.Errorf("value %d out of [30,95]", it.Value)
		}
	}

	again := generateChartItems("sleep memory focus")
	for i := range items {
		if items[i] != again[i] {
			t.Error("same label should produce the same items")
		}
	}

	padded := generateChartItems("solo")
	if len(padded) != 3 {
		t.Errorf("short labels should pad to 3 items, got %d", len(padded))
	}
}

func TestInfographicFrameCount(t *testing.T) {
	r := NewInfographic(270, 480)
	for _, chart := range []string{"bar_chart", "pie_chart", "statistics", "comparison", "process", "bogus"} {
		seq, err := r.Render(chart, "Why It Works", "sleep memory focus", 4.0, nil)
		if err != nil {
			t.Fatalf("%s: %v", chart, err)
		}
		if len(seq.Frames) != 40 {
			t.Errorf("%s: %d frames for 4s at 10fps, want 40", chart, len(seq.Frames))
		}
	}
}

func TestFillPieSliceFullCircle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	c := color.RGBA{255, 0, 0, 255}
	fillPieSlice(img, 50, 50, 40, -90, 360, c)
	if img.RGBAAt(50, 20) != c || img.RGBAAt(80, 50) != c || img.RGBAAt(50, 80) != c {
		t.Error("full sweep should cover the whole circle")
	}
	if img.RGBAAt(5, 5) == c {
		t.Error("pixels outside the radius should stay untouched")
	}
}

func TestParseChatScript(t *testing.T) {
	msgs := ParseChatScript("Anna: Did you hear?\nBen: Hear what?\nAnna: The news!")
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Speaker != "Anna" || msgs[0].Right {
		t.Errorf("first speaker should sit left: %+v", msgs[0])
	}
	if msgs[1].Speaker != "Ben" || !msgs[1].Right {
		t.Errorf("second speaker should sit right: %+v", msgs[1])
	}

	alt := ParseChatScript("First point. Second point. Third point.")
	if len(alt) != 3 {
		t.Fatalf("sentence split got %d messages, want 3", len(alt))
	}
	if alt[0].Right || !alt[1].Right {
		t.Error("sentences should alternate sides")
	}
}

func TestPodcastFrameCount(t *testing.T) {
	p := NewPodcast(270, 480)
	seq, err := p.Render("Ann: Cold rooms help.\nBen: Since when?", 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Frames) != 30 {
		t.Errorf("got %d frames for 3s at 10fps, want 30", len(seq.Frames))
	}
	if seq.Frames[0].Bounds() != image.Rect(0, 0, 270, 480) {
		t.Errorf("frame bounds %v", seq.Frames[0].Bounds())
	}
}

func TestPodcastSpeakerHandoff(t *testing.T) {
	p := NewPodcast(270, 480)
	seq, err := p.Render("Ann: Cold rooms help.\nBen: Since when?", 4.0)
	if err != nil {
		t.Fatal(err)
	}
	// The glow and line text follow the speaker, so the two halves of
	// the conversation render differently.
	if samePixels(seq.Frames[0], seq.Frames[len(seq.Frames)-1]) {
		t.Error("speaker handoff should change the frame")
	}
}

func TestStoryFrameCount(t *testing.T) {
	s := NewStory(270, 480)
	seq, err := s.Render("Narrator: It began at night.\nMia: Who is there?", 4.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Frames) != 40 {
		t.Errorf("got %d frames for 4s at 10fps, want 40", len(seq.Frames))
	}
	// Narrator beat and character beat use different layouts.
	if samePixels(seq.Frames[0], seq.Frames[len(seq.Frames)-1]) {
		t.Error("beat change should change the frame")
	}
}

func TestConversationFormats(t *testing.T) {
	r := New(270, 480)
	for _, format := range []string{"chat", "podcast", "story"} {
		sc := storyboard.NewScene("Ann: Cold rooms help.\nBen: Since when?", storyboard.VisualConversation)
		sc.Duration = 2.0
		sc.VisualParams = map[string]string{"format": format}
		seq, err := r.RenderScene(sc)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if len(seq.Frames) != 20 {
			t.Errorf("%s: got %d frames, want 20", format, len(seq.Frames))
		}
	}
}

func TestRendererDispatch(t *testing.T) {
	r := New(270, 480)

	sc := storyboard.NewScene("Your brain processes images faster than text", storyboard.VisualTextAnim)
	sc.Duration = 2.0
	sc.VisualParams = map[string]string{"effect": "typewriter", "text": "Images win"}
	seq, err := r.RenderScene(sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Frames) != 20 {
		t.Errorf("got %d frames, want 20", len(seq.Frames))
	}

	sc.Visual = storyboard.VisualStock
	if _, err := r.RenderScene(sc); err == nil {
		t.Error("stock footage should not be procedurally renderable")
	}
}

func TestRenderSubtitlesWordHighlight(t *testing.T) {
	words := []storyboard.Word{
		{Word: "never", Start: 0.0, End: 0.4},
		{Word: "skip", Start: 0.4, End: 0.7},
		{Word: "leg", Start: 0.7, End: 0.9},
		{Word: "day", Start: 0.9, End: 1.3},
		{Word: "again", Start: 1.3, End: 1.8},
	}
	cfg := config.Default().Subtitles
	dir := t.TempDir()

	events, err := RenderSubtitles(words, cfg, 540, 960, dir)
	if err != nil {
		t.Fatal(err)
	}
	// One overlay per word.
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	for i, ev := range events {
		if _, err := os.Stat(ev.Path); err != nil {
			t.Errorf("event %d: missing file %s", i, ev.Path)
		}
		if ev.End <= ev.Start {
			t.Errorf("event %d: window [%.2f, %.2f] is empty", i, ev.Start, ev.End)
		}
	}
	// Within a group each overlay holds until the next word starts.
	if events[0].End != words[1].Start {
		t.Errorf("event 0 ends at %.2f, want next word start %.2f", events[0].End, words[1].Start)
	}
	// The last word of a group uses its own end time.
	if events[3].End != words[3].End {
		t.Errorf("event 3 ends at %.2f, want %.2f", events[3].End, words[3].End)
	}
}

func TestRenderSubtitlesClassic(t *testing.T) {
	words := []storyboard.Word{
		{Word: "one", Start: 0.0, End: 0.3},
		{Word: "two", Start: 0.3, End: 0.6},
		{Word: "three", Start: 0.6, End: 0.8},
		{Word: "four", Start: 0.8, End: 1.1},
		{Word: "five", Start: 1.1, End: 1.4},
	}
	cfg := config.Default().Subtitles
	cfg.Style = "classic"

	events, err := RenderSubtitles(words, cfg, 540, 960, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// Two groups of up to four words.
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Start != 0.0 || events[0].End != 1.1 {
		t.Errorf("group 0 window [%.2f, %.2f], want [0.00, 1.10]", events[0].Start, events[0].End)
	}
}

func TestRenderSubtitlesEmpty(t *testing.T) {
	events, err := RenderSubtitles(nil, config.Default().Subtitles, 540, 960, t.TempDir())
	if err != nil || events != nil {
		t.Errorf("empty input: events=%v err=%v", events, err)
	}
}

func TestRenderCTACard(t *testing.T) {
	img, err := RenderCTACard("Follow for more", "https://example.com/follow", 540, 960)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 540, 960) {
		t.Fatalf("bounds %v", img.Bounds())
	}

	// The QR block paints an opaque square; find it.
	opaque := 0
	for y := 0; y < 960; y++ {
		for x := 0; x < 540; x++ {
			if img.RGBAAt(x, y).A == 255 {
				opaque++
			}
		}
	}
	if opaque < qrSize*qrSize {
		t.Errorf("expected at least the QR area opaque, got %d pixels", opaque)
	}

	path := filepath.Join(t.TempDir(), "cta.png")
	if err := SaveCTACard("Follow for more", "", 540, 960, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func samePixels(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
