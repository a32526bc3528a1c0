package storyboard

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAddSceneAssignsIndices(t *testing.T) {
	sb := New("test topic", "en", "education", 30)
	for i := 0; i < 4; i++ {
		sb.AddScene(NewScene("text", VisualStock))
	}
	for i, s := range sb.Scenes {
		if s.Index != i {
			t.Errorf("scene %d has index %d", i, s.Index)
		}
	}
}

func TestSceneDefaults(t *testing.T) {
	s := NewScene("hello", VisualTextAnim)
	if s.Duration != 8.0 {
		t.Errorf("default duration = %f, want 8.0", s.Duration)
	}
	if s.TransitionIn != TransitionCrossfade {
		t.Errorf("default transition = %s, want crossfade", s.TransitionIn)
	}
	if s.TransitionDuration != 0.5 {
		t.Errorf("default transition duration = %f, want 0.5", s.TransitionDuration)
	}
}

func TestFullNarration(t *testing.T) {
	sb := New("t", "en", "education", 30)
	sb.Hook = "Did you know?"
	sb.AddScene(NewScene("First fact.", VisualStock))
	sb.AddScene(NewScene("", VisualColorBG)) // empty text is skipped
	sb.AddScene(NewScene("Second fact.", VisualStock))
	sb.CTA = "Follow for more."

	want := "Did you know? First fact. Second fact. Follow for more."
	if got := sb.FullNarration(); got != want {
		t.Errorf("FullNarration = %q, want %q", got, want)
	}
}

func TestNeedsAI(t *testing.T) {
	sb := New("t", "en", "education", 30)
	sb.AddScene(NewScene("a", VisualStock))
	sb.AddScene(NewScene("b", VisualInfographic))
	if sb.NeedsAI() {
		t.Error("NeedsAI = true without AI scenes")
	}
	sb.AddScene(NewScene("c", VisualAIImage))
	if !sb.NeedsAI() {
		t.Error("NeedsAI = false with an ai_generated_image scene")
	}
}

func TestParseVisualTypeFallback(t *testing.T) {
	v, err := ParseVisualType("hologram")
	if err == nil {
		t.Error("expected error for unknown visual type")
	}
	if v != VisualStock {
		t.Errorf("fallback = %s, want stock_footage", v)
	}

	v, err = ParseVisualType(" Motion_Graphic ")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if v != VisualMotion {
		t.Errorf("parsed = %s, want motion_graphic", v)
	}
}

func TestParseTransitionTypeFallback(t *testing.T) {
	tr, err := ParseTransitionType("spin")
	if err == nil {
		t.Error("expected error for unknown transition")
	}
	if tr != TransitionCrossfade {
		t.Errorf("fallback = %s, want crossfade", tr)
	}
}

func makeWords(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{Word: f, Start: float64(i) * 0.3, End: float64(i)*0.3 + 0.25}
	}
	return words
}

func TestDistributeWords(t *testing.T) {
	sb := New("t", "en", "education", 30)
	sb.Hook = "Stop scrolling now"
	sb.AddScene(NewScene("one two three", VisualStock))
	sb.AddScene(NewScene("four five", VisualStock))
	sb.CTA = "follow me"

	words := makeWords(sb.FullNarration())
	sb.DistributeWords(words)

	if got := len(sb.Scenes[0].Words); got != 3 {
		t.Errorf("scene 0 got %d words, want 3", got)
	}
	if got := len(sb.Scenes[1].Words); got != 2 {
		t.Errorf("scene 1 got %d words, want 2", got)
	}
	// Scene slices follow the hook's words contiguously
	if sb.Scenes[0].Words[0].Word != "one" {
		t.Errorf("scene 0 starts at %q, want \"one\"", sb.Scenes[0].Words[0].Word)
	}
	if sb.Scenes[1].Words[1].Word != "five" {
		t.Errorf("scene 1 ends at %q, want \"five\"", sb.Scenes[1].Words[1].Word)
	}
}

func TestDistributeWordsShortList(t *testing.T) {
	sb := New("t", "en", "education", 30)
	sb.Hook = "hey"
	sb.AddScene(NewScene("one two three", VisualStock))
	sb.AddScene(NewScene("four five six", VisualStock))

	// Only hook + 2 words available: scene 0 is clamped, scene 1 empty.
	words := makeWords("hey one two")
	sb.DistributeWords(words)

	if got := len(sb.Scenes[0].Words); got != 2 {
		t.Errorf("scene 0 got %d words, want 2", got)
	}
	if got := len(sb.Scenes[1].Words); got != 0 {
		t.Errorf("scene 1 got %d words, want 0", got)
	}
}

func TestDistributeWordsEmptyList(t *testing.T) {
	sb := New("t", "en", "education", 30)
	sb.AddScene(NewScene("one two", VisualStock))
	sb.DistributeWords(nil)
	if len(sb.Scenes[0].Words) != 0 {
		t.Error("expected empty slice for nil word list")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	sb := New("Ocean facts", "en", "education", 45)
	sb.Hook = "The ocean hides something strange"
	sb.CTA = "Subscribe for more"
	sb.Hashtags = []string{"#ocean", "#shorts"}
	sb.MusicMood = "inspiring"

	s := NewScene("Whales sing in dialects.", VisualTextAnim)
	s.VisualParams = map[string]string{"effect": "typewriter", "text": "Whale dialects"}
	s.TransitionIn = TransitionSlideLeft
	sb.AddScene(s)
	sb.AddScene(NewScene("The deep sea glows.", VisualStock))

	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := sb.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Topic != sb.Topic || got.Hook != sb.Hook || got.CTA != sb.CTA {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if len(got.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(got.Scenes))
	}
	if got.Scenes[0].Visual != VisualTextAnim {
		t.Errorf("scene 0 visual = %s, want text_animation", got.Scenes[0].Visual)
	}
	if got.Scenes[0].TransitionIn != TransitionSlideLeft {
		t.Errorf("scene 0 transition = %s, want slide_left", got.Scenes[0].TransitionIn)
	}
	if got.Scenes[0].Param("effect", "") != "typewriter" {
		t.Errorf("scene 0 effect param lost")
	}
	if got.Scenes[1].Index != 1 {
		t.Errorf("indices not reassigned on load")
	}
}

func TestTotalAudioDuration(t *testing.T) {
	sb := New("t", "en", "education", 30)
	if got := sb.TotalAudioDuration(); got != 30 {
		t.Errorf("without narration = %f, want target 30", got)
	}
	sb.Narration.Duration = 27.4
	if got := sb.TotalAudioDuration(); got != 27.4 {
		t.Errorf("with narration = %f, want 27.4", got)
	}
}
