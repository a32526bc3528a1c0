package script

import (
	"strings"
	"testing"

	"shortreel/internal/storyboard"
)

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		duration  float64
		maxScenes int
		want      int
	}{
		{15, 6, 2},
		{20, 6, 2},
		{30, 6, 3},
		{40, 6, 3},
		{60, 6, 4},
		{60, 3, 3}, // max_scenes caps the long bucket
	}
	for _, tt := range tests {
		if got := segmentCount(tt.duration, tt.maxScenes); got != tt.want {
			t.Errorf("segmentCount(%.0f, %d) = %d, want %d", tt.duration, tt.maxScenes, got, tt.want)
		}
	}
}

func TestGenerateTemplateShortEducation(t *testing.T) {
	sb := GenerateTemplate(Options{
		Topic:      "Benefits of reading",
		Language:   "en",
		Style:      "education",
		Duration:   20,
		VisualMode: "stock",
		MaxScenes:  6,
		Seed:       1,
	})

	if len(sb.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2 for a 20s video", len(sb.Scenes))
	}
	for i, s := range sb.Scenes {
		if s.Visual != storyboard.VisualStock {
			t.Errorf("scene %d visual = %s, want stock_footage", i, s.Visual)
		}
		if s.Duration < 5 {
			t.Errorf("scene %d duration = %f, want >= 5", i, s.Duration)
		}
		if s.Text == "" || s.VisualPrompt == "" {
			t.Errorf("scene %d missing text or prompt", i)
		}
	}
	if sb.Hook == "" || sb.CTA == "" {
		t.Error("hook or CTA missing")
	}
	if sb.MusicMood != "inspiring" {
		t.Errorf("music mood = %q, want inspiring for education", sb.MusicMood)
	}
}

func TestGenerateTemplateHashtags(t *testing.T) {
	sb := GenerateTemplate(Options{
		Topic:    "Benefits of reading books daily",
		Style:    "education",
		Duration: 30,
		Seed:     1,
	})

	joined := strings.Join(sb.Hashtags, " ")
	for _, want := range []string{"#benefits", "#of", "#reading", "#shorts", "#viral", "#education"} {
		if !strings.Contains(joined, want) {
			t.Errorf("hashtags %v missing %s", sb.Hashtags, want)
		}
	}
	// Only the first three topic words become tags
	if strings.Contains(joined, "#books") {
		t.Errorf("hashtags %v should not include the fourth topic word", sb.Hashtags)
	}
}

func TestGenerateTemplateMixedMode(t *testing.T) {
	sb := GenerateTemplate(Options{
		Topic:      "Morning habits",
		Style:      "lifestyle",
		Duration:   60,
		VisualMode: "mixed",
		MaxScenes:  6,
		Seed:       7,
	})

	if len(sb.Scenes) != 4 {
		t.Fatalf("got %d scenes, want 4 for a 60s video", len(sb.Scenes))
	}
	// Mixed rotation opens with stock then text animation
	if sb.Scenes[0].Visual != storyboard.VisualStock {
		t.Errorf("scene 0 = %s, want stock_footage", sb.Scenes[0].Visual)
	}
	if sb.Scenes[1].Visual != storyboard.VisualTextAnim {
		t.Errorf("scene 1 = %s, want text_animation", sb.Scenes[1].Visual)
	}
	if sb.Scenes[1].Param("effect", "") == "" {
		t.Error("text_animation scene missing effect param")
	}
}

func TestGenerateTemplateAIModePrompts(t *testing.T) {
	sb := GenerateTemplate(Options{
		Topic:      "Deep sea creatures",
		Style:      "education",
		Duration:   30,
		VisualMode: "ai_image",
		Seed:       3,
	})

	for i, s := range sb.Scenes {
		if s.Visual != storyboard.VisualAIImage {
			t.Fatalf("scene %d visual = %s, want ai_generated_image", i, s.Visual)
		}
		if !strings.HasPrefix(s.VisualPrompt, "cinematic, ") || !strings.HasSuffix(s.VisualPrompt, ", high quality, 4k") {
			t.Errorf("scene %d AI prompt %q missing cinematic wrapper", i, s.VisualPrompt)
		}
	}
}

func TestGenerateTemplateUnknownStyleFallsBack(t *testing.T) {
	sb := GenerateTemplate(Options{
		Topic:    "Anything",
		Style:    "cyberpunk",
		Duration: 30,
		Seed:     1,
	})
	if sb.Style != "education" {
		t.Errorf("style = %q, want education fallback", sb.Style)
	}
}

func TestGenerateTemplateDeterministicWithSeed(t *testing.T) {
	opts := Options{Topic: "Sleep", Style: "education", Duration: 30, Seed: 42}
	a := GenerateTemplate(opts)
	b := GenerateTemplate(opts)
	if a.Hook != b.Hook || len(a.Scenes) != len(b.Scenes) {
		t.Error("same seed produced different storyboards")
	}
	for i := range a.Scenes {
		if a.Scenes[i].Text != b.Scenes[i].Text {
			t.Errorf("scene %d text differs between runs", i)
		}
	}
}

func TestParseBoardJSONExtractsObject(t *testing.T) {
	resp := `Here is your storyboard:
{
  "hook": "Watch this.",
  "scenes": [
    {"text": "First.", "duration": 8, "visual_type": "stock_footage", "visual_prompt": "city", "transition_in": "cut"},
    {"text": "Second.", "duration": 7, "visual_type": "text_animation", "visual_prompt": "Second.", "transition_in": "crossfade"}
  ],
  "cta": "Follow!",
  "hashtags": ["#a"],
  "music_mood": "upbeat"
}
Hope that helps!`

	sb, err := parseBoardJSON(resp, Options{Topic: "t", Language: "en", Style: "education", Duration: 30})
	if err != nil {
		t.Fatalf("parseBoardJSON: %v", err)
	}
	if sb.Hook != "Watch this." || len(sb.Scenes) != 2 {
		t.Errorf("parsed board wrong: %+v", sb)
	}
	if sb.Scenes[0].TransitionIn != storyboard.TransitionCut {
		t.Errorf("scene 0 transition = %s, want cut", sb.Scenes[0].TransitionIn)
	}
}

func TestParseBoardJSONRejectsGarbage(t *testing.T) {
	if _, err := parseBoardJSON("sorry, I cannot do that", Options{}); err == nil {
		t.Error("expected error for response without JSON")
	}
	if _, err := parseBoardJSON(`{"hook": "x", "scenes": []}`, Options{}); err == nil {
		t.Error("expected error for empty scenes")
	}
}
