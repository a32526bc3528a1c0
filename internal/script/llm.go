package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"shortreel/internal/storyboard"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// LLMWriter generates storyboards through the Anthropic Messages API.
// Callers fall back to GenerateTemplate on any error.
type LLMWriter struct {
	Model      string
	MaxScenes  int
	httpClient *http.Client
}

func NewLLMWriter(model string, maxScenes int) *LLMWriter {
	if maxScenes <= 0 {
		maxScenes = 4
	}
	return &LLMWriter{
		Model:      model,
		MaxScenes:  maxScenes,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// boardJSON is the raw JSON contract the model fills in.
type boardJSON struct {
	Hook      string      `json:"hook"`
	Scenes    []sceneJSON `json:"scenes"`
	CTA       string      `json:"cta"`
	Hashtags  []string    `json:"hashtags"`
	MusicMood string      `json:"music_mood"`
}

type sceneJSON struct {
	Text         string  `json:"text"`
	Duration     float64 `json:"duration"`
	VisualType   string  `json:"visual_type"`
	VisualPrompt string  `json:"visual_prompt"`
	TextOverlay  string  `json:"text_overlay"`
	TransitionIn string  `json:"transition_in"`
}

// Generate asks the model for a storyboard. availableVisuals limits the
// visual types the model may use to what the installed backends support.
func (w *LLMWriter) Generate(ctx context.Context, opts Options, availableVisuals []string) (*storyboard.Storyboard, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	reqBody := anthropicRequest{
		Model:     w.Model,
		MaxTokens: 2000,
		Messages: []anthropicMessage{
			{Role: "user", Content: w.buildPrompt(opts, availableVisuals)},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicEndpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("parse anthropic response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s", parsed.Error.Message)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("anthropic returned no content")
	}

	return parseBoardJSON(parsed.Content[0].Text, opts)
}

func (w *LLMWriter) buildPrompt(opts Options, availableVisuals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a short-form video storyboard for the topic: %q\n\n", opts.Topic)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Language: %s\n", opts.Language)
	fmt.Fprintf(&b, "- Target duration: %.0f seconds\n", opts.Duration)
	fmt.Fprintf(&b, "- Style: %s\n", opts.Style)
	fmt.Fprintf(&b, "- Maximum scenes: %d\n", w.MaxScenes)
	fmt.Fprintf(&b, "- Available visual types: %s\n\n", strings.Join(availableVisuals, ", "))
	b.WriteString(`Return a JSON object with this exact structure:
{
  "hook": "opening hook text (1-2 sentences, attention-grabbing)",
  "scenes": [
    {
      "text": "narration text for this scene",
      "duration": 8,
      "visual_type": "stock_footage",
      "visual_prompt": "search query or generation prompt for the visual",
      "text_overlay": "short text to show on screen (max 50 chars)",
      "transition_in": "crossfade"
    }
  ],
  "cta": "call to action text",
  "hashtags": ["#tag1", "#tag2"],
  "music_mood": "inspiring"
}

Visual types explained:
- stock_footage: search query for Pexels stock video
- ai_generated_image: prompt for AI image generation (cinematic, detailed)
- ai_generated_video: prompt for AI video generation (simple, clear motion)
- text_animation: text to animate with kinetic typography
- motion_graphic: text/stats for motion graphic overlay

Transition types: crossfade, cut, fade_black, slide_left, zoom_in

`)
	fmt.Fprintf(&b, "Write the narration in %s. Make it engaging, factual, and optimized for short-form video.", opts.Language)
	return b.String()
}

// parseBoardJSON extracts the JSON object from a model response that may
// carry prose around it, and converts it to a storyboard.
func parseBoardJSON(text string, opts Options) (*storyboard.Storyboard, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var raw boardJSON
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse storyboard JSON: %w", err)
	}
	if len(raw.Scenes) == 0 {
		return nil, fmt.Errorf("model returned no scenes")
	}

	sb := storyboard.New(opts.Topic, opts.Language, opts.Style, opts.Duration)
	sb.Hook = raw.Hook
	sb.CTA = raw.CTA
	sb.Hashtags = raw.Hashtags
	sb.MusicMood = raw.MusicMood
	sb.Title = opts.Topic

	for _, sc := range raw.Scenes {
		visual, _ := storyboard.ParseVisualType(sc.VisualType)
		trans, _ := storyboard.ParseTransitionType(sc.TransitionIn)
		s := storyboard.NewScene(sc.Text, visual)
		if sc.Duration > 0 {
			s.Duration = sc.Duration
		}
		s.VisualPrompt = sc.VisualPrompt
		s.TextOverlay = sc.TextOverlay
		s.TransitionIn = trans
		sb.AddScene(s)
	}
	return sb, nil
}
