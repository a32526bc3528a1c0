package storyboard

import (
	"fmt"
	"strings"

	"shortreel/internal/anim"
)

// VisualType selects the backend that produces a scene's visual.
type VisualType string

const (
	VisualStock        VisualType = "stock_footage"
	VisualAIVideo      VisualType = "ai_generated_video"
	VisualAIImage      VisualType = "ai_generated_image"
	VisualInfographic  VisualType = "infographic"
	VisualTextAnim     VisualType = "text_animation"
	VisualMotion       VisualType = "motion_graphic"
	VisualConversation VisualType = "conversation"
	VisualColorBG      VisualType = "color_background"
)

var visualTypes = map[VisualType]bool{
	VisualStock:        true,
	VisualAIVideo:      true,
	VisualAIImage:      true,
	VisualInfographic:  true,
	VisualTextAnim:     true,
	VisualMotion:       true,
	VisualConversation: true,
	VisualColorBG:      true,
}

// ParseVisualType validates a raw string (LLM output, YAML) against the
// closed set. Unknown values fall back to stock footage so a sloppy
// generator cannot break the pipeline.
func ParseVisualType(s string) (VisualType, error) {
	v := VisualType(strings.TrimSpace(strings.ToLower(s)))
	if visualTypes[v] {
		return v, nil
	}
	return VisualStock, fmt.Errorf("unknown visual type %q", s)
}

func (v VisualType) String() string { return string(v) }

// IsAI reports whether the visual requires a generative backend.
func (v VisualType) IsAI() bool {
	return v == VisualAIImage || v == VisualAIVideo
}

// TransitionType names the effect applied while a scene enters the frame.
type TransitionType string

const (
	TransitionCut        TransitionType = "cut"
	TransitionCrossfade  TransitionType = "crossfade"
	TransitionFadeBlack  TransitionType = "fade_black"
	TransitionSlideLeft  TransitionType = "slide_left"
	TransitionSlideRight TransitionType = "slide_right"
	TransitionZoomIn     TransitionType = "zoom_in"
	TransitionZoomOut    TransitionType = "zoom_out"
)

var transitionTypes = map[TransitionType]bool{
	TransitionCut:        true,
	TransitionCrossfade:  true,
	TransitionFadeBlack:  true,
	TransitionSlideLeft:  true,
	TransitionSlideRight: true,
	TransitionZoomIn:     true,
	TransitionZoomOut:    true,
}

// ParseTransitionType validates a raw string; unknown values fall back to
// crossfade, the safest default.
func ParseTransitionType(s string) (TransitionType, error) {
	v := TransitionType(strings.TrimSpace(strings.ToLower(s)))
	if transitionTypes[v] {
		return v, nil
	}
	return TransitionCrossfade, fmt.Errorf("unknown transition type %q", s)
}

func (t TransitionType) String() string { return string(t) }

// Word is one narration token with its absolute position on the master
// audio track, in seconds.
type Word struct {
	Word  string  `yaml:"word" json:"word"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// Scene is a single beat of the video: a few seconds of narration plus
// the visual that plays under it.
type Scene struct {
	Text               string
	Duration           float64
	Visual             VisualType
	VisualPrompt       string
	VisualParams       map[string]string
	TransitionIn       TransitionType
	TransitionDuration float64
	TextOverlay        string
	Index              int

	// Filled in by the production phases. VisualPath (a media file) and
	// VisualClip (procedurally rendered frames) are mutually exclusive;
	// neither being set means the compositor uses a color filler.
	VisualPath string
	VisualClip *anim.FrameSeq

	// Words is this scene's slice of the master narration timing.
	Words []Word
}

// NewScene returns a scene with the model defaults: 8 seconds, crossfade
// in over half a second.
func NewScene(text string, visual VisualType) *Scene {
	return &Scene{
		Text:               text,
		Duration:           8.0,
		Visual:             visual,
		TransitionIn:       TransitionCrossfade,
		TransitionDuration: 0.5,
	}
}

// Param returns a visual parameter or the given default.
func (s *Scene) Param(key, def string) string {
	if v, ok := s.VisualParams[key]; ok && v != "" {
		return v
	}
	return def
}

// NarrationTrack is the single master voiceover: one audio file covering
// hook, scenes and CTA, with word-level timing.
type NarrationTrack struct {
	AudioPath string
	Duration  float64
	Words     []Word
}

// Storyboard is the full plan for one video.
type Storyboard struct {
	Topic          string
	Language       string
	Style          string
	TargetDuration float64
	Hook           string
	Scenes         []*Scene
	CTA            string
	Hashtags       []string
	MusicMood      string
	Title          string

	// Narration is set once the voiceover is synthesized.
	Narration NarrationTrack
}

func New(topic, language, style string, targetDuration float64) *Storyboard {
	return &Storyboard{
		Topic:          topic,
		Language:       language,
		Style:          style,
		TargetDuration: targetDuration,
	}
}

// AddScene appends a scene and assigns its index. All scene-sequence
// mutation goes through here so indices stay contiguous.
func (sb *Storyboard) AddScene(s *Scene) {
	s.Index = len(sb.Scenes)
	sb.Scenes = append(sb.Scenes, s)
}

// FullNarration joins hook, scene texts and CTA into the single script
// read by the voiceover. Empty parts are skipped.
func (sb *Storyboard) FullNarration() string {
	parts := make([]string, 0, len(sb.Scenes)+2)
	if sb.Hook != "" {
		parts = append(parts, sb.Hook)
	}
	for _, s := range sb.Scenes {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	if sb.CTA != "" {
		parts = append(parts, sb.CTA)
	}
	return strings.Join(parts, " ")
}

// NeedsAI reports whether any scene requires a generative backend.
func (sb *Storyboard) NeedsAI() bool {
	for _, s := range sb.Scenes {
		if s.Visual.IsAI() {
			return true
		}
	}
	return false
}

// TotalAudioDuration returns the narration length when known, else the
// target duration.
func (sb *Storyboard) TotalAudioDuration() float64 {
	if sb.Narration.Duration > 0 {
		return sb.Narration.Duration
	}
	return sb.TargetDuration
}

// DistributeWords slices the master word list onto scenes by cumulative
// word count. The hook's words are skipped first; each scene then takes
// as many words as its text has, clamped to what remains. A short word
// list leaves trailing scenes with empty slices rather than failing.
func (sb *Storyboard) DistributeWords(words []Word) {
	idx := countWords(sb.Hook)
	for _, s := range sb.Scenes {
		n := countWords(s.Text)
		lo := idx
		hi := idx + n
		if lo > len(words) {
			lo = len(words)
		}
		if hi > len(words) {
			hi = len(words)
		}
		s.Words = words[lo:hi]
		idx += n
	}
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
