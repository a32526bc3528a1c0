package storyboard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Record is the serialized form of a storyboard: the contract filled in
// by the template engine or an LLM, and what gets written next to the
// rendered video for inspection.
type Record struct {
	Topic     string        `yaml:"topic" json:"topic"`
	Language  string        `yaml:"language" json:"language"`
	Style     string        `yaml:"style" json:"style"`
	Duration  float64       `yaml:"duration" json:"duration"`
	Hook      string        `yaml:"hook" json:"hook"`
	Scenes    []SceneRecord `yaml:"scenes" json:"scenes"`
	CTA       string        `yaml:"cta" json:"cta"`
	Hashtags  []string      `yaml:"hashtags" json:"hashtags"`
	MusicMood string        `yaml:"music_mood" json:"music_mood"`
	Title     string        `yaml:"title,omitempty" json:"title,omitempty"`
}

type SceneRecord struct {
	Text               string            `yaml:"text" json:"text"`
	Duration           float64           `yaml:"duration" json:"duration"`
	VisualType         string            `yaml:"visual_type" json:"visual_type"`
	VisualPrompt       string            `yaml:"visual_prompt,omitempty" json:"visual_prompt,omitempty"`
	VisualParams       map[string]string `yaml:"visual_params,omitempty" json:"visual_params,omitempty"`
	TransitionIn       string            `yaml:"transition_in" json:"transition_in"`
	TransitionDuration float64           `yaml:"transition_duration" json:"transition_duration"`
	TextOverlay        string            `yaml:"text_overlay,omitempty" json:"text_overlay,omitempty"`
}

// ToRecord converts a storyboard to its serialized form.
func (sb *Storyboard) ToRecord() *Record {
	r := &Record{
		Topic:     sb.Topic,
		Language:  sb.Language,
		Style:     sb.Style,
		Duration:  sb.TargetDuration,
		Hook:      sb.Hook,
		CTA:       sb.CTA,
		Hashtags:  sb.Hashtags,
		MusicMood: sb.MusicMood,
		Title:     sb.Title,
	}
	for _, s := range sb.Scenes {
		r.Scenes = append(r.Scenes, SceneRecord{
			Text:               s.Text,
			Duration:           s.Duration,
			VisualType:         s.Visual.String(),
			VisualPrompt:       s.VisualPrompt,
			VisualParams:       s.VisualParams,
			TransitionIn:       s.TransitionIn.String(),
			TransitionDuration: s.TransitionDuration,
			TextOverlay:        s.TextOverlay,
		})
	}
	return r
}

// FromRecord rebuilds a storyboard from its serialized form. Unknown
// enum values degrade to their safe defaults instead of failing.
func FromRecord(r *Record) *Storyboard {
	sb := New(r.Topic, r.Language, r.Style, r.Duration)
	sb.Hook = r.Hook
	sb.CTA = r.CTA
	sb.Hashtags = r.Hashtags
	sb.MusicMood = r.MusicMood
	sb.Title = r.Title

	for _, sr := range r.Scenes {
		visual, _ := ParseVisualType(sr.VisualType)
		trans, _ := ParseTransitionType(sr.TransitionIn)
		s := NewScene(sr.Text, visual)
		if sr.Duration > 0 {
			s.Duration = sr.Duration
		}
		s.VisualPrompt = sr.VisualPrompt
		s.VisualParams = sr.VisualParams
		s.TransitionIn = trans
		if sr.TransitionDuration > 0 {
			s.TransitionDuration = sr.TransitionDuration
		}
		s.TextOverlay = sr.TextOverlay
		sb.AddScene(s)
	}
	return sb
}

// Save writes the storyboard as YAML next to the output artifacts.
func (sb *Storyboard) Save(path string) error {
	data, err := yaml.Marshal(sb.ToRecord())
	if err != nil {
		return fmt.Errorf("marshal storyboard: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a storyboard record from a YAML file.
func Load(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse storyboard %s: %w", path, err)
	}
	return FromRecord(&r), nil
}
