package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video      VideoConfig      `yaml:"video"`
	Subtitles  SubtitleConfig   `yaml:"subtitles"`
	Music      MusicConfig      `yaml:"music"`
	Brand      BrandConfig      `yaml:"brand"`
	Voiceover  VoiceoverConfig  `yaml:"voiceover"`
	Brain      BrainConfig      `yaml:"brain"`
	Generators GeneratorsConfig `yaml:"generators"`
	Stock      StockConfig      `yaml:"stock"`
	Paths      PathsConfig      `yaml:"paths"`
}

type VideoConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Codec   string `yaml:"codec"`
	Bitrate string `yaml:"bitrate"`
	// Quality is the encoder quality knob: CRF for libx264, CQ for
	// nvenc, bitrate multiplier for videotoolbox. 0 means auto.
	Quality int `yaml:"quality"`
}

type SubtitleConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Style          string  `yaml:"style"` // word_highlight or classic
	FontSize       float64 `yaml:"font_size"`
	Color          string  `yaml:"color"`
	HighlightColor string  `yaml:"highlight_color"`
	StrokeColor    string  `yaml:"stroke_color"`
	StrokeWidth    int     `yaml:"stroke_width"`
	MarginBottom   int     `yaml:"margin_bottom"`
	WordsPerGroup  int     `yaml:"words_per_group"`
}

type MusicConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
	FadeIn  float64 `yaml:"fade_in"`
	FadeOut float64 `yaml:"fade_out"`
	Dir     string  `yaml:"dir"`
}

type BrandConfig struct {
	Logo         string    `yaml:"logo"`
	LogoPosition string    `yaml:"logo_position"`
	LogoSize     int       `yaml:"logo_size"`
	LogoOpacity  float64   `yaml:"logo_opacity"`
	CTA          CTAConfig `yaml:"cta"`
}

type CTAConfig struct {
	Enabled  bool    `yaml:"enabled"`
	URL      string  `yaml:"url"`
	Duration float64 `yaml:"duration"`
}

type VoiceoverConfig struct {
	Rate   string            `yaml:"rate"`
	Pitch  string            `yaml:"pitch"`
	Voices map[string]string `yaml:"voices"`
}

type BrainConfig struct {
	Mode      string `yaml:"mode"` // template or claude
	Model     string `yaml:"model"`
	MaxScenes int    `yaml:"max_scenes"`
}

type GeneratorsConfig struct {
	AIImage AIBackendConfig `yaml:"ai_image"`
	AIVideo AIBackendConfig `yaml:"ai_video"`
}

type AIBackendConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"` // pollinations or local
	Script     string `yaml:"script"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type StockConfig struct {
	Orientation string  `yaml:"orientation"`
	MinDuration float64 `yaml:"min_duration"`
	PerPage     int     `yaml:"per_page"`
}

type PathsConfig struct {
	Output    string `yaml:"output"`
	Cache     string `yaml:"cache"`
	Assets    string `yaml:"assets"`
	Templates string `yaml:"templates"`
}

// Default returns the configuration used when no config.yaml exists:
// a 1080x1920 vertical short with word-highlight subtitles.
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			Width:   1080,
			Height:  1920,
			FPS:     30,
			Codec:   "libx264",
			Bitrate: "4M",
		},
		Subtitles: SubtitleConfig{
			Enabled:        true,
			Style:          "word_highlight",
			FontSize:       64,
			Color:          "#FFFFFF",
			HighlightColor: "#FFD700",
			StrokeColor:    "#000000",
			StrokeWidth:    3,
			MarginBottom:   400,
			WordsPerGroup:  4,
		},
		Music: MusicConfig{
			Enabled: true,
			Volume:  0.15,
			FadeIn:  2.0,
			FadeOut: 3.0,
			Dir:     "assets/music",
		},
		Brand: BrandConfig{
			LogoPosition: "top_right",
			LogoSize:     96,
			LogoOpacity:  0.8,
			CTA:          CTAConfig{Duration: 3.0},
		},
		Voiceover: VoiceoverConfig{
			Rate:  "+5%",
			Pitch: "+0Hz",
		},
		Brain: BrainConfig{
			Mode:      "template",
			Model:     "claude-sonnet-4-20250514",
			MaxScenes: 4,
		},
		Generators: GeneratorsConfig{
			AIImage: AIBackendConfig{Backend: "pollinations", TimeoutSec: 120},
			AIVideo: AIBackendConfig{TimeoutSec: 600},
		},
		Stock: StockConfig{
			Orientation: "portrait",
			MinDuration: 3.0,
			PerPage:     5,
		},
		Paths: PathsConfig{
			Output:    "output",
			Cache:     "cache",
			Assets:    "assets",
			Templates: "templates",
		},
	}
}

// Load reads config.yaml over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("config: video resolution %dx%d is invalid", c.Video.Width, c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("config: fps %d is invalid", c.Video.FPS)
	}
	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		return fmt.Errorf("config: music volume %.2f out of [0,1]", c.Music.Volume)
	}
	if c.Brain.MaxScenes <= 0 {
		c.Brain.MaxScenes = 4
	}
	return nil
}
