package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 {
		t.Errorf("default resolution = %dx%d, want 1080x1920", cfg.Video.Width, cfg.Video.Height)
	}
	if !cfg.Subtitles.Enabled || cfg.Subtitles.Style != "word_highlight" {
		t.Errorf("default subtitles = %+v", cfg.Subtitles)
	}
	if cfg.Music.Volume != 0.15 {
		t.Errorf("default music volume = %f, want 0.15", cfg.Music.Volume)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
video:
  width: 720
  height: 1280
  fps: 24
music:
  enabled: false
  volume: 0.3
brain:
  mode: claude
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Video.Width != 720 || cfg.Video.FPS != 24 {
		t.Errorf("override not applied: %+v", cfg.Video)
	}
	if cfg.Music.Enabled {
		t.Error("music.enabled override not applied")
	}
	if cfg.Brain.Mode != "claude" {
		t.Errorf("brain.mode = %q, want claude", cfg.Brain.Mode)
	}
	// Untouched sections keep defaults
	if cfg.Subtitles.WordsPerGroup != 4 {
		t.Errorf("subtitles defaults lost: %+v", cfg.Subtitles)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
music:
  volume: 3.0
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for volume out of range")
	}
}
