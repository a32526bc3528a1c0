package audio

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"shortreel/internal/config"
	"shortreel/internal/storyboard"
	"shortreel/internal/system"
)

// langNormalize maps common shorthand codes to what edge-tts expects.
var langNormalize = map[string]string{
	"cz": "cs",
	"jp": "ja",
	"kr": "ko",
	"cn": "zh",
	"ua": "uk",
	"br": "pt-BR",
	"mx": "es-MX",
	"gb": "en-GB",
	"us": "en-US",
}

const fallbackVoice = "en-US-GuyNeural"

// Voice is one synthesis voice as reported by edge-tts.
type Voice struct {
	Name   string
	Gender string
	Locale string
}

// TTS synthesizes narration through the edge-tts CLI, with dynamic
// voice discovery and a content-addressed cache.
type TTS struct {
	Rate     string
	Pitch    string
	Voices   map[string]string // configured overrides, key "<lang>_<gender>"
	CacheDir string

	mu         sync.Mutex
	voiceCache map[string][]Voice
}

func NewTTS(cfg config.VoiceoverConfig, cacheDir string) *TTS {
	rate := cfg.Rate
	if rate == "" {
		rate = "+0%"
	}
	pitch := cfg.Pitch
	if pitch == "" {
		pitch = "+0Hz"
	}
	return &TTS{
		Rate:       rate,
		Pitch:      pitch,
		Voices:     cfg.Voices,
		CacheDir:   filepath.Join(cacheDir, "tts"),
		voiceCache: make(map[string][]Voice),
	}
}

// NormalizeLanguage converts shorthand language codes to edge-tts form.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if n, ok := langNormalize[lang]; ok {
		return n
	}
	return lang
}

// CacheKey derives the cache file stem for one synthesis request.
func CacheKey(text, voice, rate, pitch string) string {
	sum := md5.Sum([]byte(text + "|" + voice + "|" + rate + "|" + pitch))
	return fmt.Sprintf("%x", sum)[:16]
}

// Synthesize generates narration audio with word-level timing. Cached
// results are reused when the same text/voice/rate/pitch was seen before.
func (t *TTS) Synthesize(ctx context.Context, text, voice string) (storyboard.NarrationTrack, error) {
	if voice == "" {
		voice = fallbackVoice
	}
	if err := os.MkdirAll(t.CacheDir, 0755); err != nil {
		return storyboard.NarrationTrack{}, err
	}

	key := CacheKey(text, voice, t.Rate, t.Pitch)
	audioPath := filepath.Join(t.CacheDir, key+".mp3")
	vttPath := filepath.Join(t.CacheDir, key+".vtt")

	if fileExists(audioPath) && fileExists(vttPath) {
		log.Printf("[audio] using cached narration %s", audioPath)
		return t.loadTrack(audioPath, vttPath)
	}

	log.Printf("[audio] synthesizing with voice %s", voice)
	cmd := exec.CommandContext(ctx, "edge-tts",
		"--voice", voice,
		"--rate", t.Rate,
		"--pitch", t.Pitch,
		"--text", text,
		"--write-media", audioPath,
		"--write-subtitles", vttPath,
		"--words-in-cue", "1",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return storyboard.NarrationTrack{}, fmt.Errorf("edge-tts: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return t.loadTrack(audioPath, vttPath)
}

func (t *TTS) loadTrack(audioPath, vttPath string) (storyboard.NarrationTrack, error) {
	data, err := os.ReadFile(vttPath)
	if err != nil {
		return storyboard.NarrationTrack{}, err
	}
	words := ParseVTT(string(data))

	duration, err := system.MediaDuration(audioPath)
	if err != nil {
		return storyboard.NarrationTrack{}, err
	}

	return storyboard.NarrationTrack{
		AudioPath: audioPath,
		Duration:  duration,
		Words:     words,
	}, nil
}

// DiscoverVoices lists voices matching a language prefix via
// `edge-tts --list-voices`, memoized per language.
func (t *TTS) DiscoverVoices(language string) ([]Voice, error) {
	normalized := NormalizeLanguage(language)

	t.mu.Lock()
	cached, ok := t.voiceCache[normalized]
	t.mu.Unlock()
	if ok {
		return cached, nil
	}

	out, err := exec.Command("edge-tts", "--list-voices").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("edge-tts --list-voices: %w", err)
	}

	voices := filterVoices(parseVoiceTable(string(out)), normalized)

	t.mu.Lock()
	t.voiceCache[normalized] = voices
	t.mu.Unlock()
	return voices, nil
}

// parseVoiceTable parses the tabular output of edge-tts --list-voices.
func parseVoiceTable(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		// Voice names look like en-US-GuyNeural; skip header and rule lines.
		parts := strings.Split(name, "-")
		if len(parts) < 3 {
			continue
		}
		gender := fields[1]
		if gender != "Male" && gender != "Female" {
			continue
		}
		voices = append(voices, Voice{
			Name:   name,
			Gender: gender,
			Locale: parts[0] + "-" + parts[1],
		})
	}
	return voices
}

func filterVoices(all []Voice, langPrefix string) []Voice {
	var matched []Voice
	for _, v := range all {
		if strings.HasPrefix(strings.ToLower(v.Locale), strings.ToLower(langPrefix)) {
			matched = append(matched, v)
		}
	}
	return matched
}

// BestVoice selects a voice for a language and gender: configured
// override first, then a Neural voice matching gender, then anything
// for the language, then the English fallback.
func (t *TTS) BestVoice(language, gender string) string {
	normalized := NormalizeLanguage(language)

	for _, key := range []string{
		normalized + "_" + gender,
		language + "_" + gender,
		language + "_male",
		normalized + "_male",
	} {
		if v, ok := t.Voices[key]; ok && v != "" {
			return v
		}
	}

	voices, err := t.DiscoverVoices(language)
	if err != nil || len(voices) == 0 {
		log.Printf("[audio] no voices found for %q, using English fallback", language)
		return fallbackVoice
	}
	return pickVoice(voices, gender)
}

func pickVoice(voices []Voice, gender string) string {
	target := "Male"
	if strings.EqualFold(gender, "female") {
		target = "Female"
	}

	var matching []Voice
	for _, v := range voices {
		if v.Gender == target {
			matching = append(matching, v)
		}
	}
	if len(matching) == 0 {
		matching = voices
	}
	for _, v := range matching {
		if strings.Contains(v.Name, "Neural") {
			return v.Name
		}
	}
	return matching[0].Name
}

// CharacterVoice picks a voice for a conversation participant,
// alternating gender by index and cycling through available voices.
func (t *TTS) CharacterVoice(language string, charIndex int) string {
	gender := "male"
	if charIndex%2 == 1 {
		gender = "female"
	}

	voices, err := t.DiscoverVoices(language)
	if err != nil || len(voices) == 0 {
		return fallbackVoice
	}

	target := "Male"
	if gender == "female" {
		target = "Female"
	}
	var matching []Voice
	for _, v := range voices {
		if v.Gender == target {
			matching = append(matching, v)
		}
	}
	if len(matching) == 0 {
		matching = voices
	}
	return matching[(charIndex/2)%len(matching)].Name
}

// FormatVoiceList renders the discovered voices for --list-voices.
func (t *TTS) FormatVoiceList(language string) string {
	voices, err := t.DiscoverVoices(language)
	normalized := NormalizeLanguage(language)
	if err != nil || len(voices) == 0 {
		return fmt.Sprintf("No voices found for language: %s (normalized: %s)", language, normalized)
	}

	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

	var b strings.Builder
	fmt.Fprintf(&b, "Available voices for %q (%s):\n", language, normalized)
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, v := range voices {
		fmt.Fprintf(&b, "  %-35s %-8s %s\n", v.Name, v.Gender, v.Locale)
	}
	fmt.Fprintf(&b, "\nTotal: %d voices", len(voices))
	return b.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
