package audio

import (
	"strconv"
	"strings"

	"shortreel/internal/storyboard"
)

// ParseVTT extracts word timing from WebVTT subtitles written by
// edge-tts. Each cue normally carries one word; multi-word cues are
// split with timing distributed proportionally to character count, the
// same interpolation used for sentence boundaries.
func ParseVTT(data string) []storyboard.Word {
	var words []storyboard.Word

	lines := strings.Split(data, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			continue
		}

		parts := strings.SplitN(line, "-->", 2)
		start, ok1 := parseVTTTime(strings.TrimSpace(parts[0]))
		end, ok2 := parseVTTTime(strings.TrimSpace(strings.Fields(parts[1])[0]))
		if !ok1 || !ok2 {
			continue
		}

		// Cue text is the following non-empty lines until a blank one.
		var textParts []string
		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" {
				break
			}
			textParts = append(textParts, next)
			i++
		}
		text := strings.Join(textParts, " ")
		if text == "" {
			continue
		}

		words = append(words, splitCue(text, start, end)...)
	}

	return words
}

// splitCue distributes a cue's time span over its words by character
// count, one extra character per word standing in for the pause.
func splitCue(text string, start, end float64) []storyboard.Word {
	fields := strings.Fields(text)
	if len(fields) == 1 {
		return []storyboard.Word{{Word: fields[0], Start: start, End: end}}
	}

	total := 0
	for _, w := range fields {
		total += len(w) + 1
	}

	span := end - start
	var words []storyboard.Word
	cur := start
	for _, w := range fields {
		frac := float64(len(w)+1) / float64(total)
		d := span * frac
		words = append(words, storyboard.Word{Word: w, Start: cur, End: cur + d})
		cur += d
	}
	return words
}

// parseVTTTime parses HH:MM:SS.mmm or MM:SS.mmm into seconds.
func parseVTTTime(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}
