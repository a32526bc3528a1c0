package audio

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var musicExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".aac":  true,
	".flac": true,
}

// PickMusic selects a background track from dir by matching the mood
// against file names. No match means a random track; an empty or
// missing dir means no music.
func PickMusic(dir, mood string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var tracks []string
	var matched []string
	moodLower := strings.ToLower(mood)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !musicExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		path := filepath.Join(dir, name)
		tracks = append(tracks, path)
		if moodLower != "" && strings.Contains(strings.ToLower(name), moodLower) {
			matched = append(matched, path)
		}
	}

	if len(matched) > 0 {
		return matched[rand.Intn(len(matched))]
	}
	if len(tracks) > 0 {
		return tracks[rand.Intn(len(tracks))]
	}
	return ""
}
