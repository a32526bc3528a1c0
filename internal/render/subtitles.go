package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"shortreel/internal/config"
	"shortreel/internal/storyboard"
)

// SubtitleEvent is one overlay image with its display window on the
// final timeline.
type SubtitleEvent struct {
	Path  string
	Start float64
	End   float64
	X     int
	Y     int
}

const subtitleStripHeight = 180

// RenderSubtitles renders subtitle overlays from word timestamps and
// writes them as transparent PNGs under outDir.
//
// word_highlight shows groups of words with the spoken word enlarged
// and recolored, one image per word. classic shows one static image
// per group. Empty input yields no events.
func RenderSubtitles(words []storyboard.Word, cfg config.SubtitleConfig, videoW, videoH int, outDir string) ([]SubtitleEvent, error) {
	if len(words) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	perGroup := cfg.WordsPerGroup
	if perGroup <= 0 {
		perGroup = 4
	}
	y := videoH - cfg.MarginBottom - subtitleStripHeight/2

	if cfg.Style == "classic" {
		return renderClassic(words, cfg, videoW, y, outDir, perGroup)
	}
	return renderWordHighlight(words, cfg, videoW, y, outDir, perGroup)
}

func renderWordHighlight(words []storyboard.Word, cfg config.SubtitleConfig, videoW, y int, outDir string, perGroup int) ([]SubtitleEvent, error) {
	var events []SubtitleEvent
	n := 0
	for gi := 0; gi < len(words); gi += perGroup {
		group := words[gi:min(gi+perGroup, len(words))]

		for wi, w := range group {
			img := drawHighlightStrip(group, wi, cfg, videoW)

			path := filepath.Join(outDir, fmt.Sprintf("sub_%04d.png", n))
			n++
			if err := writePNG(path, img); err != nil {
				return nil, err
			}

			end := w.End
			if wi < len(group)-1 {
				end = group[wi+1].Start
			}
			if end < w.Start+0.05 {
				end = w.Start + 0.05
			}
			events = append(events, SubtitleEvent{Path: path, Start: w.Start, End: end, Y: y})
		}
	}
	return events, nil
}

func renderClassic(words []storyboard.Word, cfg config.SubtitleConfig, videoW, y int, outDir string, perGroup int) ([]SubtitleEvent, error) {
	var events []SubtitleEvent
	n := 0
	for gi := 0; gi < len(words); gi += perGroup {
		group := words[gi:min(gi+perGroup, len(words))]

		img := drawHighlightStrip(group, -1, cfg, videoW)
		path := filepath.Join(outDir, fmt.Sprintf("sub_%04d.png", n))
		n++
		if err := writePNG(path, img); err != nil {
			return nil, err
		}

		start := group[0].Start
		end := group[len(group)-1].End
		if end < start+0.3 {
			end = start + 0.3
		}
		events = append(events, SubtitleEvent{Path: path, Start: start, End: end, Y: y})
	}
	return events, nil
}

// drawHighlightStrip renders one group onto a transparent strip. The
// active word (if any) is drawn 15% larger in the highlight color.
func drawHighlightStrip(group []storyboard.Word, active int, cfg config.SubtitleConfig, videoW int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, videoW, subtitleStripHeight))

	size := int(cfg.FontSize)
	if size <= 0 {
		size = 48
	}
	base := Face(WeightBold, size)
	big := Face(WeightBold, size*115/100)

	textColor := ParseHex(cfg.Color)
	hiColor := ParseHex(cfg.HighlightColor)
	strokeColor := ParseHex(cfg.StrokeColor)
	strokeColor.A = 255

	spaceW := MeasureText(base, " ")
	widths := make([]int, len(group))
	totalW := 0
	for i, w := range group {
		f := base
		if i == active {
			f = big
		}
		widths[i] = MeasureText(f, w.Word)
		totalW += widths[i]
	}
	totalW += spaceW * (len(group) - 1)

	x := (videoW - totalW) / 2
	baseline := subtitleStripHeight/2 + size/3

	for i, w := range group {
		f := base
		c := textColor
		if i == active {
			f = big
			c = hiColor
		}

		if cfg.StrokeWidth > 0 {
			for dx := -cfg.StrokeWidth; dx <= cfg.StrokeWidth; dx++ {
				for dy := -cfg.StrokeWidth; dy <= cfg.StrokeWidth; dy++ {
					if dx != 0 || dy != 0 {
						DrawText(img, f, w.Word, x+dx, baseline+dy, strokeColor)
					}
				}
			}
		}
		DrawText(img, f, w.Word, x, baseline, c)
		x += widths[i] + spaceW
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
