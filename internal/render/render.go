package render

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"shortreel/internal/anim"
	"shortreel/internal/storyboard"
	"shortreel/internal/system"
)

// Renderer produces procedural frame sequences for the visual types
// that are drawn rather than fetched: text animations, motion
// graphics, infographics, conversations and flat backgrounds.
type Renderer struct {
	Width  int
	Height int

	motion      *Motion
	infographic *Infographic
	chat        *Chat
	podcast     *Podcast
	story       *Story
}

func New(width, height int) *Renderer {
	return &Renderer{
		Width:       width,
		Height:      height,
		motion:      NewMotion(width, height),
		infographic: NewInfographic(width, height),
		chat:        NewChat(width, height),
		podcast:     NewPodcast(width, height),
		story:       NewStory(width, height),
	}
}

// RenderScene renders the scene's visual as an animated sequence.
// Returns an error for visual types that need fetched media instead.
func (r *Renderer) RenderScene(sc *storyboard.Scene) (*anim.FrameSeq, error) {
	duration := sc.Duration
	if duration < 2.0 {
		duration = 2.0
	}

	switch sc.Visual {
	case storyboard.VisualTextAnim, storyboard.VisualMotion:
		text := sc.Param("text", sc.TextOverlay)
		if text == "" {
			text = truncateText(sc.Text, 80)
		}
		effect := sc.Param("effect", "title_card")
		log.Printf("[render] scene %d: %s effect %q (%.1fs)", sc.Index, sc.Visual, effect, duration)
		return r.motion.Render(effect, text, duration, sc.VisualParams)

	case storyboard.VisualInfographic:
		chartType := sc.Param("chart_type", "statistics")
		title := sc.Param("title", sc.TextOverlay)
		dataLabel := sc.Param("data_label", sc.VisualPrompt)
		log.Printf("[render] scene %d: infographic %q (%.1fs)", sc.Index, chartType, duration)
		return r.infographic.Render(chartType, title, dataLabel, duration, sc.VisualParams)

	case storyboard.VisualConversation:
		format := sc.Param("format", "chat")
		log.Printf("[render] scene %d: conversation %q (%.1fs)", sc.Index, format, duration)
		switch format {
		case "podcast":
			return r.podcast.Render(sc.Text, duration)
		case "story":
			return r.story.Render(sc.Text, duration)
		default:
			return r.chat.Render(sc.Text, duration)
		}

	case storyboard.VisualColorBG:
		return r.renderColorBackground(sc, duration), nil

	default:
		return nil, fmt.Errorf("visual type %s is not procedurally rendered", sc.Visual)
	}
}

// renderColorBackground draws a static gradient with the overlay text
// centered, held for the scene duration.
func (r *Renderer) renderColorBackground(sc *storyboard.Scene, duration float64) *anim.FrameSeq {
	top := ParseHex(sc.Param("bg_top", "#19192D"))
	bot := ParseHex(sc.Param("bg_bot", "#05050F"))
	text := sc.TextOverlay
	if text == "" {
		text = truncateText(sc.Text, 80)
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	face := Face(WeightBold, 56)
	lines := WrapText(face, text, int(float64(r.Width)*0.8))
	lineH := 72
	yStart := (r.Height - len(lines)*lineH) / 2

	for f := 0; f < total; f++ {
		img := system.GetImage(image.Rect(0, 0, r.Width, r.Height))
		FillGradient(img, top, bot)
		for i, line := range lines {
			tw := MeasureText(face, line)
			y := yStart + i*lineH + lineH/2
			DrawTextShadowed(img, face, line, (r.Width-tw)/2, y, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}, 2)
		}
		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
