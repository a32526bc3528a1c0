package render

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"

	"shortreel/internal/anim"
	"shortreel/internal/system"
)

// storyTheme colors one dialogue beat.
type storyTheme struct {
	top    color.RGBA
	bot    color.RGBA
	accent color.RGBA
}

var storyThemes = []storyTheme{
	{color.RGBA{25, 25, 50, 255}, color.RGBA{10, 10, 25, 255}, color.RGBA{100, 180, 255, 255}},
	{color.RGBA{40, 20, 30, 255}, color.RGBA{15, 8, 12, 255}, color.RGBA{255, 120, 160, 255}},
	{color.RGBA{20, 35, 25, 255}, color.RGBA{8, 15, 10, 255}, color.RGBA{120, 255, 160, 255}},
	{color.RGBA{35, 30, 20, 255}, color.RGBA{12, 10, 5, 255}, color.RGBA{255, 200, 100, 255}},
	{color.RGBA{30, 20, 40, 255}, color.RGBA{10, 8, 15, 255}, color.RGBA{200, 140, 255, 255}},
}

// Story renders a cinematic dialogue: the color theme changes per
// line, narrator lines get centered dramatic text on a dark bar, and
// character lines get a side avatar with a speech bubble.
type Story struct {
	Width  int
	Height int
}

func NewStory(width, height int) *Story {
	return &Story{Width: width, Height: height}
}

func (s *Story) Render(text string, duration float64) (*anim.FrameSeq, error) {
	msgs := ParseChatScript(text)
	if len(msgs) == 0 {
		msgs = []ChatMessage{{Speaker: "Narrator", Text: "..."}}
	}
	if duration < 2.0 {
		duration = 2.0
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	slot := duration / float64(len(msgs))

	for f := 0; f < total; f++ {
		active := int(float64(f) * frameDur / slot)
		if active >= len(msgs) {
			active = len(msgs) - 1
		}
		seq.Frames = append(seq.Frames, s.drawFrame(msgs[active], active, f))
	}
	return seq, nil
}

func (s *Story) drawFrame(msg ChatMessage, beat, frame int) *image.RGBA {
	theme := storyThemes[beat%len(storyThemes)]

	img := system.GetImage(image.Rect(0, 0, s.Width, s.Height))
	FillGradient(img, theme.top, theme.bot)
	s.drawStars(img, beat, frame)

	if strings.EqualFold(msg.Speaker, "narrator") {
		s.drawNarrator(img, msg.Text)
	} else {
		s.drawCharacter(img, msg, theme, frame)
	}

	DrawText(img, Face(WeightRegular, 20), fmt.Sprintf("Scene %d", beat+1),
		s.Width-110, s.Height-40, color.RGBA{60, 60, 60, 255})
	return img
}

// drawStars scatters dim particles, reseeded per beat so they twinkle
// slowly instead of flickering every frame.
func (s *Story) drawStars(img *image.RGBA, beat, frame int) {
	rng := rand.New(rand.NewSource(int64(beat*100 + frame/30)))
	for i := 0; i < 30; i++ {
		x := rng.Intn(s.Width)
		y := rng.Intn(s.Height)
		r := 1 + rng.Intn(3)
		b := uint8(40 + rng.Intn(80))
		FillCircle(img, x, y, r, color.RGBA{b, b, b + 20, 255})
	}
}

func (s *Story) drawNarrator(img *image.RGBA, text string) {
	face := Face(WeightBold, 44)
	lines := WrapText(face, text, int(float64(s.Width)*0.8))
	lineH := 56

	barTop := s.Height/2 - 50 - 20
	FillRect(img, 0, barTop, s.Width, barTop+len(lines)*lineH+40, color.RGBA{0, 0, 0, 255})

	y := s.Height/2 - 50 + lineH/2
	for _, line := range lines {
		tw := MeasureText(face, line)
		DrawTextShadowed(img, face, line, (s.Width-tw)/2, y, color.RGBA{255, 215, 100, 255}, color.RGBA{0, 0, 0, 255}, 2)
		y += lineH
	}
}

func (s *Story) drawCharacter(img *image.RGBA, msg ChatMessage, theme storyTheme, frame int) {
	avatarCX := 180
	if msg.Right {
		avatarCX = s.Width - 180
	}
	avatarCY := 500
	avatarR := 100

	c := podAvatarColors[0]
	if msg.Right {
		c = podAvatarColors[1]
	}

	// Soft glow behind the speaking character.
	FillCircle(img, avatarCX, avatarCY, avatarR+20, Scale(c, 0.4))
	FillCircle(img, avatarCX, avatarCY, avatarR+3, color.RGBA{255, 255, 255, 255})
	FillCircle(img, avatarCX, avatarCY, avatarR, c)
	DrawTextCentered(img, Face(WeightBold, avatarR), speakerInitial(msg.Speaker),
		avatarCX, avatarCY+avatarR*2/5, color.RGBA{255, 255, 255, 255})

	DrawTextCentered(img, Face(WeightBold, 32), msg.Speaker, avatarCX, avatarCY+avatarR+52, theme.accent)

	s.drawBubble(img, msg, theme)
}

func (s *Story) drawBubble(img *image.RGBA, msg ChatMessage, theme storyTheme) {
	face := Face(WeightRegular, 38)
	bubbleX, bubbleY := 60, 700
	bubbleW := s.Width - 120
	lines := WrapText(face, msg.Text, bubbleW-40)
	lineH := 48
	bubbleH := len(lines)*lineH + 36

	fillRoundedRect(img, bubbleX, bubbleY, bubbleX+bubbleW, bubbleY+bubbleH, 18, color.RGBA{20, 20, 30, 255})

	// Accent strip on the speaking side.
	if msg.Right {
		FillRect(img, bubbleX+bubbleW-5, bubbleY, bubbleX+bubbleW, bubbleY+bubbleH, theme.accent)
	} else {
		FillRect(img, bubbleX, bubbleY, bubbleX+5, bubbleY+bubbleH, theme.accent)
	}

	y := bubbleY + 18 + lineH/2
	for _, line := range lines {
		DrawText(img, face, line, bubbleX+20, y, color.RGBA{240, 240, 240, 255})
		y += lineH
	}
}
