package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"shortreel/internal/anim"
	"shortreel/internal/system"
)

// Podcast layout constants.
const (
	podAvatarSize = 220
	podAvatarY    = 400
	podAvatarGap  = 120
	podWaveBars   = 12
)

var podAvatarColors = []color.RGBA{
	{100, 100, 200, 255},
	{200, 100, 130, 255},
}

// Podcast renders a two-speaker debate card: circular avatars in the
// upper third, the active speaker glowing over an animated waveform,
// and the spoken line in the lower third.
type Podcast struct {
	Width  int
	Height int
}

func NewPodcast(width, height int) *Podcast {
	return &Podcast{Width: width, Height: height}
}

// Render splits the conversation into equal time slots and animates
// the speaker handoff across them.
func (p *Podcast) Render(text string, duration float64) (*anim.FrameSeq, error) {
	msgs := ParseChatScript(text)
	if len(msgs) == 0 {
		msgs = []ChatMessage{{Speaker: "A", Text: "..."}}
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
		seq.Frames = append(seq.Frames, p.drawFrame(msgs, active, f))
	}
	return seq, nil
}

func (p *Podcast) drawFrame(msgs []ChatMessage, active, frame int) *image.RGBA {
	img := system.GetImage(image.Rect(0, 0, p.Width, p.Height))
	FillGradient(img, color.RGBA{20, 20, 45, 255}, color.RGBA{8, 8, 20, 255})

	DrawTextCentered(img, Face(WeightRegular, 30), "PODCAST", p.Width/2, 60+30, color.RGBA{120, 120, 140, 255})

	speakers := conversationSpeakers(msgs)
	positions := []int{p.Width / 2}
	if len(speakers) == 2 {
		positions = []int{
			p.Width/2 - podAvatarSize/2 - podAvatarGap/2,
			p.Width/2 + podAvatarSize/2 + podAvatarGap/2,
		}
	}

	for i, name := range speakers {
		isActive := name == msgs[active].Speaker
		p.drawAvatar(img, positions[i], podAvatarY, podAvatarColors[i%len(podAvatarColors)], name, isActive, frame)
		p.drawWaveform(img, positions[i], podAvatarY+podAvatarSize/2+70, frame, isActive)
	}

	divider := podAvatarY + podAvatarSize/2 + 130
	FillRect(img, 100, divider, p.Width-100, divider+2, color.RGBA{40, 40, 60, 255})

	p.drawLine(img, msgs[active].Text)
	return img
}

// conversationSpeakers keeps the first two distinct names in speaking
// order; the layout has room for two avatars.
func conversationSpeakers(msgs []ChatMessage) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range msgs {
		if !seen[m.Speaker] && len(names) < 2 {
			seen[m.Speaker] = true
			names = append(names, m.Speaker)
		}
	}
	return names
}

func (p *Podcast) drawAvatar(img *image.RGBA, cx, cy int, c color.RGBA, name string, active bool, frame int) {
	r := podAvatarSize / 2

	if active {
		glow := r + 12 + int(math.Sin(float64(frame)*0.15)*4)
		FillCircle(img, cx, cy, glow, Scale(c, 0.45))
	}

	border, borderW := color.RGBA{100, 100, 100, 255}, 2
	if active {
		border, borderW = color.RGBA{255, 255, 255, 255}, 4
	}
	FillCircle(img, cx, cy, r+borderW, border)
	FillCircle(img, cx, cy, r, c)

	initialFace := Face(WeightBold, podAvatarSize/2)
	DrawTextCentered(img, initialFace, speakerInitial(name), cx, cy+podAvatarSize/5, color.RGBA{255, 255, 255, 255})

	nameC := color.RGBA{150, 150, 150, 255}
	if active {
		nameC = color.RGBA{255, 255, 255, 255}
	}
	DrawTextCentered(img, Face(WeightRegular, 28), name, cx, cy+r+20+28, nameC)
}

func speakerInitial(name string) string {
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1])
}

func (p *Podcast) drawWaveform(img *image.RGBA, cx, cy, frame int, active bool) {
	width, height := 160, 40
	barW := width / (podWaveBars * 2)
	for i := 0; i < podWaveBars; i++ {
		x := cx - width/2 + i*barW*2
		if !active {
			// Flat line when not speaking.
			FillRect(img, x, cy-1, x+barW, cy+1, color.RGBA{80, 80, 80, 255})
			continue
		}
		h := int((math.Sin(float64(frame)*0.2+float64(i)*0.7)*0.5+0.5)*float64(height)*0.8 + float64(height)*0.2)
		FillRect(img, x, cy-h/2, x+barW, cy+h/2, color.RGBA{100, 200, 255, 255})
	}
}

func (p *Podcast) drawLine(img *image.RGBA, text string) {
	face := Face(WeightRegular, 44)
	lines := WrapText(face, text, int(float64(p.Width)*0.85))
	lineH := 55
	y := int(float64(p.Height)*0.55) - len(lines)*lineH/2
	for _, line := range lines {
		tw := MeasureText(face, line)
		DrawTextShadowed(img, face, line, (p.Width-tw)/2, y, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}, 2)
		y += lineH
	}
}
