package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"

	"shortreel/internal/anim"
	"shortreel/internal/system"
)

// Chat layout constants, messenger-style dark theme.
const (
	chatHeaderH     = 140
	bubblePadding   = 16
	bubbleMaxW      = 700
	bubbleMargin    = 12
	nameFontSize    = 28
	msgFontSize     = 36
	typingDotRadius = 8
)

var (
	chatBG      = color.RGBA{17, 27, 33, 255}
	chatHeaderC = color.RGBA{32, 44, 51, 255}
	leftBubble  = color.RGBA{240, 240, 240, 255}
	rightBubble = color.RGBA{220, 248, 198, 255}
	leftName    = color.RGBA{37, 211, 102, 255}
	rightName   = color.RGBA{52, 183, 241, 255}
)

// ChatMessage is one bubble in a rendered conversation.
type ChatMessage struct {
	Speaker string
	Text    string
	Right   bool
}

// Chat renders a messenger-style conversation card where bubbles
// appear one by one with a typing indicator before each.
type Chat struct {
	Width  int
	Height int
}

func NewChat(width, height int) *Chat {
	return &Chat{Width: width, Height: height}
}

// ParseChatScript splits scene text into messages. Lines of the form
// "Name: text" keep their speaker; otherwise sentences alternate
// between two implied speakers.
func ParseChatScript(text string) []ChatMessage {
	var msgs []ChatMessage

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.Index(line, ":")
		if i > 0 && i < 24 && !strings.Contains(line[:i], " ") {
			msgs = append(msgs, ChatMessage{Speaker: line[:i], Text: strings.TrimSpace(line[i+1:])})
		}
	}
	if len(msgs) > 0 {
		first := msgs[0].Speaker
		for i := range msgs {
			msgs[i].Right = msgs[i].Speaker != first
		}
		return msgs
	}

	// No speaker markers: alternate sentences between two sides.
	for i, sentence := range splitSentences(text) {
		speaker := "A"
		if i%2 == 1 {
			speaker = "B"
		}
		msgs = append(msgs, ChatMessage{Speaker: speaker, Text: sentence, Right: i%2 == 1})
	}
	return msgs
}

func splitSentences(text string) []string {
	var out []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '?' || r == '!' {
			if s := strings.TrimSpace(current.String()); s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// Render animates the conversation over the scene duration: each
// message gets a short typing-dots phase, then its bubble pops in.
func (c *Chat) Render(text string, duration float64) (*anim.FrameSeq, error) {
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

	// Split time evenly; up to 0.6s of each slot is the typing phase.
	slot := duration / float64(len(msgs))
	typingDur := math.Min(0.6, slot*0.4)

	msgFace := Face(WeightRegular, msgFontSize)
	nameFace := Face(WeightBold, nameFontSize)

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := system.GetImage(image.Rect(0, 0, c.Width, c.Height))
		FillSolid(img, chatBG)
		c.drawHeader(img, msgs)

		y := chatHeaderH + 30
		for i, msg := range msgs {
			msgStart := float64(i) * slot
			appearAt := msgStart + typingDur

			if t < msgStart {
				break
			}
			if t < appearAt {
				c.drawTyping(img, msg, y, f)
				break
			}

			pop := anim.EaseOutCubic(anim.Clamp01((t - appearAt) / 0.3))
			y = c.drawBubble(img, msg, y, pop, msgFace, nameFace)
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq, nil
}

func (c *Chat) drawHeader(img *image.RGBA, msgs []ChatMessage) {
	FillRect(img, 0, 0, c.Width, chatHeaderH, chatHeaderC)

	var names []string
	seen := map[string]bool{}
	for _, m := range msgs {
		if !seen[m.Speaker] && len(names) < 2 {
			seen[m.Speaker] = true
			names = append(names, m.Speaker)
		}
	}
	title := strings.Join(names, " & ")

	DrawText(img, Face(WeightBold, 34), title, 80, 40+34, color.RGBA{255, 255, 255, 255})
	DrawText(img, Face(WeightRegular, 24), "online", 80, 82+24, color.RGBA{128, 200, 128, 255})
	DrawText(img, Face(WeightRegular, 36), "<", 20, 45+36, color.RGBA{255, 255, 255, 255})
	FillRect(img, 0, chatHeaderH, c.Width, chatHeaderH+1, color.RGBA{50, 60, 70, 255})
}

func (c *Chat) drawTyping(img *image.RGBA, msg ChatMessage, y, frame int) {
	bubbleW, bubbleH := 100, 50
	bx := 30
	bubble := leftBubble
	if msg.Right {
		bx = c.Width - bubbleW - 30
		bubble = rightBubble
	}
	fillRoundedRect(img, bx, y, bx+bubbleW, y+bubbleH, 20, bubble)

	for i := 0; i < 3; i++ {
		offset := int(math.Sin(float64(frame)*0.3+float64(i)*1.2) * 5)
		FillCircle(img, bx+25+i*22, y+25+offset, typingDotRadius, color.RGBA{120, 120, 120, 255})
	}
}

// drawBubble paints one message bubble fading in by pop in [0,1] and
// returns the y offset for the next bubble.
func (c *Chat) drawBubble(img *image.RGBA, msg ChatMessage, y int, pop float64, msgFace, nameFace font.Face) int {
	maxTextW := bubbleMaxW - bubblePadding*2
	lines := WrapText(msgFace, msg.Text, maxTextW)
	lineH := msgFontSize + 6
	bubbleH := len(lines)*lineH + bubblePadding*2 + nameFontSize + 12

	widest := 200 - bubblePadding*2 - 20
	for _, line := range lines {
		if w := MeasureText(msgFace, line); w > widest {
			widest = w
		}
	}
	bubbleW := widest + bubblePadding*2 + 20
	if bubbleW > bubbleMaxW {
		bubbleW = bubbleMaxW
	}

	bx := 30
	bubble := leftBubble
	name := leftName
	if msg.Right {
		bx = c.Width - bubbleW - 30
		bubble = rightBubble
		name = rightName
	}

	// Fade toward the background while popping in.
	bubbleC := LerpColor(chatBG, bubble, pop)
	nameC := LerpColor(bubbleC, name, pop)
	textC := LerpColor(bubbleC, color.RGBA{0, 0, 0, 255}, pop)

	fillRoundedRect(img, bx, y, bx+bubbleW, y+bubbleH, 20, bubbleC)
	DrawText(img, nameFace, msg.Speaker, bx+bubblePadding, y+8+nameFontSize, nameC)

	textY := y + nameFontSize + 16 + msgFontSize
	for _, line := range lines {
		DrawText(img, msgFace, line, bx+bubblePadding, textY, textC)
		textY += lineH
	}
	return y + bubbleH + bubbleMargin
}
