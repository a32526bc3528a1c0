package render

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math/rand"
	"strconv"
	"strings"

	"shortreel/internal/anim"
	"shortreel/internal/system"
)

// Motion renders kinetic text and animated title graphics frame by
// frame at anim.DefaultFPS. Every effect is a pure function of
// (text, duration, params), so reruns produce identical frames.
type Motion struct {
	Width  int
	Height int
}

func NewMotion(width, height int) *Motion {
	return &Motion{Width: width, Height: height}
}

// Render dispatches on the effect name. Unknown effects fall back to
// the title card, which works for any text.
func (m *Motion) Render(effect, text string, duration float64, params map[string]string) (*anim.FrameSeq, error) {
	if duration < 2.0 {
		duration = 2.0
	}
	switch effect {
	case "typewriter":
		return m.renderTypewriter(text, duration, params), nil
	case "fade_words":
		return m.renderFadeWords(text, duration, params), nil
	case "slide_in":
		return m.renderSlideIn(text, duration, params), nil
	case "kinetic_typography":
		return m.renderKinetic(text, duration, params), nil
	case "counter":
		return m.renderCounter(text, duration, params), nil
	case "lower_third":
		return m.renderLowerThird(text, duration, params), nil
	case "title_card", "":
		return m.renderTitleCard(text, duration, params), nil
	default:
		return m.renderTitleCard(text, duration, params), nil
	}
}

func (m *Motion) newFrame() *image.RGBA {
	return system.GetImage(image.Rect(0, 0, m.Width, m.Height))
}

func paramColor(params map[string]string, key string, def color.RGBA) color.RGBA {
	if v, ok := params[key]; ok && v != "" {
		return ParseHex(v)
	}
	return def
}

// Typewriter: characters appear one by one over the first 70% of the
// duration, with a cursor that blinks every five frames.
func (m *Motion) renderTypewriter(text string, duration float64, params map[string]string) *anim.FrameSeq {
	bgTop := paramColor(params, "bg_top", color.RGBA{15, 15, 35, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 15, 255})
	textColor := paramColor(params, "text_color", color.RGBA{255, 255, 255, 255})
	cursorColor := paramColor(params, "cursor_color", Gold)

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	runes := []rune(text)
	const typeEnd = 0.7

	face := Face(WeightBold, 52)
	for f := 0; f < total; f++ {
		progress := float64(f) / float64(max(1, total-1))

		visible := len(runes)
		if progress < typeEnd {
			visible = int(float64(len(runes)) * anim.EaseOutCubic(progress/typeEnd))
		}
		visibleText := string(runes[:visible])
		showCursor := f%10 < 5

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		lines := WrapText(face, visibleText, int(float64(m.Width)*0.8))
		lineH := 68
		totalH := max(1, len(lines)) * lineH
		yStart := (m.Height - totalH) / 2

		for i, line := range lines {
			tw := MeasureText(face, line)
			x := (m.Width - tw) / 2
			y := yStart + i*lineH + lineH/2
			DrawTextShadowed(img, face, line, x, y, textColor, color.RGBA{0, 0, 0, 255}, 2)
		}

		if showCursor && len(lines) > 0 {
			last := lines[len(lines)-1]
			cursorX := (m.Width+MeasureText(face, last))/2 + 5
			cursorY := yStart + (len(lines)-1)*lineH
			FillRect(img, cursorX, cursorY, cursorX+4, cursorY+55, cursorColor)
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Fade words: each word fades in over 0.5s, starting 0.4s apart, with
// a gold glow on the word currently appearing.
func (m *Motion) renderFadeWords(text string, duration float64, params map[string]string) *anim.FrameSeq {
	bgTop := paramColor(params, "bg_top", color.RGBA{10, 10, 30, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 15, 255})

	words := strings.Fields(text)
	if len(words) == 0 {
		words = []string{"..."}
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const wordFadeDur = 0.5
	const stagger = 0.4

	face := Face(WeightBold, 56)
	spaceW := MeasureText(face, " ")

	// Wrap once; layout does not depend on opacity.
	type placed struct {
		idx  int
		word string
	}
	var lines [][]placed
	var current []placed
	currentW := 0
	maxW := int(float64(m.Width) * 0.8)
	for i, w := range words {
		ww := MeasureText(face, w)
		if currentW+ww+spaceW > maxW && len(current) > 0 {
			lines = append(lines, current)
			current = []placed{{i, w}}
			currentW = ww
		} else {
			current = append(current, placed{i, w})
			currentW += ww + spaceW
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		opacities := make([]float64, len(words))
		activeWord := -1
		for wi := range words {
			wordProgress := (t - float64(wi)*stagger) / wordFadeDur
			opacities[wi] = anim.EaseInOutCubic(anim.Clamp01(wordProgress))
			if wordProgress > 0 && wordProgress < 1 {
				activeWord = wi
			}
		}

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		lineH := 72
		totalH := len(lines) * lineH
		yStart := (m.Height - totalH) / 2

		for li, lineWords := range lines {
			parts := make([]string, len(lineWords))
			for i, p := range lineWords {
				parts[i] = p.word
			}
			lineW := MeasureText(face, strings.Join(parts, " "))
			x := (m.Width - lineW) / 2
			y := yStart + li*lineH + lineH/2

			for _, p := range lineWords {
				op := opacities[p.idx]
				if p.idx == activeWord {
					glow := Scale(Gold, op)
					DrawText(img, face, p.word, x-1, y-1, glow)
					DrawText(img, face, p.word, x+3, y+3, glow)
				}
				c := Scale(color.RGBA{255, 255, 255, 255}, op)
				DrawText(img, face, p.word, x+2, y+2, color.RGBA{0, 0, uint8(30 * op), 255})
				DrawText(img, face, p.word, x, y, c)
				x += MeasureText(face, p.word+" ")
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Slide in: one word per line, sliding from alternating edges toward
// an alternating left/right anchor, every third word gold.
func (m *Motion) renderSlideIn(text string, duration float64, params map[string]string) *anim.FrameSeq {
	bgTop := paramColor(params, "bg_top", color.RGBA{20, 10, 30, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 15, 255})

	words := strings.Fields(text)
	if len(words) == 0 {
		words = []string{"..."}
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const stagger = 0.4

	face := Face(WeightBold, 60)
	lineH := 80
	totalH := len(words) * lineH
	yStart := (m.Height - totalH) / 2

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		for i, word := range words {
			wordStart := float64(i) * stagger
			progress := 0.0
			if t > wordStart {
				progress = anim.Clamp01((t - wordStart) / 0.6)
			}

			tw := MeasureText(face, word)
			var startX, finalX int
			if i%2 == 0 {
				finalX = int(float64(m.Width) * 0.1)
				startX = -tw - 50
			} else {
				finalX = int(float64(m.Width)*0.9) - tw
				startX = m.Width + 50
			}

			x := int(anim.Interpolate(float64(startX), float64(finalX), progress, anim.EaseOutCubic))
			y := yStart + i*lineH + lineH/2

			base := color.RGBA{255, 255, 255, 255}
			if i%3 == 0 {
				base = Gold
			}
			c := Scale(base, anim.EaseOutCubic(progress))
			DrawTextShadowed(img, face, word, x, y, c, color.RGBA{0, 0, 0, 255}, 2)
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Kinetic typography: words pop in with a bounce, each at its own size
// and horizontal anchor. Sizes are seeded from the text so the same
// line always animates the same way.
func (m *Motion) renderKinetic(text string, duration float64, params map[string]string) *anim.FrameSeq {
	bgTop := paramColor(params, "bg_top", color.RGBA{15, 15, 40, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 10, 255})

	words := strings.Fields(text)
	if len(words) == 0 {
		words = []string{"..."}
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum32() % 10000)))

	sizes := make([]int, len(words))
	for i, w := range words {
		if len(w) > 5 {
			sizes[i] = 64 + rng.Intn(17)
		} else {
			sizes[i] = 40 + rng.Intn(17)
		}
	}
	offsets := []float64{0.5, 0.35, 0.65, 0.45, 0.55}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const stagger = 0.3

	totalH := 0
	for _, s := range sizes {
		totalH += s + 20
	}

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		y := (m.Height - totalH) / 2
		for i, word := range words {
			wordStart := float64(i) * stagger
			progress := 0.0
			if t > wordStart {
				progress = anim.Clamp01((t - wordStart) / 0.5)
			}

			scale := anim.EaseOutBounce(progress)
			fontSize := int(float64(sizes[i]) * scale)
			if fontSize < 8 {
				fontSize = 8
			}
			face := Face(WeightBold, fontSize)

			tw := MeasureText(face, word)
			x := int(float64(m.Width)*offsets[i%len(offsets)]) - tw/2

			base := color.RGBA{200, 200, 220, 255}
			if sizes[i] > 60 {
				base = Gold
			}
			c := Scale(base, anim.Clamp01(progress*2))

			if progress > 0 {
				DrawTextShadowed(img, face, word, x, y+fontSize, c, color.RGBA{0, 0, 0, 255}, 2)
			}
			y += sizes[i] + 20
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Counter: a large gold number counts up over the first 70% of the
// duration, then the label fades in beneath it.
func (m *Motion) renderCounter(text string, duration float64, params map[string]string) *anim.FrameSeq {
	target := 100
	if v, ok := params["number"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			target = n
		}
	}
	label := text
	if v, ok := params["label"]; ok && v != "" {
		label = v
	}
	suffix := "%"
	if v, ok := params["suffix"]; ok {
		suffix = v
	}
	bgTop := paramColor(params, "bg_top", color.RGBA{10, 20, 40, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 10, 20, 255})

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	const countEnd = 0.7

	numberFace := Face(WeightBold, 120)
	labelFace := Face(WeightRegular, 36)

	for f := 0; f < total; f++ {
		progress := float64(f) / float64(max(1, total-1))

		countProgress := 1.0
		if progress < countEnd {
			countProgress = anim.EaseOutCubic(progress / countEnd)
		}
		current := int(float64(target) * countProgress)

		labelOpacity := 0.0
		if progress > countEnd {
			labelOpacity = anim.EaseInOutCubic((progress - countEnd) / (1.0 - countEnd))
		}

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		numberText := fmt.Sprintf("%d%s", current, suffix)
		tw := MeasureText(numberFace, numberText)
		x := (m.Width - tw) / 2
		y := m.Height/2 - 100 + 60
		DrawTextShadowed(img, numberFace, numberText, x, y, Gold, color.RGBA{0, 0, 0, 255}, 3)

		if labelOpacity > 0 {
			c := Scale(color.RGBA{220, 220, 220, 255}, labelOpacity)
			DrawTextCentered(img, labelFace, label, m.Width/2, y+150, c)
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Lower third: an accent-striped bar slides in over the first half
// second, then the title types on with an optional subtitle fading in
// once typing passes the halfway point.
func (m *Motion) renderLowerThird(text string, duration float64, params map[string]string) *anim.FrameSeq {
	subtitle := params["subtitle"]
	accent := paramColor(params, "accent_color", Gold)
	bgTop := paramColor(params, "bg_top", color.RGBA{15, 15, 35, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 15, 255})

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const slideDur = 0.5
	runes := []rune(text)

	titleFace := Face(WeightBold, 42)
	subFace := Face(WeightRegular, 28)

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		barY := int(float64(m.Height) * 0.75)
		barH := 120

		barProgress := 1.0
		if t < slideDur {
			barProgress = anim.EaseOutCubic(t / slideDur)
		}
		barRight := int(float64(m.Width) * barProgress)

		FillRect(img, 0, barY, barRight, barY+5, accent)
		FillRect(img, 0, barY+5, barRight, barY+barH, color.RGBA{20, 20, 30, 255})

		if t > slideDur {
			textProgress := anim.Clamp01((t - slideDur) / max(0.1, duration-slideDur))
			visible := int(float64(len(runes)) * anim.EaseOutCubic(textProgress))
			DrawText(img, titleFace, string(runes[:visible]), 60, barY+20+42, color.RGBA{255, 255, 255, 255})

			if subtitle != "" && textProgress > 0.5 {
				subOpacity := anim.Clamp01((textProgress - 0.5) / 0.5)
				c := Scale(color.RGBA{200, 200, 180, 255}, subOpacity)
				DrawText(img, subFace, subtitle, 60, barY+70+28, c)
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Title card: text fades and settles from a slight over-scale while
// decorative accent lines expand from the center.
func (m *Motion) renderTitleCard(text string, duration float64, params map[string]string) *anim.FrameSeq {
	accent := paramColor(params, "accent_color", Gold)
	bgTop := paramColor(params, "bg_top", color.RGBA{25, 15, 40, 255})
	bgBot := paramColor(params, "bg_bot", color.RGBA{5, 5, 10, 255})

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	const fadeEnd = 0.4

	for f := 0; f < total; f++ {
		progress := float64(f) / float64(max(1, total-1))

		opacity := 1.0
		scale := 1.0
		if progress < fadeEnd {
			animT := anim.EaseInOutCubic(progress / fadeEnd)
			opacity = animT
			scale = 1.0 + 0.05*(1.0-animT)
		}

		img := m.newFrame()
		FillGradient(img, bgTop, bgBot)

		lineProgress := anim.EaseOutCubic(anim.Clamp01(progress / 0.6))
		cx := m.Width / 2
		lineHalf := int(float64(m.Width/2-100) * lineProgress)
		lineColor := Scale(accent, opacity)
		if lineHalf > 5 {
			FillRect(img, cx-lineHalf, m.Height/2-150, cx+lineHalf, m.Height/2-148, lineColor)
			FillRect(img, cx-lineHalf, m.Height/2+120, cx+lineHalf, m.Height/2+122, lineColor)
		}

		fontSize := int(56 * scale)
		if fontSize < 8 {
			fontSize = 8
		}
		face := Face(WeightBold, fontSize)
		lines := WrapText(face, text, int(float64(m.Width)*0.75))
		lineH := int(70 * scale)
		totalH := len(lines) * lineH
		yStart := (m.Height - totalH) / 2

		if opacity > 0.04 {
			c := Scale(color.RGBA{255, 255, 255, 255}, opacity)
			shadow := Scale(color.RGBA{255, 255, 255, 255}, max(0, opacity-0.8))
			for i, line := range lines {
				tw := MeasureText(face, line)
				x := (m.Width - tw) / 2
				y := yStart + i*lineH + lineH/2
				DrawText(img, face, line, x+2, y+2, shadow)
				DrawText(img, face, line, x, y, c)
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}
