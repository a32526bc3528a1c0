package render

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"shortreel/internal/anim"
	"shortreel/internal/system"
)

// ChartItem is one labeled value on a bar or pie chart.
type ChartItem struct {
	Label string
	Value int
}

// Stat is one animated statistic row.
type Stat struct {
	Number string
	Label  string
	Suffix string
}

var defaultStats = []Stat{
	{Number: "87", Label: "of people agree", Suffix: "%"},
	{Number: "3", Label: "more effective", Suffix: "x"},
	{Number: "10", Label: "users worldwide", Suffix: "M+"},
}

var defaultSteps = []string{
	"Research & Learn",
	"Plan Your Approach",
	"Start Small",
	"Build Consistency",
	"See Results",
}

// Infographic renders animated charts frame by frame at
// anim.DefaultFPS. Chart data is derived from the scene's data label,
// seeded by its hash, so the same label always charts the same way.
type Infographic struct {
	Width  int
	Height int
}

func NewInfographic(width, height int) *Infographic {
	return &Infographic{Width: width, Height: height}
}

// Render dispatches on the chart type. Unknown types fall back to the
// statistics layout.
func (r *Infographic) Render(chartType, title, dataLabel string, duration float64, params map[string]string) (*anim.FrameSeq, error) {
	if duration < 2.0 {
		duration = 2.0
	}
	switch chartType {
	case "bar_chart":
		return r.renderBarChart(title, dataLabel, duration), nil
	case "pie_chart":
		return r.renderPieChart(title, dataLabel, duration), nil
	case "comparison":
		return r.renderComparison(title, duration, params), nil
	case "process":
		return r.renderProcess(title, duration), nil
	case "statistics", "":
		return r.renderStatistics(title, dataLabel, duration), nil
	default:
		return r.renderStatistics(title, dataLabel, duration), nil
	}
}

func (r *Infographic) newFrame(top, bot color.RGBA) *image.RGBA {
	img := system.GetImage(image.Rect(0, 0, r.Width, r.Height))
	FillGradient(img, top, bot)
	return img
}

// generateChartItems derives placeholder chart data from a text label.
// Values are seeded by the label so reruns chart identically.
func generateChartItems(dataLabel string) []ChartItem {
	h := fnv.New32a()
	h.Write([]byte(dataLabel))
	rng := rand.New(rand.NewSource(int64(h.Sum32())))

	words := strings.Fields(dataLabel)
	if len(words) == 0 {
		words = []string{"Category"}
	}
	if len(words) > 5 {
		words = words[:5]
	}
	var items []ChartItem
	for _, w := range words {
		items = append(items, ChartItem{Label: capitalize(w), Value: 30 + rng.Intn(66)})
	}
	for len(items) < 3 {
		items = append(items, ChartItem{
			Label: fmt.Sprintf("Item %d", len(items)+1),
			Value: 30 + rng.Intn(66),
		})
	}
	return items
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Bar chart: horizontal bars grow from the left, 0.3s apart, with the
// percentage counting up at the bar tip.
func (r *Infographic) renderBarChart(title, dataLabel string, duration float64) *anim.FrameSeq {
	items := generateChartItems(dataLabel)
	if len(items) > 5 {
		items = items[:5]
	}
	if title == "" {
		title = "Statistics"
	}
	maxVal := 100
	for _, it := range items {
		if it.Value > maxVal {
			maxVal = it.Value
		}
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const barStagger = 0.3
	const barAnimDur = 0.6

	titleFace := Face(WeightBold, 44)
	labelFace := Face(WeightRegular, 30)
	valueFace := Face(WeightRegular, 28)

	barAreaTop := 350
	barAreaHeight := 900
	barH := barAreaHeight / (len(items) * 2)
	barGap := barH
	maxBarW := int(float64(r.Width) * 0.65)

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := r.newFrame(color.RGBA{15, 15, 35, 255}, color.RGBA{5, 5, 15, 255})
		DrawTextCentered(img, titleFace, title, r.Width/2, 200+44, color.RGBA{255, 255, 255, 255})

		for _, frac := range []float64{0.25, 0.5, 0.75} {
			gx := 60 + int(float64(maxBarW)*frac)
			FillRect(img, gx, barAreaTop, gx+1, barAreaTop+barAreaHeight, color.RGBA{40, 40, 60, 255})
		}

		for i, item := range items {
			barStart := float64(i) * barStagger
			barProgress := 0.0
			if t > barStart {
				barProgress = anim.Clamp01((t - barStart) / barAnimDur)
			}
			animProgress := anim.EaseOutCubic(barProgress)

			y := barAreaTop + i*(barH+barGap)
			barW := int(float64(item.Value) / float64(maxVal) * float64(maxBarW) * animProgress)
			barColor := ChartColors[i%len(ChartColors)]

			labelColor := Scale(color.RGBA{200, 200, 220, 255}, anim.Clamp01(barProgress*2))
			DrawText(img, labelFace, item.Label, 60, y+25, labelColor)

			if barW > 2 {
				barY := y + 35
				fillRoundedRect(img, 60, barY, 60+barW, barY+barH, barH/3, barColor)
				shownVal := int(float64(item.Value) * animProgress)
				DrawText(img, valueFace, fmt.Sprintf("%d%%", shownVal), 70+barW, barY+28, color.RGBA{255, 255, 255, 255})
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Pie chart: a donut whose slices sweep clockwise one after another,
// 0.5s each, starting at twelve o'clock, with a two-column legend.
func (r *Infographic) renderPieChart(title, dataLabel string, duration float64) *anim.FrameSeq {
	items := generateChartItems(dataLabel)
	if title == "" {
		title = "Distribution"
	}
	totalVal := 0
	for _, it := range items {
		totalVal += it.Value
	}
	if totalVal == 0 {
		totalVal = 1
	}

	cx := r.Width / 2
	cy := 650
	outerR := 220
	innerR := 120

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const sliceDur = 0.5

	titleFace := Face(WeightBold, 44)
	centerFace := Face(WeightBold, 48)
	legendFace := Face(WeightRegular, 28)

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := r.newFrame(color.RGBA{15, 15, 35, 255}, color.RGBA{5, 5, 15, 255})
		DrawTextCentered(img, titleFace, title, r.Width/2, 200+44, color.RGBA{255, 255, 255, 255})

		startAngle := -90.0
		cumulative := 0.0
		type legendEntry struct {
			idx      int
			item     ChartItem
			progress float64
		}
		var legend []legendEntry

		for i, item := range items {
			targetSweep := float64(item.Value) / float64(totalVal) * 360
			sliceProgress := 0.0
			if t > cumulative {
				sliceProgress = anim.Clamp01((t - cumulative) / sliceDur)
			}
			animSweep := targetSweep * anim.EaseOutCubic(sliceProgress)
			c := ChartColors[i%len(ChartColors)]

			if animSweep > 0.5 {
				fillPieSlice(img, cx, cy, outerR, startAngle, animSweep, c)
			}
			if sliceProgress > 0 {
				legend = append(legend, legendEntry{i, item, sliceProgress})
			}

			startAngle += targetSweep
			cumulative += sliceDur
		}

		FillCircle(img, cx, cy, innerR, color.RGBA{15, 15, 35, 255})
		DrawText(img, centerFace, "100%", cx-30-25, cy+20, color.RGBA{255, 255, 255, 255})

		legendY := cy + outerR + 80
		for _, e := range legend {
			c := ChartColors[e.idx%len(ChartColors)]
			lx := 100 + (e.idx%2)*(r.Width/2-50)
			ly := legendY + (e.idx/2)*60
			FillRect(img, lx, ly+5, lx+20, ly+25, c)
			lblColor := Scale(color.RGBA{200, 200, 220, 255}, e.progress)
			DrawText(img, legendFace, fmt.Sprintf("%s (%d%%)", e.item.Label, e.item.Value), lx+35, ly+24, lblColor)
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Statistics: big numbers count up one second apart in palette colors,
// labels fading in beneath once each count finishes.
func (r *Infographic) renderStatistics(title, dataLabel string, duration float64) *anim.FrameSeq {
	if title == "" {
		title = "Key Statistics"
	}
	stats := defaultStats
	if len(stats) > 4 {
		stats = stats[:4]
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const statStagger = 1.0

	titleFace := Face(WeightBold, 40)
	numFace := Face(WeightBold, 96)
	labelFace := Face(WeightRegular, 30)
	statGap := 300
	startY := 400

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := r.newFrame(color.RGBA{10, 15, 35, 255}, color.RGBA{5, 5, 15, 255})
		DrawTextCentered(img, titleFace, title, r.Width/2, 200+40, color.RGBA{200, 200, 220, 255})

		for i, stat := range stats {
			statStart := float64(i) * statStagger
			statProgress := 0.0
			if t > statStart {
				statProgress = anim.Clamp01((t - statStart) / 1.5)
			}
			y := startY + i*statGap

			target := 0
			fmt.Sscanf(stat.Number, "%d", &target)

			numText := ""
			if target > 0 {
				countProgress := 0.0
				if statProgress > 0 {
					countProgress = anim.EaseOutCubic(anim.Clamp01(statProgress / 0.7))
				}
				numText = fmt.Sprintf("%d%s", int(float64(target)*countProgress), stat.Suffix)
			} else if statProgress > 0.1 {
				numText = stat.Number
			}

			if numText != "" {
				c := Scale(ChartColors[i%len(ChartColors)], anim.Clamp01(statProgress*2))
				tw := MeasureText(numFace, numText)
				x := (r.Width - tw) / 2
				DrawTextShadowed(img, numFace, numText, x, y+96, c, color.RGBA{0, 0, 0, 255}, 3)
			}

			label := stat.Label
			if label == "" {
				label = dataLabel
			}
			if statProgress > 0.7 {
				labelOpacity := anim.EaseInOutCubic(anim.Clamp01((statProgress - 0.7) / 0.3))
				c := Scale(color.RGBA{200, 200, 200, 255}, labelOpacity)
				DrawTextCentered(img, labelFace, label, r.Width/2, y+110+30, c)
			}

			if i < len(stats)-1 && statProgress > 0.5 {
				divOpacity := anim.Clamp01((statProgress - 0.5) / 0.5)
				divY := y + 200
				c := Scale(color.RGBA{60, 60, 80, 255}, divOpacity)
				FillRect(img, int(float64(r.Width)*0.2), divY, int(float64(r.Width)*0.8), divY+1, c)
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Comparison: two columns slide in from opposite edges with a bouncing
// VS badge over the center divider.
func (r *Infographic) renderComparison(title string, duration float64, params map[string]string) *anim.FrameSeq {
	if title == "" {
		title = "Comparison"
	}
	leftTitle := paramOr(params, "left_title", "Option A")
	rightTitle := paramOr(params, "right_title", "Option B")
	leftItems := splitItems(params["left_items"], []string{"Easy to use", "Free", "Fast"})
	rightItems := splitItems(params["right_items"], []string{"Complex", "Expensive", "Slow"})

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const itemStagger = 0.25

	titleFace := Face(WeightBold, 42)
	headerFace := Face(WeightBold, 36)
	itemFace := Face(WeightRegular, 28)
	midX := r.Width / 2

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := r.newFrame(color.RGBA{15, 15, 35, 255}, color.RGBA{5, 5, 15, 255})
		DrawTextCentered(img, titleFace, title, r.Width/2, 200+42, color.RGBA{255, 255, 255, 255})

		divHeight := int(1280 * anim.EaseOutCubic(anim.Clamp01(t/0.5)))
		if divHeight > 5 {
			FillRect(img, midX-1, 320, midX+1, 320+divHeight, color.RGBA{60, 60, 80, 255})
		}

		if t > 0.5 {
			vsProgress := anim.Clamp01((t - 0.5) / 0.4)
			vsScale := anim.EaseOutBounce(vsProgress)
			vsSize := int(48 * vsScale)
			if vsSize < 8 {
				vsSize = 8
			}
			vsFace := Face(WeightBold, vsSize)
			c := Scale(Gold, anim.Clamp01(vsProgress*2))
			DrawText(img, vsFace, "VS", midX-int(15*vsScale), 920+vsSize, c)
		}

		drawSide := func(header string, items []string, headerColor color.RGBA, left bool) {
			for i := 0; i <= len(items); i++ {
				itemStart := float64(i) * itemStagger
				progress := 0.0
				if t > itemStart {
					progress = anim.Clamp01((t - itemStart) / 0.5)
				}
				eased := anim.EaseOutCubic(progress)

				if i == 0 {
					tw := MeasureText(headerFace, header)
					var startX, finalX int
					if left {
						finalX = (midX - tw) / 2
						startX = -tw - 50
					} else {
						finalX = midX + (midX-tw)/2
						startX = r.Width + 50
					}
					x := int(anim.Interpolate(float64(startX), float64(finalX), progress, anim.EaseOutCubic))
					DrawText(img, headerFace, header, x, 340+36, Scale(headerColor, eased))
					continue
				}

				item := items[i-1]
				y := 440 + (i-1)*80
				var startX, finalX int
				var markColor color.RGBA
				mark := "+"
				if left {
					finalX = 80
					startX = -r.Width / 2
					markColor = color.RGBA{120, 255, 120, 255}
				} else {
					finalX = midX + 60
					startX = r.Width + 50
					markColor = color.RGBA{255, 100, 100, 255}
					mark = "-"
				}
				x := int(anim.Interpolate(float64(startX), float64(finalX), progress, anim.EaseOutCubic))
				DrawText(img, itemFace, mark, x, y+28, Scale(markColor, eased))
				DrawText(img, itemFace, item, x+40, y+28, Scale(color.RGBA{200, 200, 220, 255}, eased))
			}
		}

		drawSide(leftTitle, clipItems(leftItems, 5), ChartColors[0], true)
		drawSide(rightTitle, clipItems(rightItems, 5), ChartColors[1], false)

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// Process: numbered circles pop in top to bottom with step text fading
// in and connecting lines drawing down between them.
func (r *Infographic) renderProcess(title string, duration float64) *anim.FrameSeq {
	if title == "" {
		title = "How It Works"
	}
	steps := defaultSteps
	if len(steps) > 5 {
		steps = steps[:5]
	}

	seq := anim.NewFrameSeq(anim.DefaultFPS)
	total := anim.FrameCount(duration, seq.FPS)
	frameDur := duration / float64(total)
	const stepStagger = 0.4

	titleFace := Face(WeightBold, 42)
	stepFace := Face(WeightRegular, 32)
	stepGap := 220
	startY := 380

	for f := 0; f < total; f++ {
		t := float64(f) * frameDur

		img := r.newFrame(color.RGBA{15, 15, 35, 255}, color.RGBA{5, 5, 15, 255})
		DrawTextCentered(img, titleFace, title, r.Width/2, 200+42, color.RGBA{255, 255, 255, 255})

		for i, step := range steps {
			stepStart := float64(i) * stepStagger
			progress := 0.0
			if t > stepStart {
				progress = anim.Clamp01((t - stepStart) / 0.6)
			}

			y := startY + i*stepGap
			cx := 150
			cyCircle := y + 30
			radius := 35
			c := ChartColors[i%len(ChartColors)]

			circleScale := 0.0
			if progress > 0 {
				circleScale = anim.EaseOutBounce(anim.Clamp01(progress / 0.5))
			}
			if circleScale > 0.05 {
				cr := int(float64(radius) * circleScale)
				if cr < 1 {
					cr = 1
				}
				FillCircle(img, cx, cyCircle, cr, c)

				numSize := int(40 * circleScale)
				if numSize < 8 {
					numSize = 8
				}
				numFace := Face(WeightBold, numSize)
				DrawTextCentered(img, numFace, fmt.Sprintf("%d", i+1), cx, cyCircle+numSize/3, color.RGBA{0, 0, 0, 255})
			}

			if progress > 0.3 {
				textOpacity := anim.EaseInOutCubic(anim.Clamp01((progress - 0.3) / 0.7))
				c := Scale(color.RGBA{240, 240, 240, 255}, textOpacity)
				DrawText(img, stepFace, step, 220, y+15+32, c)
			}

			if i < len(steps)-1 && progress > 0.8 {
				lineProgress := anim.Clamp01((progress - 0.8) / 0.2)
				lineTop := cyCircle + radius + 5
				lineBottom := lineTop + int(float64(y+stepGap-5-lineTop)*lineProgress)
				FillRect(img, cx-1, lineTop, cx+1, lineBottom, color.RGBA{60, 60, 80, 255})
			}
		}

		seq.Frames = append(seq.Frames, img)
	}
	return seq
}

// fillRoundedRect paints a rectangle with quarter-circle corners.
func fillRoundedRect(img *image.RGBA, x0, y0, x1, y1, radius int, c color.RGBA) {
	if radius <= 0 {
		FillRect(img, x0, y0, x1, y1, c)
		return
	}
	FillRect(img, x0+radius, y0, x1-radius, y1, c)
	FillRect(img, x0, y0+radius, x0+radius, y1-radius, c)
	FillRect(img, x1-radius, y0+radius, x1, y1-radius, c)
	FillCircle(img, x0+radius, y0+radius, radius, c)
	FillCircle(img, x1-radius-1, y0+radius, radius, c)
	FillCircle(img, x0+radius, y1-radius-1, radius, c)
	FillCircle(img, x1-radius-1, y1-radius-1, radius, c)
}

// fillPieSlice paints a clockwise pie slice. Angles are in degrees,
// zero at three o'clock, increasing clockwise like screen coordinates.
func fillPieSlice(img *image.RGBA, cx, cy, radius int, startAngle, sweep float64, c color.RGBA) {
	if sweep <= 0 {
		return
	}
	if sweep > 360 {
		sweep = 360
	}
	start := math.Mod(math.Mod(startAngle, 360)+360, 360)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy > float64(radius*radius) {
				continue
			}
			ang := math.Atan2(dy, dx) * 180 / math.Pi
			ang = math.Mod(ang+360, 360)
			rel := math.Mod(ang-start+360, 360)
			if rel <= sweep {
				if image.Pt(x, y).In(img.Bounds()) {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}

func paramOr(params map[string]string, key, def string) string {
	if v, ok := params[key]; ok && v != "" {
		return v
	}
	return def
}

func splitItems(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	parts := strings.Split(raw, "|")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func clipItems(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
