package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 220

// RenderCTACard renders the end-card overlay: the call-to-action text
// in the accent color, with a QR code below it when a URL is
// configured. The card is transparent outside the drawn elements so it
// composites over the final scene.
func RenderCTACard(text, url string, videoW, videoH int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, videoW, videoH))

	face := Face(WeightBold, 56)
	lines := WrapText(face, text, int(float64(videoW)*0.8))
	lineH := 72
	blockH := len(lines) * lineH
	yStart := videoH/2 - blockH/2
	if url != "" {
		yStart -= (qrSize + 60) / 2
	}

	stroke := color.RGBA{0, 0, 0, 255}
	for i, line := range lines {
		tw := MeasureText(face, line)
		x := (videoW - tw) / 2
		y := yStart + i*lineH + lineH/2 + 56/3
		for dx := -2; dx <= 2; dx++ {
			for dy := -2; dy <= 2; dy++ {
				if dx != 0 || dy != 0 {
					DrawText(img, face, line, x+dx, y+dy, stroke)
				}
			}
		}
		DrawText(img, face, line, x, y, Gold)
	}

	if url != "" {
		qr, err := qrcode.New(url, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("cta qr code: %w", err)
		}
		qr.BackgroundColor = color.White
		qr.ForegroundColor = color.Black
		qrImg := qr.Image(qrSize)

		qx := (videoW - qrSize) / 2
		qy := yStart + blockH + 60
		draw.Draw(img, image.Rect(qx, qy, qx+qrSize, qy+qrSize), qrImg, qrImg.Bounds().Min, draw.Src)
	}

	return img, nil
}

// SaveCTACard renders and writes the end card as a PNG.
func SaveCTACard(text, url string, videoW, videoH int, outPath string) error {
	img, err := RenderCTACard(text, url, videoW, videoH)
	if err != nil {
		return err
	}
	return writePNG(outPath, img)
}
