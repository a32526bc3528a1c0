package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const pollinationsEndpoint = "https://image.pollinations.ai"

// Pollinations generates AI images through the free pollinations.ai
// HTTP endpoint. No API key needed, occasional timeouts expected.
type Pollinations struct {
	Width      int
	Height     int
	CacheDir   string
	endpoint   string
	httpClient *http.Client
}

func NewPollinations(width, height int, cacheDir string) *Pollinations {
	return &Pollinations{
		Width:      width,
		Height:     height,
		CacheDir:   filepath.Join(cacheDir, "ai_image"),
		endpoint:   pollinationsEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate renders one image for the prompt and returns a local path.
// The seed is derived from the scene index so reruns reproduce the same
// image. One attempt only; a failure means the caller downgrades the
// scene to stock footage.
func (p *Pollinations) Generate(ctx context.Context, prompt string, sceneIndex int) (string, error) {
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return "", err
	}

	seed := sceneIndex*42 + 7
	imageURL := fmt.Sprintf(
		"%s/prompt/%s?width=%d&height=%d&nologo=true&model=flux&seed=%d",
		p.endpoint, url.PathEscape(prompt), p.Width, p.Height, seed,
	)
	outPath := filepath.Join(p.CacheDir, fmt.Sprintf("scene_%03d.jpg", sceneIndex))

	if err := p.downloadImage(ctx, imageURL, outPath); err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}
	return outPath, nil
}

// Unload is a no-op; the remote backend holds no local resources.
func (p *Pollinations) Unload() {}

func (p *Pollinations) downloadImage(ctx context.Context, imageURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; shortreel/1.0)")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from pollinations", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// Tiny responses are error pages, not images.
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes)", len(data))
	}
	return os.WriteFile(outPath, data, 0644)
}
