package media

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"shortreel/internal/system"
)

// localMinMemoryGB is the headroom a local diffusion backend needs to
// map its weights without swapping the encoder to death.
const localMinMemoryGB = 8.0

// LocalImage runs a local diffusion script (SDXL-style) as a
// subprocess. The subprocess boundary keeps GPU state out of this
// process; killing it on timeout frees everything.
type LocalImage struct {
	Script   string
	Timeout  time.Duration
	Width    int
	Height   int
	CacheDir string
}

func NewLocalImage(script string, timeoutSec, width, height int, cacheDir string) *LocalImage {
	if timeoutSec <= 0 {
		timeoutSec = 120
	}
	return &LocalImage{
		Script:   script,
		Timeout:  time.Duration(timeoutSec) * time.Second,
		Width:    width,
		Height:   height,
		CacheDir: filepath.Join(cacheDir, "ai_image"),
	}
}

// Available reports whether the backend can run here: script present
// and enough memory for the model weights.
func (l *LocalImage) Available() bool {
	if l.Script == "" {
		return false
	}
	if _, err := os.Stat(l.Script); err != nil {
		return false
	}
	free, err := system.AvailableMemoryGB()
	if err != nil {
		return false
	}
	if free < localMinMemoryGB {
		log.Printf("[media] local image backend skipped: %.1f GB free, need %.0f", free, localMinMemoryGB)
		return false
	}
	return true
}

func (l *LocalImage) Generate(ctx context.Context, prompt string, sceneIndex int) (string, error) {
	if err := os.MkdirAll(l.CacheDir, 0755); err != nil {
		return "", err
	}
	outPath := filepath.Join(l.CacheDir, fmt.Sprintf("scene_%03d.png", sceneIndex))

	cctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "python3", l.Script,
		"--prompt", prompt,
		"--width", fmt.Sprintf("%d", l.Width),
		"--height", fmt.Sprintf("%d", l.Height),
		"--output", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("local image generation timed out after %s", l.Timeout)
		}
		return "", fmt.Errorf("local image generation: %w: %s", err, tail(string(out), 200))
	}

	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		return "", fmt.Errorf("local image generation produced no output")
	}
	return outPath, nil
}

// Unload is a no-op: the subprocess exits after each generation, so
// there is no resident model to free.
func (l *LocalImage) Unload() {}

// LocalVideo runs a Wan2GP-style text-to-video script as a subprocess
// with a hard timeout. Results are cached by prompt hash since clips
// take minutes to render.
type LocalVideo struct {
	Script   string
	Timeout  time.Duration
	CacheDir string
}

func NewLocalVideo(script string, timeoutSec int, cacheDir string) *LocalVideo {
	if timeoutSec <= 0 {
		timeoutSec = 600
	}
	return &LocalVideo{
		Script:   script,
		Timeout:  time.Duration(timeoutSec) * time.Second,
		CacheDir: filepath.Join(cacheDir, "ai_video"),
	}
}

func (l *LocalVideo) Available() bool {
	if l.Script == "" {
		return false
	}
	_, err := os.Stat(l.Script)
	return err == nil
}

func (l *LocalVideo) Generate(ctx context.Context, prompt string, duration float64) (string, error) {
	if err := os.MkdirAll(l.CacheDir, 0755); err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%.1f", prompt, duration)))
	outPath := filepath.Join(l.CacheDir, fmt.Sprintf("clip_%x.mp4", sum[:8]))

	if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
		log.Printf("[media] using cached AI clip %s", outPath)
		return outPath, nil
	}

	cctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	log.Printf("[media] generating AI video (up to %s): %.60s", l.Timeout, prompt)
	cmd := exec.CommandContext(cctx, "python3", l.Script,
		"--prompt", prompt,
		"--duration", fmt.Sprintf("%.1f", duration),
		"--output", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("AI video generation timed out after %s", l.Timeout)
		}
		return "", fmt.Errorf("AI video generation: %w: %s", err, tail(string(out), 200))
	}

	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		return "", fmt.Errorf("AI video generation produced no output")
	}
	return outPath, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
