package media

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"shortreel/internal/config"
)

const pexelsEndpoint = "https://api.pexels.com/videos/search"

// StockVideo is one candidate clip from the stock provider.
type StockVideo struct {
	ID       int
	URL      string
	Duration float64
	Width    int
	Height   int
}

// Pexels fetches stock footage from the Pexels videos API. Downloads
// are cached by URL hash so repeated topics reuse clips.
type Pexels struct {
	APIKey      string
	Orientation string
	MinDuration float64
	MaxDuration float64
	PerPage     int
	CacheDir    string
	httpClient  *http.Client
}

func NewPexels(cfg config.StockConfig, cacheDir string) *Pexels {
	orientation := cfg.Orientation
	if orientation == "" {
		orientation = "portrait"
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &Pexels{
		APIKey:      os.Getenv("PEXELS_API_KEY"),
		Orientation: orientation,
		MinDuration: cfg.MinDuration,
		MaxDuration: 30,
		PerPage:     perPage,
		CacheDir:    filepath.Join(cacheDir, "stock"),
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

type pexelsResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsVideo struct {
	ID         int          `json:"id"`
	Duration   float64      `json:"duration"`
	VideoFiles []pexelsFile `json:"video_files"`
}

type pexelsFile struct {
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Search returns up to count clips matching the query, filtered by
// duration and picked at HD-or-better quality.
func (p *Pexels) Search(ctx context.Context, query string, count int) ([]StockVideo, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("PEXELS_API_KEY not set")
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", fmt.Sprintf("%d", p.searchPerPage(count)))
	q.Set("orientation", p.Orientation)

	req, err := http.NewRequestWithContext(ctx, "GET", pexelsEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels search: HTTP %d", resp.StatusCode)
	}

	var parsed pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("pexels search: parse: %w", err)
	}

	return selectVideos(&parsed, count, p.MinDuration, p.MaxDuration), nil
}

// searchPerPage is the configured page size, widened when more clips
// are asked for than one page would hold.
func (p *Pexels) searchPerPage(count int) int {
	per := p.PerPage
	if per < count {
		per = count
	}
	return per
}

// selectVideos filters search results by duration and picks the best
// file variant per video: HD or better, but not beyond 1920 tall.
func selectVideos(parsed *pexelsResponse, count int, minDur, maxDur float64) []StockVideo {
	var results []StockVideo
	for _, v := range parsed.Videos {
		if v.Duration < minDur || v.Duration > maxDur {
			continue
		}
		best := -1
		for i, vf := range v.VideoFiles {
			if vf.Height >= 1080 && (best < 0 || vf.Height <= 1920) {
				best = i
			}
		}
		if best < 0 && len(v.VideoFiles) > 0 {
			best = 0
		}
		if best < 0 {
			continue
		}
		vf := v.VideoFiles[best]
		results = append(results, StockVideo{
			ID:       v.ID,
			URL:      vf.Link,
			Duration: v.Duration,
			Width:    vf.Width,
			Height:   vf.Height,
		})
		if len(results) >= count {
			break
		}
	}
	return results
}

// Fetch searches and downloads the best clip for a query, returning a
// local path. Cached clips are reused.
func (p *Pexels) Fetch(ctx context.Context, query string) (string, error) {
	videos, err := p.Search(ctx, query, 1)
	if err != nil {
		return "", err
	}
	if len(videos) == 0 {
		return "", fmt.Errorf("no stock results for %q", query)
	}
	return p.download(ctx, videos[0].URL)
}

// FetchAll downloads several clips concurrently, bounded at three
// transfers so the free-tier rate limit is not hammered.
func (p *Pexels) FetchAll(ctx context.Context, queries []string) ([]string, error) {
	paths := make([]string, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			path, err := p.Fetch(gctx, query)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (p *Pexels) download(ctx context.Context, clipURL string) (string, error) {
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(clipURL))
	outPath := filepath.Join(p.CacheDir, fmt.Sprintf("%x.mp4", sum[:8]))

	if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
		log.Printf("[media] using cached stock clip %s", outPath)
		return outPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", clipURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download stock clip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download stock clip: HTTP %d", resp.StatusCode)
	}

	tmp := outPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	f.Close()
	if err := os.Rename(tmp, outPath); err != nil {
		return "", err
	}
	log.Printf("[media] downloaded stock clip %s", outPath)
	return outPath, nil
}
