package media

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"shortreel/internal/config"
)

func TestSelectVideos(t *testing.T) {
	raw := `{
	  "videos": [
	    {"id": 1, "duration": 2, "video_files": [{"link": "a", "width": 1080, "height": 1920}]},
	    {"id": 2, "duration": 10, "video_files": [
	      {"link": "low", "width": 360, "height": 640},
	      {"link": "hd", "width": 1080, "height": 1920},
	      {"link": "4k", "width": 2160, "height": 3840}
	    ]},
	    {"id": 3, "duration": 50, "video_files": [{"link": "c", "width": 1080, "height": 1920}]},
	    {"id": 4, "duration": 12, "video_files": [{"link": "sd_only", "width": 540, "height": 960}]}
	  ]
	}`
	var parsed pexelsResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatal(err)
	}

	got := selectVideos(&parsed, 5, 3, 30)
	if len(got) != 2 {
		t.Fatalf("got %d videos, want 2 (too-short and too-long filtered)", len(got))
	}
	// Video 2: HD variant preferred over SD and over the oversized 4k
	if got[0].ID != 2 || got[0].URL != "hd" {
		t.Errorf("video 0 = %+v, want id 2 with hd variant", got[0])
	}
	// Video 4: falls back to the only file when nothing is HD
	if got[1].ID != 4 || got[1].URL != "sd_only" {
		t.Errorf("video 1 = %+v, want id 4 with sd fallback", got[1])
	}
}

func TestSelectVideosCount(t *testing.T) {
	var parsed pexelsResponse
	for i := 0; i < 10; i++ {
		parsed.Videos = append(parsed.Videos, pexelsVideo{
			ID:         i,
			Duration:   10,
			VideoFiles: []pexelsFile{{Link: "x", Width: 1080, Height: 1920}},
		})
	}
	if got := selectVideos(&parsed, 3, 0, 30); len(got) != 3 {
		t.Errorf("got %d, want count cap of 3", len(got))
	}
}

func TestSearchPerPage(t *testing.T) {
	p := NewPexels(config.StockConfig{PerPage: 9}, t.TempDir())
	if got := p.searchPerPage(1); got != 9 {
		t.Errorf("per_page = %d, want configured 9", got)
	}
	// Asking for more clips than a page holds widens the page.
	if got := p.searchPerPage(12); got != 12 {
		t.Errorf("per_page = %d, want 12", got)
	}

	p = NewPexels(config.StockConfig{}, t.TempDir())
	if got := p.searchPerPage(1); got != 5 {
		t.Errorf("per_page = %d, want default 5", got)
	}
}

func TestPollinationsGenerate(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	p := NewPollinations(1080, 1920, t.TempDir())
	p.endpoint = srv.URL

	path, err := p.Generate(context.Background(), "a red fox at dawn", 2)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("wrote %d bytes, want %d", len(data), len(payload))
	}
}

func TestPollinationsSingleAttempt(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPollinations(1080, 1920, t.TempDir())
	p.endpoint = srv.URL

	if _, err := p.Generate(context.Background(), "a red fox at dawn", 0); err == nil {
		t.Fatal("server error should fail the generation")
	}
	// One deterministic attempt; the director downgrades on failure.
	if hits != 1 {
		t.Errorf("made %d requests, want 1", hits)
	}
}
