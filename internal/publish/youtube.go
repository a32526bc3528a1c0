// Package publish uploads finished videos to YouTube through the Data
// API v3. Credentials come from the environment: a client ID/secret pair
// and a long-lived refresh token.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"shortreel/internal/storyboard"
)

// Metadata is what the upload carries besides the file itself.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string // public, unlisted, private
	Language    string
}

// ShortsMetadata derives upload metadata from a finished storyboard.
// The #Shorts tag in the description is what routes the video to the
// Shorts shelf.
func ShortsMetadata(sb *storyboard.Storyboard, privacy string) Metadata {
	title := sb.Title
	if title == "" {
		title = sb.Topic
	}
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	hashtags := sb.Hashtags
	if !containsTag(hashtags, "#shorts") {
		hashtags = append(hashtags, "#shorts")
	}

	var desc strings.Builder
	if sb.Hook != "" {
		desc.WriteString(sb.Hook + "\n\n")
	}
	if sb.CTA != "" {
		desc.WriteString(sb.CTA + "\n\n")
	}
	desc.WriteString(strings.Join(hashtags, " "))

	var tags []string
	for _, h := range hashtags {
		tags = append(tags, strings.TrimPrefix(h, "#"))
	}

	if privacy == "" {
		privacy = "unlisted"
	}

	return Metadata{
		Title:       title,
		Description: desc.String(),
		Tags:        tags,
		CategoryID:  "22", // People & Blogs
		Privacy:     privacy,
		Language:    sb.Language,
	}
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// Uploader talks to the YouTube Data API.
type Uploader struct {
	LogDir string
}

func NewUploader(logDir string) *Uploader {
	return &Uploader{LogDir: logDir}
}

// Upload pushes the video and returns its ID and watch URL. The API
// client uses resumable uploads, so large files survive flaky links.
func (u *Uploader) Upload(ctx context.Context, videoFile string, meta Metadata) (string, string, error) {
	client, err := oauthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                meta.Title,
			Description:          meta.Description,
			Tags:                 meta.Tags,
			CategoryId:           meta.CategoryID,
			DefaultLanguage:      meta.Language,
			DefaultAudioLanguage: meta.Language,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[publish] uploading %q (%.1f MB)", meta.Title, float64(fi.Size())/1024/1024)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)
	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploaded.Id
	videoURL := "https://www.youtube.com/watch?v=" + videoID
	log.Printf("[publish] uploaded %s", videoURL)

	if err := u.logUpload(videoID, videoURL, videoFile, meta); err != nil {
		log.Printf("[publish] could not write upload log: %v", err)
	}
	return videoID, videoURL, nil
}

func oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}

func (u *Uploader) logUpload(videoID, videoURL, videoFile string, meta Metadata) error {
	if u.LogDir == "" {
		return nil
	}
	if err := os.MkdirAll(u.LogDir, 0o755); err != nil {
		return err
	}
	entry := map[string]any{
		"video_id":    videoID,
		"video_url":   videoURL,
		"title":       meta.Title,
		"privacy":     meta.Privacy,
		"video_file":  videoFile,
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(u.LogDir, "upload_"+time.Now().Format("20060102_150405")+".json")
	return os.WriteFile(path, data, 0o644)
}
