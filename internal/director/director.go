// Package director orchestrates a full video run: storyboard creation,
// then the production phases in fixed order, then export. Failures in
// any phase before export degrade the affected scene instead of
// aborting the run.
package director

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"shortreel/internal/anim"
	"shortreel/internal/audio"
	"shortreel/internal/config"
	"shortreel/internal/encoder"
	"shortreel/internal/focus"
	"shortreel/internal/media"
	"shortreel/internal/render"
	"shortreel/internal/script"
	"shortreel/internal/storyboard"
	"shortreel/internal/timeline"
)

// Narrator synthesizes the master voiceover.
type Narrator interface {
	Synthesize(ctx context.Context, text, voice string) (storyboard.NarrationTrack, error)
	BestVoice(language, gender string) string
}

// ImageGenerator produces a still image file for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, sceneIndex int) (string, error)
	Unload()
}

// VideoGenerator produces a video clip file for a prompt.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string, duration float64) (string, error)
}

// StockFetcher downloads a stock clip for a search query.
type StockFetcher interface {
	Fetch(ctx context.Context, query string) (string, error)
}

// SceneRenderer draws procedural visuals.
type SceneRenderer interface {
	RenderScene(sc *storyboard.Scene) (*anim.FrameSeq, error)
}

// Exporter runs the final encode.
type Exporter interface {
	Export(ctx context.Context, plan *timeline.Plan, outPath string) error
}

// Director wires the collaborators together. Fields are exported so
// tests can substitute fakes.
type Director struct {
	Config *config.Config
	OutDir string // per-run working directory

	Narrator Narrator
	Stock    StockFetcher
	Images   ImageGenerator
	Videos   VideoGenerator
	Renderer SceneRenderer
	Exporter Exporter
	Detector *focus.Detector
}

// New builds a director with the production collaborators selected by
// the config.
func New(cfg *config.Config, outDir string) *Director {
	d := &Director{
		Config:   cfg,
		OutDir:   outDir,
		Narrator: audio.NewTTS(cfg.Voiceover, cfg.Paths.Cache),
		Stock:    media.NewPexels(cfg.Stock, cfg.Paths.Cache),
		Renderer: render.New(cfg.Video.Width, cfg.Video.Height),
		Exporter: encoder.New(cfg, filepath.Join(outDir, "segments")),
		Detector: focus.NewDetector(),
	}

	if cfg.Generators.AIImage.Enabled {
		switch cfg.Generators.AIImage.Backend {
		case "local":
			gen := media.NewLocalImage(cfg.Generators.AIImage.Script,
				cfg.Generators.AIImage.TimeoutSec, cfg.Video.Width, cfg.Video.Height, cfg.Paths.Cache)
			if gen.Available() {
				d.Images = gen
			} else {
				log.Printf("[director] local image backend unavailable")
			}
		default:
			d.Images = media.NewPollinations(cfg.Video.Width, cfg.Video.Height, cfg.Paths.Cache)
		}
	}

	if cfg.Generators.AIVideo.Enabled {
		gen := media.NewLocalVideo(cfg.Generators.AIVideo.Script,
			cfg.Generators.AIVideo.TimeoutSec, cfg.Paths.Cache)
		if gen.Available() {
			d.Videos = gen
		} else {
			log.Printf("[director] local video backend unavailable")
		}
	}

	return d
}

// CreateStoryboard produces the plan for a topic. Claude mode falls back
// to the template writer on any error, so storyboard creation never
// fails.
func (d *Director) CreateStoryboard(ctx context.Context, opts script.Options) *storyboard.Storyboard {
	if d.Config.Brain.Mode == "claude" {
		writer := script.NewLLMWriter(d.Config.Brain.Model, d.Config.Brain.MaxScenes)
		sb, err := writer.Generate(ctx, opts, d.availableVisuals())
		if err == nil {
			log.Printf("[director] storyboard from %s: %d scenes", d.Config.Brain.Model, len(sb.Scenes))
			return sb
		}
		log.Printf("[director] LLM storyboard failed (%v), using templates", err)
	}
	return script.GenerateTemplate(opts)
}

func (d *Director) availableVisuals() []string {
	visuals := []string{
		string(storyboard.VisualStock),
		string(storyboard.VisualTextAnim),
		string(storyboard.VisualMotion),
		string(storyboard.VisualInfographic),
	}
	if d.Images != nil {
		visuals = append(visuals, string(storyboard.VisualAIImage))
	}
	if d.Videos != nil {
		visuals = append(visuals, string(storyboard.VisualAIVideo))
	}
	return visuals
}

// ExecuteStoryboard runs the production phases and writes the final
// video to outPath. Only the export phase can fail the run.
func (d *Director) ExecuteStoryboard(ctx context.Context, sb *storyboard.Storyboard, outPath string) error {
	if err := os.MkdirAll(d.OutDir, 0o755); err != nil {
		return err
	}

	d.produceAudio(ctx, sb)
	d.produceAIImages(ctx, sb)
	d.produceAIVideos(ctx, sb)
	d.produceVisuals(ctx, sb)

	assets, err := d.prepareAssets(sb)
	if err != nil {
		return err
	}

	plan := timeline.BuildPlan(sb, d.Config, assets)
	log.Printf("[director] exporting %.1fs video (%d segments)", plan.Total, len(plan.Segments))
	return d.Exporter.Export(ctx, plan, outPath)
}

// produceAudio synthesizes the master narration and distributes word
// timing onto scenes. Without narration the video still renders, silent,
// at the target duration.
func (d *Director) produceAudio(ctx context.Context, sb *storyboard.Storyboard) {
	voice := d.Narrator.BestVoice(sb.Language, "male")
	track, err := d.Narrator.Synthesize(ctx, sb.FullNarration(), voice)
	if err != nil {
		log.Printf("[director] narration failed (%v), rendering silent", err)
		return
	}
	sb.Narration = track
	sb.DistributeWords(track.Words)
	log.Printf("[director] narration %.1fs, %d words", track.Duration, len(track.Words))
}

// produceAIImages runs the image backend for every ai_generated_image
// scene, then unloads it before the next backend starts. A failed scene
// downgrades to stock footage.
func (d *Director) produceAIImages(ctx context.Context, sb *storyboard.Storyboard) {
	var used bool
	for _, sc := range sb.Scenes {
		if sc.Visual != storyboard.VisualAIImage {
			continue
		}
		if d.Images == nil {
			sc.Visual = storyboard.VisualStock
			continue
		}
		path, err := d.Images.Generate(ctx, sc.VisualPrompt, sc.Index)
		if err != nil {
			log.Printf("[director] scene %d image failed (%v), downgrading to stock", sc.Index, err)
			sc.Visual = storyboard.VisualStock
			continue
		}
		sc.VisualPath = path
		used = true
	}
	if used {
		d.Images.Unload()
	}
}

func (d *Director) produceAIVideos(ctx context.Context, sb *storyboard.Storyboard) {
	for _, sc := range sb.Scenes {
		if sc.Visual != storyboard.VisualAIVideo {
			continue
		}
		if d.Videos == nil {
			sc.Visual = storyboard.VisualStock
			continue
		}
		path, err := d.Videos.Generate(ctx, sc.VisualPrompt, sc.Duration)
		if err != nil {
			log.Printf("[director] scene %d AI video failed (%v), downgrading to stock", sc.Index, err)
			sc.Visual = storyboard.VisualStock
			continue
		}
		sc.VisualPath = path
	}
}

// produceVisuals fills the remaining scenes: stock downloads run
// concurrently, procedural renders inline. A failed scene keeps an
// empty visual and the compositor falls back to a color filler.
func (d *Director) produceVisuals(ctx context.Context, sb *storyboard.Storyboard) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for _, sc := range sb.Scenes {
		if sc.Visual != storyboard.VisualStock || sc.VisualPath != "" {
			continue
		}
		sc := sc
		g.Go(func() error {
			query := sc.VisualPrompt
			if query == "" {
				query = sb.Topic
			}
			path, err := d.Stock.Fetch(gctx, query)
			if err != nil {
				log.Printf("[director] scene %d stock failed (%v), using filler", sc.Index, err)
				return nil
			}
			sc.VisualPath = path
			return nil
		})
	}
	g.Wait()

	for _, sc := range sb.Scenes {
		if !isProcedural(sc.Visual) || sc.VisualClip != nil {
			continue
		}
		clip, err := d.Renderer.RenderScene(sc)
		if err != nil {
			log.Printf("[director] scene %d render failed (%v), using filler", sc.Index, err)
			continue
		}
		timeline.ApplyTransition(clip, sc.TransitionIn, sc.TransitionDuration)
		sc.VisualClip = clip
	}
}

func isProcedural(v storyboard.VisualType) bool {
	switch v {
	case storyboard.VisualTextAnim, storyboard.VisualMotion,
		storyboard.VisualInfographic, storyboard.VisualConversation,
		storyboard.VisualColorBG:
		return true
	}
	return false
}

// prepareAssets renders the overlay PNGs and picks the music track, so
// plan building stays pure.
func (d *Director) prepareAssets(sb *storyboard.Storyboard) (timeline.Assets, error) {
	cfg := d.Config
	overlayDir := filepath.Join(d.OutDir, "overlays")
	if err := os.MkdirAll(overlayDir, 0o755); err != nil {
		return timeline.Assets{}, err
	}

	assets := timeline.Assets{
		SceneText:   make(map[int]string),
		FocusPoints: make(map[int]focus.Point),
	}

	if cfg.Music.Enabled {
		assets.MusicPath = audio.PickMusic(cfg.Music.Dir, sb.MusicMood)
		if assets.MusicPath == "" {
			log.Printf("[director] no music track for mood %q", sb.MusicMood)
		}
	}

	style := render.DefaultTextOverlayStyle()

	if sb.Hook != "" {
		p := filepath.Join(overlayDir, "hook.png")
		if err := render.SaveTextOverlay(sb.Hook, cfg.Video.Width, style, p); err != nil {
			log.Printf("[director] hook overlay failed: %v", err)
		} else {
			assets.HookPath = p
		}
	}

	for _, sc := range sb.Scenes {
		if sc.TextOverlay != "" && sc.VisualPath != "" {
			p := filepath.Join(overlayDir, fmt.Sprintf("scene_%03d.png", sc.Index))
			if err := render.SaveTextOverlay(sc.TextOverlay, cfg.Video.Width, style, p); err != nil {
				log.Printf("[director] scene %d overlay failed: %v", sc.Index, err)
			} else {
				assets.SceneText[sc.Index] = p
			}
		}
		if sc.VisualPath != "" && isImage(sc.VisualPath) {
			assets.FocusPoints[sc.Index] = d.Detector.FocusPoint(sc.VisualPath)
		}
	}

	if cfg.Subtitles.Enabled && len(sb.Narration.Words) > 0 {
		events, err := render.RenderSubtitles(sb.Narration.Words, cfg.Subtitles,
			cfg.Video.Width, cfg.Video.Height, filepath.Join(overlayDir, "subs"))
		if err != nil {
			log.Printf("[director] subtitles failed: %v", err)
		} else {
			assets.Subtitles = events
		}
	}

	if cfg.Brand.CTA.Enabled && sb.CTA != "" {
		p := filepath.Join(overlayDir, "cta.png")
		if err := render.SaveCTACard(sb.CTA, cfg.Brand.CTA.URL, cfg.Video.Width, cfg.Video.Height, p); err != nil {
			log.Printf("[director] CTA card failed: %v", err)
		} else {
			assets.CTAPath = p
		}
	}

	if cfg.Brand.Logo != "" {
		if _, err := os.Stat(cfg.Brand.Logo); err == nil {
			assets.LogoPath = cfg.Brand.Logo
		}
	}

	return assets, nil
}

func isImage(p string) bool {
	switch filepath.Ext(p) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
