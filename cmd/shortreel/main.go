package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"shortreel/internal/audio"
	"shortreel/internal/config"
	"shortreel/internal/director"
	"shortreel/internal/publish"
	"shortreel/internal/script"
	"shortreel/internal/system"
)

func main() {
	system.InitResourceLimits()

	// Secrets (API keys, OAuth tokens) live in .env; absence is fine.
	godotenv.Load()

	topicPtr := flag.String("topic", "", "Video topic")
	durationPtr := flag.Float64("duration", 30, "Target duration in seconds")
	langPtr := flag.String("lang", "en", "Narration language (en, de, es, shorthand codes accepted)")
	stylePtr := flag.String("style", "education", "Content style: education, lifestyle, product, humor, bait")
	visualsPtr := flag.String("visuals", "stock", "Visual mode: stock, ai_image, ai_video, mixed")
	brainPtr := flag.String("brain", "", "Storyboard brain: template or claude (overrides config)")
	outputPtr := flag.String("output", "", "Output video path (default: output/<run-id>/final.mp4)")
	configPtr := flag.String("config", "config.yaml", "Config file path")
	noMusicPtr := flag.Bool("no-music", false, "Disable background music")
	noSubsPtr := flag.Bool("no-subtitles", false, "Disable subtitles")
	publishPtr := flag.Bool("publish", false, "Upload the finished video to YouTube")
	listVoicesPtr := flag.Bool("list-voices", false, "List TTS voices for -lang and exit")
	batchPtr := flag.String("batch", "", "File with one topic per line; renders each in its own process")
	seedPtr := flag.Int64("seed", 0, "Template randomness seed (0 = time-based)")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] config: %v", err)
	}
	if *brainPtr != "" {
		cfg.Brain.Mode = *brainPtr
	}
	if *noMusicPtr {
		cfg.Music.Enabled = false
	}
	if *noSubsPtr {
		cfg.Subtitles.Enabled = false
	}

	if *listVoicesPtr {
		tts := audio.NewTTS(cfg.Voiceover, cfg.Paths.Cache)
		fmt.Println(tts.FormatVoiceList(*langPtr))
		return
	}

	if *batchPtr != "" {
		if err := runBatch(*batchPtr); err != nil {
			log.Fatalf("[-] batch: %v", err)
		}
		return
	}

	if *topicPtr == "" {
		log.Fatal("[-] -topic is required (or -batch, or -list-voices)")
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	outPath := *outputPtr
	if outPath == "" {
		outPath = filepath.Join(runDir, "final.mp4")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("[-] %v", err)
	}

	ctx := context.Background()
	started := time.Now()
	log.Printf("[main] run %s: %q (%.0fs, %s, %s visuals)",
		runID, *topicPtr, *durationPtr, *stylePtr, *visualsPtr)

	d := director.New(cfg, runDir)
	sb := d.CreateStoryboard(ctx, script.Options{
		Topic:        *topicPtr,
		Language:     *langPtr,
		Style:        *stylePtr,
		Duration:     *durationPtr,
		VisualMode:   *visualsPtr,
		MaxScenes:    cfg.Brain.MaxScenes,
		TemplatesDir: cfg.Paths.Templates,
		Seed:         *seedPtr,
	})

	if err := sb.Save(filepath.Join(runDir, "storyboard.yaml")); err != nil {
		log.Printf("[main] could not save storyboard record: %v", err)
	}

	if err := d.ExecuteStoryboard(ctx, sb, outPath); err != nil {
		log.Fatalf("[-] %v", err)
	}
	log.Printf("[main] done in %s: %s", time.Since(started).Round(time.Second), outPath)

	if *publishPtr {
		uploader := publish.NewUploader(filepath.Join(runDir, "logs"))
		meta := publish.ShortsMetadata(sb, os.Getenv("YOUTUBE_PRIVACY"))
		if _, url, err := uploader.Upload(ctx, outPath, meta); err != nil {
			log.Fatalf("[-] publish: %v", err)
		} else {
			log.Printf("[main] published: %s", url)
		}
	}
}

// runBatch renders one video per topic line, each in a fresh process so
// a crash or leak in one run cannot poison the next.
func runBatch(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	exe, err := os.Executable()
	if err != nil {
		return err
	}

	// Strip the batch flag, keep everything else for the children.
	var passthrough []string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		if args[i] == "-batch" || args[i] == "--batch" {
			i++
			continue
		}
		if strings.HasPrefix(args[i], "-batch=") || strings.HasPrefix(args[i], "--batch=") {
			continue
		}
		passthrough = append(passthrough, args[i])
	}

	var failed int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		topic := strings.TrimSpace(scanner.Text())
		if topic == "" || strings.HasPrefix(topic, "#") {
			continue
		}
		log.Printf("[batch] rendering %q", topic)
		cmd := exec.Command(exe, append(passthrough, "-topic", topic)...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			log.Printf("[batch] %q failed: %v", topic, err)
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d topic(s) failed", failed)
	}
	return nil
}
