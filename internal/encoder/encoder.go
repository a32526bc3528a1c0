// Package encoder runs ffmpeg. Segments are encoded in parallel, then a
// single filter_complex pass joins them with transitions, composites the
// overlay layers, and mixes narration with background music.
package encoder

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"shortreel/internal/config"
	"shortreel/internal/storyboard"
	"shortreel/internal/system"
	"shortreel/internal/timeline"
)

// backgroundColor fills color segments, 0xRRGGBB.
const backgroundColor = "0x0A0A0F"

type Encoder struct {
	Name    string // ffmpeg encoder name
	Quality int
	TmpDir  string
}

func New(cfg *config.Config, tmpDir string) *Encoder {
	name := cfg.Video.Codec
	if name == "" {
		name = system.BestH264Encoder()
	}
	quality := cfg.Video.Quality
	if quality == 0 {
		quality = system.DefaultQuality(name)
	}
	return &Encoder{Name: name, Quality: quality, TmpDir: tmpDir}
}

// Export renders the plan to outPath: segments first, then the compose
// pass. The tmp segment files are removed on success.
func (e *Encoder) Export(ctx context.Context, plan *timeline.Plan, outPath string) error {
	if len(plan.Segments) == 0 {
		return fmt.Errorf("encoder: empty plan")
	}
	if err := os.MkdirAll(e.TmpDir, 0o755); err != nil {
		return err
	}

	paths, err := e.encodeSegments(ctx, plan)
	if err != nil {
		return err
	}

	log.Printf("[encoder] composing %d segments, %d overlays -> %s",
		len(paths), len(plan.Overlays), outPath)
	args := buildComposeArgs(plan, paths, e.Name, e.Quality, outPath)
	if out, err := runFFmpeg(ctx, args); err != nil {
		return fmt.Errorf("encoder: compose: %w, output: %s", err, out)
	}

	for _, p := range paths {
		os.Remove(p)
	}
	return nil
}

func (e *Encoder) encodeSegments(ctx context.Context, plan *timeline.Plan) ([]string, error) {
	paths := make([]string, len(plan.Segments))
	pads := joinPads(plan)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(system.EncodeWorkers(e.Name))
	for i, seg := range plan.Segments {
		i, seg := i, seg
		paths[i] = filepath.Join(e.TmpDir, fmt.Sprintf("seg_%03d.mp4", i))
		g.Go(func() error {
			if err := e.encodeSegment(ctx, seg, plan, pads[i], paths[i]); err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// joinPads returns, per segment, the tail padding it needs so that the
// crossfade into the next segment overlaps held content instead of
// shortening the timeline. Offsets in the compose pass stay at the
// nominal slot starts this way.
func joinPads(plan *timeline.Plan) []float64 {
	pads := make([]float64, len(plan.Segments))
	for i := 1; i < len(plan.Segments); i++ {
		if usesXfade(plan.Segments[i]) {
			pads[i-1] = plan.Segments[i].TransitionDuration
		}
	}
	return pads
}

func usesXfade(seg timeline.Segment) bool {
	return seg.Transition != storyboard.TransitionCut && seg.Transition != "" && seg.TransitionDuration > 0
}

func (e *Encoder) encodeSegment(ctx context.Context, seg timeline.Segment, plan *timeline.Plan, pad float64, outPath string) error {
	dur := seg.Duration + pad

	switch seg.Kind {
	case timeline.SegmentFrames:
		return e.encodeFrames(ctx, seg, plan, pad, outPath)

	case timeline.SegmentImage:
		filter := timeline.KenBurnsFilter(seg.Effect, plan.Width, plan.Height, plan.FPS, dur, seg.Focus)
		args := []string{
			"-y", "-loop", "1", "-i", seg.Path,
			"-vf", filter,
			"-t", fmt.Sprintf("%f", dur),
			"-r", fmt.Sprintf("%d", plan.FPS),
			"-an",
		}
		args = append(args, e.codecArgs()...)
		args = append(args, outPath)
		out, err := runFFmpeg(ctx, args)
		if err != nil {
			return fmt.Errorf("image %s: %w, output: %s", seg.Path, err, out)
		}
		return nil

	case timeline.SegmentVideo:
		// Loop short clips to fill the slot, cover-crop to the frame.
		args := []string{
			"-y", "-stream_loop", "-1", "-i", seg.Path,
			"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1",
				plan.Width, plan.Height, plan.Width, plan.Height),
			"-t", fmt.Sprintf("%f", dur),
			"-r", fmt.Sprintf("%d", plan.FPS),
			"-an",
		}
		args = append(args, e.codecArgs()...)
		args = append(args, outPath)
		out, err := runFFmpeg(ctx, args)
		if err != nil {
			return fmt.Errorf("video %s: %w, output: %s", seg.Path, err, out)
		}
		return nil

	default: // SegmentColor
		args := []string{
			"-y", "-f", "lavfi",
			"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%f",
				backgroundColor, plan.Width, plan.Height, plan.FPS, dur),
		}
		args = append(args, e.codecArgs()...)
		args = append(args, outPath)
		out, err := runFFmpeg(ctx, args)
		if err != nil {
			return fmt.Errorf("color segment: %w, output: %s", err, out)
		}
		return nil
	}
}

// encodeFrames pipes a procedurally rendered clip to ffmpeg as raw RGBA.
// The clip renders at its own low rate; ffmpeg upsamples to the output
// frame rate. A clip shorter than its slot holds its last frame until
// the slot (plus any crossfade padding) is covered.
func (e *Encoder) encodeFrames(ctx context.Context, seg timeline.Segment, plan *timeline.Plan, pad float64, outPath string) error {
	frames := seg.Frames
	if frames == nil || len(frames.Frames) == 0 {
		return fmt.Errorf("no frames")
	}
	b := frames.Bounds()

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"-framerate", fmt.Sprintf("%d", frames.FPS),
		"-i", "-",
		"-vf", fmt.Sprintf("scale=%d:%d,setsar=1", plan.Width, plan.Height),
		"-r", fmt.Sprintf("%d", plan.FPS),
		"-t", fmt.Sprintf("%f", seg.Duration+pad),
	}
	args = append(args, e.codecArgs()...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	writeErr := func() error {
		for _, frame := range frames.Frames {
			if err := writeRawRGBA(stdin, frame); err != nil {
				return err
			}
		}
		last := frames.Frames[len(frames.Frames)-1]
		for i := 0; i < heldFrameCount(len(frames.Frames), frames.FPS, seg.Duration+pad); i++ {
			if err := writeRawRGBA(stdin, last); err != nil {
				return err
			}
		}
		return nil
	}()
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait: %w", err)
	}
	if writeErr != nil {
		return fmt.Errorf("write frames: %w", writeErr)
	}
	return nil
}

// heldFrameCount returns how many copies of the last frame must follow
// the rendered ones so the piped stream covers dur seconds at fps.
// Slots can outgrow their clips when narration runs past the target
// duration; a clip longer than dur is trimmed by -t instead.
func heldFrameCount(rendered, fps int, dur float64) int {
	need := int(dur*float64(fps) + 0.5)
	if need <= rendered {
		return 0
	}
	return need - rendered
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	rowBytes := b.Dx() * 4
	if img.Stride == rowBytes && b.Min.X == 0 && b.Min.Y == 0 {
		_, err := w.Write(img.Pix)
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := w.Write(img.Pix[off : off+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) codecArgs() []string {
	return codecArgs(e.Name, e.Quality)
}

func codecArgs(name string, quality int) []string {
	args := []string{"-c:v", name, "-pix_fmt", "yuv420p"}
	switch name {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", quality*100))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}
	return args
}

func runFFmpeg(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
