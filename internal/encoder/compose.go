package encoder

import (
	"fmt"
	"strings"

	"shortreel/internal/timeline"
)

// globalFade is the fade in/out applied to the whole video.
const globalFade = 0.5

// buildComposeArgs assembles the single-pass ffmpeg invocation that
// joins segments, composites overlays and mixes audio. Segments carrying
// an xfade were encoded with their predecessor's tail padded by the fade
// duration, so every offset is the segment's nominal slot start and the
// output runs the full planned length.
func buildComposeArgs(plan *timeline.Plan, segPaths []string, encName string, quality int, outPath string) []string {
	args := []string{"-y"}
	for _, p := range segPaths {
		args = append(args, "-i", p)
	}

	overlayBase := len(segPaths)
	for _, ov := range plan.Overlays {
		args = append(args, "-loop", "1", "-i", ov.Path)
	}

	audioIndex := -1
	if plan.NarrationPath != "" {
		audioIndex = overlayBase + len(plan.Overlays)
		args = append(args, "-i", plan.NarrationPath)
	}
	musicIndex := -1
	if plan.MusicPath != "" {
		musicIndex = overlayBase + len(plan.Overlays)
		if audioIndex != -1 {
			musicIndex = audioIndex + 1
		}
		args = append(args, "-stream_loop", "-1", "-i", plan.MusicPath)
	}

	var graph strings.Builder
	lastOut := "[0:v]"

	// Join chain. Cut joins concat; everything else xfades at the slot
	// start over the padded tail of the previous segment.
	elapsed := plan.Segments[0].Duration
	for i := 1; i < len(plan.Segments); i++ {
		seg := plan.Segments[i]
		outName := fmt.Sprintf("[v%d]", i)
		if usesXfade(seg) {
			fmt.Fprintf(&graph, "%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s;",
				lastOut, i, timeline.XfadeName(seg.Transition), seg.TransitionDuration, elapsed, outName)
		} else {
			fmt.Fprintf(&graph, "%s[%d:v]concat=n=2:v=1:a=0%s;", lastOut, i, outName)
		}
		lastOut = outName
		elapsed += seg.Duration
	}

	// Overlay layers, each windowed with enable.
	for i, ov := range plan.Overlays {
		in := fmt.Sprintf("[%d:v]", overlayBase+i)
		prepped := fmt.Sprintf("[ov%d]", i)

		chain := "format=rgba"
		if ov.Opacity > 0 && ov.Opacity < 1 {
			chain += fmt.Sprintf(",colorchannelmixer=aa=%f", ov.Opacity)
		}
		if ov.FadeIn > 0 {
			chain += fmt.Sprintf(",fade=t=in:st=%f:d=%f:alpha=1", ov.Start, ov.FadeIn)
		}
		fmt.Fprintf(&graph, "%s%s%s;", in, chain, prepped)

		outName := fmt.Sprintf("[o%d]", i)
		fmt.Fprintf(&graph, "%s%soverlay=%d:%d:enable='between(t,%f,%f)'%s;",
			lastOut, prepped, ov.X, ov.Y, ov.Start, ov.End, outName)
		lastOut = outName
	}

	// Gentle fade in and out on the finished picture.
	fadeOutStart := plan.Total - globalFade
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	fmt.Fprintf(&graph, "%sfade=t=in:st=0:d=%f,fade=t=out:st=%f:d=%f[vout];",
		lastOut, globalFade, fadeOutStart, globalFade)
	lastOut = "[vout]"

	audioOut := ""
	switch {
	case musicIndex != -1 && audioIndex != -1:
		fmt.Fprintf(&graph, "[%d:a]%s[bg_a];[%d:a]volume=1.0[main_a];"+
			"[main_a][bg_a]amix=inputs=2:duration=first:dropout_transition=3[aout];",
			musicIndex, musicVolumeExpr(plan), audioIndex)
		audioOut = "[aout]"
	case musicIndex != -1:
		// Silent runs keep their music bed.
		fmt.Fprintf(&graph, "[%d:a]%s[aout];", musicIndex, musicVolumeExpr(plan))
		audioOut = "[aout]"
	case audioIndex != -1:
		audioOut = fmt.Sprintf("%d:a", audioIndex)
	}

	args = append(args, "-filter_complex", strings.TrimSuffix(graph.String(), ";"))
	args = append(args, "-map", lastOut)
	if audioOut != "" {
		args = append(args, "-map", audioOut, "-c:a", "aac", "-b:a", "192k")
	}

	args = append(args, codecArgs(encName, quality)...)
	args = append(args,
		"-r", fmt.Sprintf("%d", plan.FPS),
		"-t", fmt.Sprintf("%f", plan.Total),
		"-movflags", "+faststart",
		outPath,
	)
	return args
}

// musicVolumeExpr scales the music to its configured volume and fades
// it in and out at the ends of the video.
func musicVolumeExpr(plan *timeline.Plan) string {
	fadeIn, fadeOut := plan.MusicFadeIn, plan.MusicFadeOut
	total := plan.Total
	if total < fadeIn+fadeOut {
		fadeIn = total * 0.1
		fadeOut = total * 0.1
	}
	if fadeIn <= 0 {
		fadeIn = 0.01
	}
	if fadeOut <= 0 {
		fadeOut = 0.01
	}
	return fmt.Sprintf(
		"volume='%f*(if(lte(t,%f), t/%f, if(gte(t,%f), (%f-t)/%f, 1.0)))':eval=frame",
		plan.MusicVolume, fadeIn, fadeIn, total-fadeOut, total, fadeOut)
}
