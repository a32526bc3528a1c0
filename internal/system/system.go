package system

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit. Segment encoding opens
// many ffmpeg pipes at once and the default soft limit can be as low as
// 256 on macOS.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[system] could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[system] could not raise file limit: %v", err)
	}
}

// MediaDuration returns the duration in seconds of an audio or video
// file, via ffprobe.
func MediaDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse %q: %w", path, strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

// BestH264Encoder probes ffmpeg for hardware H.264 encoders, preferring
// VideoToolbox then NVENC, and falls back to software libx264.
func BestH264Encoder() string {
	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality picks an encoder-appropriate quality value when the
// config leaves it at zero.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // bitrate = quality*100 kbit/s
	case "h264_nvenc":
		return 28 // CQ
	default:
		return 23 // CRF
	}
}

// AvailableMemoryGB returns free memory as seen by the OS. Used as a
// preflight before launching local AI backends that map multi-gigabyte
// model weights.
func AvailableMemoryGB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read memory stats: %w", err)
	}
	return float64(vm.Available) / (1 << 30), nil
}

// EncodeWorkers sizes the parallel segment-encode pool. Hardware
// encoders saturate around four sessions; software encoding scales with
// cores but each ffmpeg already threads internally.
func EncodeWorkers(encoder string) int {
	if encoder != "libx264" {
		return 4
	}
	n := runtime.NumCPU() / 2
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	return n
}
