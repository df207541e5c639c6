package playback

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"swing-studio/internal/logging"
)

// Info holds the probed metadata for a video source.
type Info struct {
	Duration time.Duration
	FPS      float64
	Width    int
	Height   int
}

// ProbeFunc probes a video file for metadata. The library and Open use
// Probe by default; tests substitute a deterministic implementation.
type ProbeFunc func(ctx context.Context, path string) (Info, error)

// Probe extracts stream metadata using ffprobe.
func Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,width,height,duration",
		"-of", "csv=p=0",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	info, err := parseProbeOutput(stdout.String())
	if err != nil {
		return Info{}, err
	}

	// Some containers only report duration at the format level
	if info.Duration == 0 {
		info.Duration = probeFormatDuration(ctx, path)
	}

	logging.Debug("Probed %s: %v @ %.3f fps, %dx%d", path, info.Duration, info.FPS, info.Width, info.Height)
	return info, nil
}

// parseProbeOutput parses ffprobe csv output of the form
// "r_frame_rate,width,height,duration", e.g. "30000/1001,1920,1080,12.512".
func parseProbeOutput(out string) (Info, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Info{}, fmt.Errorf("unexpected ffprobe output: %q", out)
	}

	fields := strings.Split(strings.TrimSpace(lines[0]), ",")
	if len(fields) < 3 {
		return Info{}, fmt.Errorf("unexpected ffprobe fields: %q", lines[0])
	}

	var info Info

	fpsParts := strings.Split(fields[0], "/")
	if len(fpsParts) == 2 {
		num, _ := strconv.ParseFloat(fpsParts[0], 64)
		den, _ := strconv.ParseFloat(fpsParts[1], 64)
		if den > 0 {
			info.FPS = num / den
		}
	} else {
		info.FPS, _ = strconv.ParseFloat(fields[0], 64)
	}
	if info.FPS <= 0 {
		return Info{}, fmt.Errorf("invalid frame rate: %q", fields[0])
	}

	info.Width, _ = strconv.Atoi(strings.TrimSpace(fields[1]))
	info.Height, _ = strconv.Atoi(strings.TrimSpace(fields[2]))

	if len(fields) > 3 {
		secs, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err == nil && secs > 0 {
			info.Duration = time.Duration(secs * float64(time.Second))
		}
	}

	return info, nil
}

func probeFormatDuration(ctx context.Context, path string) time.Duration {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		logging.Debug("format duration probe failed for %s: %v", path, err)
		return 0
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
