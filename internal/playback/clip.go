package playback

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"sync"
	"time"

	"swing-studio/internal/logging"

	_ "image/png" // ffmpeg frame extraction emits PNG
)

// Clip is an FFmpeg-backed Resource over a local video file. The
// transport is simulated: playback position advances on the wall clock
// while playing, and frames are decoded on demand with a one-shot
// ffmpeg invocation at the current position.
type Clip struct {
	path string
	info Info

	mu       sync.Mutex
	pos      time.Duration
	playing  bool
	anchor   time.Time
	seekSubs []func()
}

// Open probes the file at path and returns a playable Clip.
func Open(ctx context.Context, path string) (*Clip, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("clip not accessible: %w", err)
	}

	info, err := Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("clip probe failed: %w", err)
	}

	return NewFromInfo(path, info), nil
}

// NewFromInfo constructs a Clip from already-probed metadata. The
// library uses this to avoid re-probing files it has indexed.
func NewFromInfo(path string, info Info) *Clip {
	return &Clip{path: path, info: info}
}

// Position returns the current transport position.
func (c *Clip) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

func (c *Clip) positionLocked() time.Duration {
	pos := c.pos
	if c.playing {
		pos += time.Since(c.anchor)
	}
	if c.info.Duration > 0 && pos > c.info.Duration {
		pos = c.info.Duration
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// SetPosition seeks the transport. Registered seek callbacks fire once
// the new position is applied.
func (c *Clip) SetPosition(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if c.info.Duration > 0 && d > c.info.Duration {
		d = c.info.Duration
	}

	c.mu.Lock()
	c.pos = d
	c.anchor = time.Now()
	subs := c.seekSubs
	c.seekSubs = nil
	c.mu.Unlock()

	// Callbacks fire off the caller's stack, after the position is
	// already visible to Position().
	for _, fn := range subs {
		go fn()
	}
}

// IsPlaying reports whether the transport is advancing.
func (c *Clip) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Play resumes the transport from the current position.
func (c *Clip) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.playing = true
	c.anchor = time.Now()
}

// Pause halts the transport at the current position.
func (c *Clip) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.pos = c.positionLocked()
	c.playing = false
}

// IsReady reports whether the clip has decodable metadata.
func (c *Clip) IsReady() bool {
	return c.info.FPS > 0
}

// OnSeekComplete registers a one-shot callback for the next seek.
func (c *Clip) OnSeekComplete(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekSubs = append(c.seekSubs, fn)
}

// Dimensions returns the probed source dimensions.
func (c *Clip) Dimensions() (int, int) {
	return c.info.Width, c.info.Height
}

// Duration returns the probed source duration.
func (c *Clip) Duration() time.Duration {
	return c.info.Duration
}

// FPS returns the probed source frame rate.
func (c *Clip) FPS() float64 {
	return c.info.FPS
}

// SourceURL returns the clip's file path.
func (c *Clip) SourceURL() string {
	return c.path
}

// Frame decodes the frame at the current position with a one-shot
// ffmpeg invocation.
func (c *Clip) Frame() (image.Image, error) {
	pos := c.Position()

	out, err := c.extractFrame(pos.Seconds())
	if err != nil {
		// Seeking past the last keyframe of short files can fail;
		// retry from the start as a fallback.
		logging.Debug("Frame extraction at %.3fs failed for %s: %v, retrying from start", pos.Seconds(), c.path, err)
		out, err = c.extractFrame(0)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

func (c *Clip) extractFrame(atSeconds float64) ([]byte, error) {
	args := []string{}
	if atSeconds > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", atSeconds))
	}
	args = append(args,
		"-i", c.path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command("ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", c.path)
	}

	return stdout.Bytes(), nil
}
