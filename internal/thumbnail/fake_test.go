package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"
)

// fakeResource is a deterministic playback.Resource for scheduler
// tests: seeks apply instantly, the seek-completed signal can be
// suppressed, and every transport mutation is recorded.
type fakeResource struct {
	mu sync.Mutex

	url    string
	width  int
	height int

	pos     time.Duration
	playing bool
	ready   bool

	// fireSeekSignal controls whether OnSeekComplete callbacks run
	// after a seek. Disabled to exercise the bounded-liveness path.
	fireSeekSignal bool

	seekSubs []func()
	seeks    []time.Duration
	pauses   int
	plays    int
	frameErr error
}

func newFakeResource(url string) *fakeResource {
	return &fakeResource{
		url:            url,
		width:          640,
		height:         480,
		ready:          true,
		fireSeekSignal: true,
	}
}

func (f *fakeResource) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *fakeResource) SetPosition(d time.Duration) {
	f.mu.Lock()
	f.pos = d
	f.seeks = append(f.seeks, d)
	subs := f.seekSubs
	f.seekSubs = nil
	fire := f.fireSeekSignal
	f.mu.Unlock()

	if fire {
		for _, fn := range subs {
			go fn()
		}
	}
}

func (f *fakeResource) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeResource) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	f.plays++
}

func (f *fakeResource) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.pauses++
}

func (f *fakeResource) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeResource) setReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = ready
}

func (f *fakeResource) OnSeekComplete(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seekSubs = append(f.seekSubs, fn)
}

func (f *fakeResource) Dimensions() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeResource) setDimensions(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = w, h
}

// Frame returns a uniform image whose color depends on the current
// position, so captures at different timestamps encode differently.
func (f *fakeResource) Frame() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.frameErr != nil {
		return nil, f.frameErr
	}

	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	shade := uint8(f.pos / (100 * time.Millisecond))
	fill := color.RGBA{R: shade, G: 255 - shade, B: 64, A: 255}
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img, nil
}

func (f *fakeResource) SourceURL() string {
	return f.url
}

func (f *fakeResource) seekLog() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.seeks))
	copy(out, f.seeks)
	return out
}

func (f *fakeResource) pauseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pauses
}

func (f *fakeResource) setFrameErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frameErr = err
}

// testOptions returns tight bounds so scheduler tests run quickly.
func testOptions() Options {
	return Options{
		Width:             64,
		JPEGQuality:       75,
		ReadyTimeout:      time.Second,
		ReadyPollInterval: time.Millisecond,
		SeekTimeout:       50 * time.Millisecond,
		SettleDelay:       time.Millisecond,
		RescheduleDelay:   time.Millisecond,
	}
}

// awaitResult reads a thumbnail future with a test deadline.
func awaitResult(ch <-chan []byte, timeout time.Duration) ([]byte, error) {
	select {
	case data := <-ch:
		return data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("request did not resolve within %v", timeout)
	}
}
