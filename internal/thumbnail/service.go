package thumbnail

import (
	"sync"
	"time"

	"swing-studio/internal/logging"
	"swing-studio/internal/metrics"
	"swing-studio/internal/playback"
)

// Options configures a Service. Zero fields take the defaults below.
type Options struct {
	// Width is the fixed thumbnail width in pixels; height follows the
	// source aspect ratio.
	Width int

	// JPEGQuality is the lossy encode quality (1-100).
	JPEGQuality int

	// ReadyTimeout bounds the wait for the resource to report itself
	// decodable before a drain proceeds regardless.
	ReadyTimeout time.Duration

	// ReadyPollInterval is how often readiness is re-checked while
	// waiting.
	ReadyPollInterval time.Duration

	// SeekTimeout bounds the wait for a seek-completed signal. Some
	// platforms never fire it for no-op seeks, so the drain proceeds
	// with whatever frame is decoded once the bound expires.
	SeekTimeout time.Duration

	// SettleDelay is the fixed wait after a seek-completed signal
	// before sampling. The signal can fire before the decoded frame is
	// actually composited, so sampling immediately risks capturing the
	// previous frame. Load-bearing, not cosmetic.
	SettleDelay time.Duration

	// RescheduleDelay is the pause before a trailing drain pass when
	// requests arrived while a drain was in flight.
	RescheduleDelay time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Width:             200,
		JPEGQuality:       80,
		ReadyTimeout:      2 * time.Second,
		ReadyPollInterval: 20 * time.Millisecond,
		SeekTimeout:       200 * time.Millisecond,
		SettleDelay:       50 * time.Millisecond,
		RescheduleDelay:   10 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = def.JPEGQuality
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = def.ReadyTimeout
	}
	if o.ReadyPollInterval <= 0 {
		o.ReadyPollInterval = def.ReadyPollInterval
	}
	if o.SeekTimeout <= 0 {
		o.SeekTimeout = def.SeekTimeout
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = def.SettleDelay
	}
	if o.RescheduleDelay <= 0 {
		o.RescheduleDelay = def.RescheduleDelay
	}
	return o
}

// Service is the public thumbnail API. It owns the cache, the waiter
// registry, and the capture queue, and runs at most one drain pass at a
// time against the shared resource.
//
// A Service is constructed explicitly and passed by reference; there is
// no package-level instance. Deploy one Service per distinct resource:
// the scheduler drains against the last resource seen by an enqueue, so
// mixing resources in one Service can misattribute frames when their
// derived key identities collide.
type Service struct {
	opts  Options
	cache *Cache

	// mu guards queue, running, and current. The registry and cache
	// carry their own locks.
	mu      sync.Mutex
	waiters *waiterRegistry
	queue   *captureQueue
	running bool
	current playback.Resource
}

// New creates a Service with the given options.
func New(opts Options) *Service {
	return &Service{
		opts:    opts.withDefaults(),
		cache:   NewCache(),
		waiters: newWaiterRegistry(),
		queue:   newCaptureQueue(),
	}
}

// GetCached returns the cached thumbnail for (resource, frame), or nil
// on a miss. Synchronous and side-effect free; safe on the render path.
func (s *Service) GetCached(res playback.Resource, frame int) []byte {
	key := Key(res.SourceURL(), frame)
	if data, ok := s.cache.Get(key); ok {
		metrics.ThumbnailCacheHits.Inc()
		return data
	}
	metrics.ThumbnailCacheMisses.Inc()
	return nil
}

// RequestThumbnail returns a future for the thumbnail of res at the
// given timestamp and frame number. The channel receives exactly one
// value: the encoded raster, or nil when capture failed. Concurrent
// requests for the same key coalesce onto a single capture job, and a
// queued request always eventually resolves; there is no cancellation.
func (s *Service) RequestThumbnail(res playback.Resource, at time.Duration, frame int) <-chan []byte {
	key := Key(res.SourceURL(), frame)
	ch := make(chan []byte, 1)

	if data, ok := s.cache.Get(key); ok {
		metrics.ThumbnailCacheHits.Inc()
		ch <- data
		return ch
	}
	metrics.ThumbnailCacheMisses.Inc()

	s.mu.Lock()
	s.waiters.register(key, ch)

	if !s.queue.push(captureRequest{key: key, at: at, frame: frame}) {
		// Already queued; this caller rides along on the queued job.
		metrics.ThumbnailCoalesced.Inc()
		s.mu.Unlock()
		return ch
	}
	metrics.ThumbnailQueueDepth.Set(float64(s.queue.len()))

	s.current = res
	start := !s.running
	if start {
		s.running = true
		metrics.ThumbnailSchedulerRunning.Set(1)
	}
	s.mu.Unlock()

	if start {
		logging.Debug("Thumbnail scheduler starting for %s", res.SourceURL())
		go s.drain()
	}
	return ch
}

// CacheSize returns the number of cached thumbnails.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}
