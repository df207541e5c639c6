package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swing_studio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swing_studio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Thumbnail service metrics
var (
	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	ThumbnailCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_thumbnail_cache_entries",
			Help: "Number of thumbnails currently cached",
		},
	)

	ThumbnailCaptures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swing_studio_thumbnail_captures_total",
			Help: "Total number of frame captures by outcome",
		},
		[]string{"status"}, // "ok", "failed"
	)

	ThumbnailCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_thumbnail_coalesced_requests_total",
			Help: "Total number of requests coalesced onto an already-queued capture",
		},
	)

	ThumbnailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_thumbnail_queue_depth",
			Help: "Number of capture requests currently queued",
		},
	)

	ThumbnailSchedulerRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_thumbnail_scheduler_running",
			Help: "Whether a capture drain is in progress (1 = running, 0 = idle)",
		},
	)

	ThumbnailDrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swing_studio_thumbnail_drain_duration_seconds",
			Help:    "Duration of scheduler drain passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ThumbnailSeekTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_thumbnail_seek_timeouts_total",
			Help: "Total number of seeks whose completion signal never arrived in time",
		},
	)
)

// Library metrics
var (
	LibraryScansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_library_scans_total",
			Help: "Total number of library scans",
		},
	)

	LibraryVideosIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_library_videos_indexed_total",
			Help: "Total number of videos indexed by library scans",
		},
	)

	LibraryScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swing_studio_library_scan_errors_total",
			Help: "Total number of errors encountered during library scans",
		},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_memory_usage_ratio",
			Help: "Heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swing_studio_memory_paused",
			Help: "Whether workers are paused for memory pressure (1 = paused)",
		},
	)
)
