package library

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"swing-studio/internal/logging"
	"swing-studio/internal/memory"
	"swing-studio/internal/metrics"
	"swing-studio/internal/workers"
)

// maxScanWorkers caps concurrent probes; each one spawns an ffprobe
// process.
const maxScanWorkers = 8

var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
}

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// Scan walks the media directory, probes every video file, and upserts
// the results into the catalog. Probe failures skip the file; the scan
// itself only fails when the directory cannot be walked.
func Scan(ctx context.Context, l *Library) (int, error) {
	start := time.Now()
	metrics.LibraryScansTotal.Inc()

	var paths []string
	err := filepath.WalkDir(l.mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsVideo(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		metrics.LibraryScanErrors.Inc()
		return 0, err
	}

	workerCount := workers.ForIO(maxScanWorkers)
	logging.Debug("Library scan: %d candidate files, %d workers", len(paths), workerCount)

	// Each probe buffers ffprobe output; hold workers off when the
	// heap is near its limit.
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	indexed := 0

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if !monitor.WaitIfPaused() {
					return
				}
				info, err := l.probe(ctx, path)
				if err != nil {
					logging.Warn("Library scan: probe failed for %s: %v", path, err)
					metrics.LibraryScanErrors.Inc()
					continue
				}
				if err := l.upsert(ctx, path, info); err != nil {
					logging.Warn("Library scan: upsert failed for %s: %v", path, err)
					metrics.LibraryScanErrors.Inc()
					continue
				}
				mu.Lock()
				indexed++
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return indexed, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	metrics.LibraryVideosIndexed.Add(float64(indexed))
	logging.Info("Library scan finished: %d/%d videos indexed in %v", indexed, len(paths), time.Since(start))
	return indexed, nil
}
