package thumbnail

import (
	"time"

	"swing-studio/internal/logging"
	"swing-studio/internal/metrics"
	"swing-studio/internal/playback"
)

// drain is the single-flight scheduler worker. It runs with the running
// flag held, pops queued capture requests in FIFO order against the
// current resource, and releases the flag only at the very end. The
// transport snapshot taken before the first capture is restored after
// the last one, so visible playback resumes where it left off.
func (s *Service) drain() {
	start := time.Now()
	defer func() {
		metrics.ThumbnailDrainDuration.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	res := s.current
	empty := s.queue.len() == 0
	s.mu.Unlock()

	if res == nil || empty {
		s.finishDrain()
		return
	}

	s.awaitReady(res)

	snapshotPos := res.Position()
	wasPlaying := res.IsPlaying()
	if wasPlaying {
		// Captures must not race visible playback.
		res.Pause()
	}

	captured := 0
	for {
		s.mu.Lock()
		req, ok := s.queue.pop()
		metrics.ThumbnailQueueDepth.Set(float64(s.queue.len()))
		s.mu.Unlock()
		if !ok {
			break
		}

		// Another producer may have cached the key since it was queued.
		if data, ok := s.cache.Get(req.key); ok {
			s.waiters.notifyAll(req.key, data)
			continue
		}

		s.seekTo(res, req.at)

		// The seek-completed signal can fire before the decoded frame
		// is composited; sampling immediately risks capturing the
		// previous frame.
		time.Sleep(s.opts.SettleDelay)

		data, err := captureFrame(res, s.opts)
		if err != nil {
			logging.Warn("Thumbnail capture failed for %q: %v", req.key, err)
			metrics.ThumbnailCaptures.WithLabelValues("failed").Inc()
			// Failures are not cached, so a later request for this key
			// gets a fresh attempt.
			s.waiters.notifyAll(req.key, nil)
			continue
		}

		metrics.ThumbnailCaptures.WithLabelValues("ok").Inc()
		s.cache.Put(req.key, data)
		s.waiters.notifyAll(req.key, data)
		captured++
	}

	res.SetPosition(snapshotPos)
	if wasPlaying {
		res.Play()
	}

	logging.Debug("Thumbnail drain finished: %d captured in %v for %s",
		captured, time.Since(start), res.SourceURL())

	s.finishDrain()
}

// finishDrain releases the running flag. Requests enqueued while the
// drain was in flight saw the flag held and did not start a scheduler,
// so a trailing pass is re-armed here after a brief delay rather than
// recursing synchronously.
func (s *Service) finishDrain() {
	s.mu.Lock()
	again := s.queue.len() > 0
	s.running = again
	s.mu.Unlock()

	if !again {
		metrics.ThumbnailSchedulerRunning.Set(0)
		return
	}
	time.AfterFunc(s.opts.RescheduleDelay, s.drain)
}

// awaitReady polls the resource's decodability signal, bounded by the
// ready timeout. The drain proceeds regardless once the bound expires
// so the system always makes forward progress.
func (s *Service) awaitReady(res playback.Resource) {
	if res.IsReady() {
		return
	}

	deadline := time.Now().Add(s.opts.ReadyTimeout)
	for time.Now().Before(deadline) {
		time.Sleep(s.opts.ReadyPollInterval)
		if res.IsReady() {
			return
		}
	}
	logging.Debug("Resource %s not ready after %v, proceeding best-effort",
		res.SourceURL(), s.opts.ReadyTimeout)
}

// seekTo seeks the resource and waits for the seek-completed signal,
// bounded by the seek timeout. Platforms may never fire the signal for
// no-op seeks, so expiry is expected and non-fatal.
func (s *Service) seekTo(res playback.Resource, at time.Duration) {
	done := make(chan struct{}, 1)
	res.OnSeekComplete(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	res.SetPosition(at)

	select {
	case <-done:
	case <-time.After(s.opts.SeekTimeout):
		metrics.ThumbnailSeekTimeouts.Inc()
		logging.Debug("Seek-completed signal for %s missed the %v bound, proceeding",
			res.SourceURL(), s.opts.SeekTimeout)
	}
}
