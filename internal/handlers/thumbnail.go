package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"swing-studio/internal/library"
	"swing-studio/internal/logging"
	"swing-studio/internal/playback"

	"github.com/gorilla/mux"
)

// GetThumbnail serves the thumbnail for one frame of a video,
// capturing it on demand. GET /api/thumbnail/{id}?frame=N&t=SECONDS
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	res, frame, at, ok := h.parseThumbnailRequest(w, r)
	if !ok {
		return
	}

	svc := h.serviceFor(res)

	if data := svc.GetCached(res, frame); data != nil {
		writeThumbnail(w, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	select {
	case data := <-svc.RequestThumbnail(res, at, frame):
		if data == nil {
			// Not memoized; an independent retry may succeed.
			http.Error(w, "Thumbnail capture failed", http.StatusBadGateway)
			return
		}
		writeThumbnail(w, data)
	case <-ctx.Done():
		logging.Debug("Thumbnail request for %s frame %d timed out", res.SourceURL(), frame)
		http.Error(w, "Thumbnail capture timed out", http.StatusGatewayTimeout)
	}
}

// GetCachedThumbnail serves a thumbnail only when it is already
// cached; it never touches the scheduler.
// GET /api/thumbnail/{id}/cached?frame=N
func (h *Handlers) GetCachedThumbnail(w http.ResponseWriter, r *http.Request) {
	res, frame, _, ok := h.parseThumbnailRequest(w, r)
	if !ok {
		return
	}

	data := h.serviceFor(res).GetCached(res, frame)
	if data == nil {
		http.Error(w, "Thumbnail not cached", http.StatusNotFound)
		return
	}
	writeThumbnail(w, data)
}

func (h *Handlers) parseThumbnailRequest(w http.ResponseWriter, r *http.Request) (playback.Resource, int, time.Duration, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid video id", http.StatusBadRequest)
		return nil, 0, 0, false
	}

	frame, err := strconv.Atoi(r.URL.Query().Get("frame"))
	if err != nil || frame < 0 {
		http.Error(w, "Invalid frame number", http.StatusBadRequest)
		return nil, 0, 0, false
	}

	res, err := h.catalog.Resolve(r.Context(), id)
	if errors.Is(err, library.ErrNotFound) {
		http.Error(w, "Video not found", http.StatusNotFound)
		return nil, 0, 0, false
	}
	if err != nil {
		logging.Error("Failed to resolve video %d: %v", id, err)
		http.Error(w, "Failed to resolve video", http.StatusInternalServerError)
		return nil, 0, 0, false
	}

	at, ok := h.parseTimestamp(r, res, frame)
	if !ok {
		http.Error(w, "Invalid timestamp", http.StatusBadRequest)
		return nil, 0, 0, false
	}

	return res, frame, at, true
}

// parseTimestamp reads the t query parameter (seconds), deriving it
// from the frame number when absent and the resource knows its rate.
func (h *Handlers) parseTimestamp(r *http.Request, res playback.Resource, frame int) (time.Duration, bool) {
	if tParam := r.URL.Query().Get("t"); tParam != "" {
		secs, err := strconv.ParseFloat(tParam, 64)
		if err != nil || secs < 0 {
			return 0, false
		}
		return time.Duration(secs * float64(time.Second)), true
	}

	if rated, ok := res.(interface{ FPS() float64 }); ok {
		if fps := rated.FPS(); fps > 0 {
			return time.Duration(float64(frame) / fps * float64(time.Second)), true
		}
	}
	return 0, true
}

func writeThumbnail(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/jpeg")
	// Cache entries are write-once, so clients may cache aggressively.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write thumbnail response: %v", err)
	}
}
