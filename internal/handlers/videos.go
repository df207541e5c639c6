package handlers

import (
	"encoding/json"
	"net/http"

	"swing-studio/internal/library"
	"swing-studio/internal/logging"
)

// GetVideos lists the catalog. GET /api/videos
func (h *Handlers) GetVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.catalog.List(r.Context())
	if err != nil {
		logging.Error("Failed to list videos: %v", err)
		http.Error(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}
	if videos == nil {
		videos = []library.Video{}
	}
	writeJSON(w, videos)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to encode JSON response: %v", err)
	}
}
