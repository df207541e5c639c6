package handlers

import (
	"net/http"

	"swing-studio/internal/startup"
)

// Version reports build information. GET /version
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}
