package handlers

import "net/http"

// Health answers liveness and readiness probes. There is no external
// dependency to degrade on: the catalog is embedded and captures are
// best effort, so a serving process is a healthy process.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
