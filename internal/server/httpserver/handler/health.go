package handler

import (
	"net/http"
	"time"

	"github.com/lingtalfi/CSRFTools/internal/infra/buildinfo"
)

// handleHealth handles GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.Sessions(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "SYS-5030", "storage backend unavailable")
		return
	}

	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  buildinfo.Version,
		Sessions: sessions,
		Time:     time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /readyz.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
