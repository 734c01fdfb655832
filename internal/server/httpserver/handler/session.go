package handler

import (
	"net/http"

	"github.com/lingtalfi/CSRFTools/internal/session"
)

// handleDestroySession handles DELETE /session. It drops the session's
// server-side state, every token namespace included, and expires the
// cookie. The next request gets a fresh session.
func (h *Handler) handleDestroySession(w http.ResponseWriter, r *http.Request) {
	id, ok := session.IDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, http.StatusInternalServerError, "SESS-5000", "no session attached")
		return
	}

	if err := h.sessions.Destroy(r.Context(), w, id); err != nil {
		h.logger.Error("session destroy failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "SESS-5001", "could not destroy session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
