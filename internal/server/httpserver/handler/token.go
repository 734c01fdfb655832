package handler

import (
	"net/http"

	"github.com/lingtalfi/CSRFTools/internal/telemetry/logger"
)

// handleIssueToken handles POST /csrf/{name}.
//
// It always succeeds for an active session: the first call creates the
// entry, subsequent calls rotate it. The fresh value is returned in the
// response body and is the only time the service ever discloses it.
func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	value, err := h.tokens.Create(r.Context(), name)
	if err != nil {
		h.logger.Error("token issue failed", "token_name", name, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "CSRF-5000", "could not issue token")
		return
	}

	h.metrics.TokensIssued.Inc()
	h.logger.Debug("token issued", "token_name", name, "token_value", logger.MaskToken(value))

	h.writeJSON(w, r, http.StatusCreated, IssueTokenResponse{
		Name:  name,
		Value: value,
	})
}

// handleValidateToken handles POST /csrf/{name}/validate.
//
// The default check targets the old slot, matching the render-then-submit
// flow where the page re-issues a token before the submitted one arrives
// back. Pass "slot": "new" to check the most recently issued value.
func (h *Handler) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req ValidateTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "CSRF-4000", "malformed request body")
		return
	}
	if req.Slot == "" {
		req.Slot = SlotOld
	}
	if req.Slot != SlotOld && req.Slot != SlotNew {
		h.writeError(w, r, http.StatusBadRequest, "CSRF-4001", "slot must be \"old\" or \"new\"")
		return
	}

	useNewSlot := req.Slot == SlotNew
	valid, err := h.tokens.IsValid(r.Context(), name, req.Value, useNewSlot)
	if err != nil {
		h.logger.Error("token validation failed", "token_name", name, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "CSRF-5001", "could not validate token")
		return
	}

	h.metrics.ObserveValidation(useNewSlot, valid)

	h.writeJSON(w, r, http.StatusOK, ValidateTokenResponse{
		Name:  name,
		Valid: valid,
		Slot:  req.Slot,
	})
}

// handleDeleteToken handles DELETE /csrf/{name}. Deleting a name that
// was never issued is a no-op and still returns 204.
func (h *Handler) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.tokens.Delete(r.Context(), name); err != nil {
		h.logger.Error("token delete failed", "token_name", name, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "CSRF-5002", "could not delete token")
		return
	}

	h.metrics.TokensDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}
