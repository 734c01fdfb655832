package handler

import (
	"html/template"
	"net/http"
)

// formTokenName is the token name used by the demo form endpoints.
const formTokenName = "demo_form"

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><title>Demo form</title></head>
<body>
<form method="POST" action="/form">
  <input type="hidden" name="csrf_token" value="{{.Token}}">
  <input type="text" name="message" placeholder="message">
  <button type="submit">Send</button>
</form>
</body>
</html>
`))

// handleFormRender handles GET /form. Each render issues a fresh token,
// rotating the previous one into the old slot, and embeds it as a hidden
// field.
func (h *Handler) handleFormRender(w http.ResponseWriter, r *http.Request) {
	value, err := h.tokens.Create(r.Context(), formTokenName)
	if err != nil {
		h.logger.Error("form token issue failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.metrics.TokensIssued.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, struct{ Token string }{Token: value}); err != nil {
		h.logger.Error("form render failed", "error", err)
	}
}

// handleFormSubmit handles POST /form. Like every page in the flow it
// issues the next token first, which rotates the submitted value into
// the old slot, then validates the submission against that slot. The
// fresh value is returned so a client can chain another submit.
func (h *Handler) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "CSRF-4000", "malformed form body")
		return
	}

	next, err := h.tokens.Create(r.Context(), formTokenName)
	if err != nil {
		h.logger.Error("form token issue failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "CSRF-5000", "could not issue token")
		return
	}
	h.metrics.TokensIssued.Inc()

	submitted := r.PostFormValue("csrf_token")
	valid, err := h.tokens.IsValid(r.Context(), formTokenName, submitted, false)
	if err != nil {
		h.logger.Error("form token validation failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "CSRF-5001", "could not validate token")
		return
	}
	h.metrics.ObserveValidation(false, valid)

	if !valid {
		h.writeError(w, r, http.StatusForbidden, "CSRF-4030", "invalid or missing anti-forgery token")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"message":    r.PostFormValue("message"),
		"status":     "accepted",
		"next_token": next,
	})
}
