package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lingtalfi/CSRFTools/internal/session"
	"github.com/lingtalfi/CSRFTools/internal/telemetry/metric"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// Handler routes API requests to the token and session operations.
type Handler struct {
	tokens   *csrf.Manager
	sessions *session.Manager
	metrics  *metric.Registry
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Handler on top of the shared token manager.
func New(tokens *csrf.Manager, sessions *session.Manager, metrics *metric.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		tokens:   tokens,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	h.mux.HandleFunc("GET /readyz", h.handleReady)

	h.mux.HandleFunc("POST /csrf/{name}", h.handleIssueToken)
	h.mux.HandleFunc("POST /csrf/{name}/validate", h.handleValidateToken)
	h.mux.HandleFunc("DELETE /csrf/{name}", h.handleDeleteToken)

	h.mux.HandleFunc("DELETE /session", h.handleDestroySession)

	h.mux.HandleFunc("GET /form", h.handleFormRender)
	h.mux.HandleFunc("POST /form", h.handleFormSubmit)
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}

// getRequestID extracts the request id installed by middleware,
// falling back to an inbound header when the handler runs bare.
func getRequestID(r *http.Request) string {
	if id, ok := RequestIDFromContext(r.Context()); ok {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// decodeJSON decodes a request body into target, tolerating an empty body.
func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
