package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/lingtalfi/CSRFTools/internal/server/httpserver/handler"
	"github.com/lingtalfi/CSRFTools/internal/session"
	"github.com/lingtalfi/CSRFTools/internal/telemetry/metric"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// RouterConfig holds the dependencies and knobs for the HTTP router.
type RouterConfig struct {
	// Tokens is the shared token manager.
	Tokens *csrf.Manager

	// Sessions attaches and destroys server-side sessions.
	Sessions *session.Manager

	// Metrics records service metrics and serves /metrics.
	Metrics *metric.Registry

	// Logger for request and handler logging.
	Logger *slog.Logger

	// RateLimit is the per-IP request rate limit (requests/second).
	// Zero disables rate limiting.
	RateLimit int
}

// NewRouter assembles the full handler chain.
//
// Order: Recover -> RequestID -> RateLimit -> Metrics -> Session -> API.
// Health and metrics endpoints bypass session attachment so probes never
// create session state.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Tokens, cfg.Sessions, cfg.Metrics, cfg.Logger)

	api := Chain(h, Session(cfg.Sessions, cfg.Logger))

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", h)
	mux.Handle("GET /readyz", h)
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.Handle("/", api)

	middlewares := []Middleware{
		Recover(cfg.Logger),
		RequestID(),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit))
	}
	middlewares = append(middlewares, Metrics(cfg.Metrics))

	return Chain(mux, middlewares...)
}
