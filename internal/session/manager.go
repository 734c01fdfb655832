package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lingtalfi/CSRFTools/internal/storage"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// DefaultCookieName is the default session cookie name.
const DefaultCookieName = "csrftools_session"

// Config holds session manager settings.
type Config struct {
	// CookieName is the session cookie name.
	CookieName string

	// TTL is the sliding session lifetime used for the cookie Max-Age.
	// The matching backend TTL is configured on the backend itself.
	TTL time.Duration

	// Secure sets the Secure flag on the session cookie.
	Secure bool
}

// Manager attaches sessions to HTTP requests and binds the storage
// backend into per-session SessionStore views.
type Manager struct {
	backend    storage.Backend
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *slog.Logger
}

// NewManager creates a session manager over the given backend.
func NewManager(backend storage.Backend, cfg Config, logger *slog.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:    backend,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		logger:     logger,
	}
}

// Attach returns the request's session id, issuing a fresh id and
// Set-Cookie header when the request carries none (or a malformed one).
// The session record itself is created lazily, on the first store write.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(m.cookieName); err == nil && IsValidID(c.Value) {
		return c.Value, nil
	}

	id, err := NewID()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, m.cookie(id, m.ttl))
	m.logger.Debug("session issued", "session_id", id)
	return id, nil
}

// Store binds sessionID into the SessionStore view the token manager
// consumes. Use this for hosts that manage session identity themselves;
// HTTP handlers instead rely on the Manager's own SessionStore methods,
// which read the session id from the request context.
func (m *Manager) Store(sessionID string) csrf.SessionStore {
	return &boundStore{backend: m.backend, sessionID: sessionID}
}

// EnsureActive implements csrf.SessionStore over the context-bound
// session id installed by the session middleware.
func (m *Manager) EnsureActive(ctx context.Context) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	return m.backend.EnsureSession(ctx, id)
}

// Get implements csrf.SessionStore.
func (m *Manager) Get(ctx context.Context, namespace string) (map[string]csrf.Entry, bool, error) {
	id, ok := IDFromContext(ctx)
	if !ok {
		return nil, false, ErrNoSession
	}
	return m.backend.GetNamespace(ctx, id, namespace)
}

// Set implements csrf.SessionStore.
func (m *Manager) Set(ctx context.Context, namespace string, entries map[string]csrf.Entry) error {
	id, ok := IDFromContext(ctx)
	if !ok {
		return ErrNoSession
	}
	return m.backend.SetNamespace(ctx, id, namespace, entries)
}

// Sessions returns the number of live sessions in the backend.
func (m *Manager) Sessions(ctx context.Context) (int, error) {
	return m.backend.Sessions(ctx)
}

// Destroy removes the session record and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	if err := m.backend.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	expired := m.cookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	return nil
}

func (m *Manager) cookie(value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}

// boundStore is a Backend scoped to one session id.
type boundStore struct {
	backend   storage.Backend
	sessionID string
}

func (s *boundStore) EnsureActive(ctx context.Context) error {
	return s.backend.EnsureSession(ctx, s.sessionID)
}

func (s *boundStore) Get(ctx context.Context, namespace string) (map[string]csrf.Entry, bool, error) {
	return s.backend.GetNamespace(ctx, s.sessionID, namespace)
}

func (s *boundStore) Set(ctx context.Context, namespace string, entries map[string]csrf.Entry) error {
	return s.backend.SetNamespace(ctx, s.sessionID, namespace, entries)
}
