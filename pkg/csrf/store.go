package csrf

import "context"

// DefaultNamespace is the session key under which all token entries live.
const DefaultNamespace = "csrf_tools_token"

// Entry holds the two token slots for one token name.
//
// New is always set once the entry exists. Old is empty until the second
// Create call for the same name, after which it always carries the value
// that was New immediately before the last rotation. Token values are
// never empty, so the empty string unambiguously means "slot absent".
type Entry struct {
	New string `json:"new"`
	Old string `json:"old,omitempty"`
}

// HasOld reports whether the old slot is populated.
func (e Entry) HasOld() bool {
	return e.Old != ""
}

// SessionStore is the session-backed key-value store a Manager writes
// token state into. Implementations persist one mapping per namespace,
// scoped to the current session; the session's own lifecycle (creation,
// expiry, persistence timing) belongs to the host application.
//
// Implementations must treat an absent namespace as a normal outcome:
// Get returns (nil, false, nil), not an error.
type SessionStore interface {
	// EnsureActive guarantees a session context exists, creating one if
	// necessary. It is idempotent.
	EnsureActive(ctx context.Context) error

	// Get returns the mapping stored under namespace, or ok=false when
	// the namespace has never been written.
	Get(ctx context.Context, namespace string) (entries map[string]Entry, ok bool, err error)

	// Set replaces the mapping stored under namespace.
	Set(ctx context.Context, namespace string, entries map[string]Entry) error
}
