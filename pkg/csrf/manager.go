package csrf

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/lingtalfi/CSRFTools/pkg/token"
)

// Manager issues, rotates, validates, and deletes session-bound
// anti-forgery tokens. Construct with New and share a single instance.
type Manager struct {
	store     SessionStore
	namespace string
	generate  func() (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the session key under which entries are stored.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithTokenLength sets the number of random bytes per generated value.
func WithTokenLength(length int) Option {
	return func(m *Manager) {
		g := token.NewGenerator(length)
		m.generate = g.Generate
	}
}

// WithGenerator replaces the token value generator. The generator must
// return unpredictable, never-empty values.
func WithGenerator(generate func() (string, error)) Option {
	return func(m *Manager) {
		if generate != nil {
			m.generate = generate
		}
	}
}

// New creates a Manager on top of the given session store.
func New(store SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		namespace: DefaultNamespace,
		generate:  token.Generate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Namespace returns the session key this manager stores entries under.
func (m *Manager) Namespace() string {
	return m.namespace
}

// Create generates a fresh token value for tokenName and returns it.
//
// On the first call for a name the entry is created with only the new
// slot set. Every subsequent call rotates: the current new value moves
// into the old slot (overwriting any previous old value) and the fresh
// value becomes new. Every call mutates session state and returns a
// different value.
func (m *Manager) Create(ctx context.Context, tokenName string) (string, error) {
	entries, err := m.load(ctx)
	if err != nil {
		return "", err
	}

	value, err := m.generate()
	if err != nil {
		return "", fmt.Errorf("csrf: generate token: %w", err)
	}

	entry, exists := entries[tokenName]
	if exists {
		entry.Old = entry.New
	}
	entry.New = value
	entries[tokenName] = entry

	if err := m.store.Set(ctx, m.namespace, entries); err != nil {
		return "", fmt.Errorf("csrf: persist token %q: %w", tokenName, err)
	}
	return value, nil
}

// IsValid reports whether tokenValue matches the stored value for
// tokenName. Comparison is exact, full-length, and constant-time.
//
// With useNewSlot false (the common render-then-submit case) the value
// is checked against the old slot only. If the old slot is absent,
// including when Create has run exactly once for this name, the result
// is false even though the new slot may hold a fresh, matching value.
// That asymmetry is deliberate; hosts that issue the token once per
// round trip must validate with useNewSlot true.
//
// An unknown tokenName is never valid. IsValid performs no mutation.
func (m *Manager) IsValid(ctx context.Context, tokenName, tokenValue string, useNewSlot bool) (bool, error) {
	if err := m.store.EnsureActive(ctx); err != nil {
		return false, fmt.Errorf("csrf: ensure session: %w", err)
	}

	entries, ok, err := m.store.Get(ctx, m.namespace)
	if err != nil {
		return false, fmt.Errorf("csrf: read namespace: %w", err)
	}
	if !ok {
		return false, nil
	}

	entry, exists := entries[tokenName]
	if !exists {
		return false, nil
	}

	if useNewSlot {
		return equal(tokenValue, entry.New), nil
	}
	if !entry.HasOld() {
		return false, nil
	}
	return equal(tokenValue, entry.Old), nil
}

// Delete removes the entry for tokenName entirely, both slots included.
// Deleting an unknown name is a no-op. A Create after Delete behaves as
// if the name had never been seen.
func (m *Manager) Delete(ctx context.Context, tokenName string) error {
	entries, err := m.load(ctx)
	if err != nil {
		return err
	}

	if _, exists := entries[tokenName]; !exists {
		return nil
	}

	delete(entries, tokenName)
	if err := m.store.Set(ctx, m.namespace, entries); err != nil {
		return fmt.Errorf("csrf: persist delete of %q: %w", tokenName, err)
	}
	return nil
}

// load ensures the session and namespace exist and returns the current
// entry mapping, initialized to empty on first use.
func (m *Manager) load(ctx context.Context) (map[string]Entry, error) {
	if err := m.store.EnsureActive(ctx); err != nil {
		return nil, fmt.Errorf("csrf: ensure session: %w", err)
	}

	entries, ok, err := m.store.Get(ctx, m.namespace)
	if err != nil {
		return nil, fmt.Errorf("csrf: read namespace: %w", err)
	}
	if !ok || entries == nil {
		entries = make(map[string]Entry)
	}
	return entries, nil
}

// equal compares two token values in constant time.
func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
