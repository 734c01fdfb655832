// Package storage provides session-record backends for CSRFTools.
//
// A Backend persists, per session id, the namespace mappings the token
// manager writes. Two implementations exist: an in-memory sharded store
// for single-process hosts and a Badger-backed store for hosts that need
// sessions to survive restarts.
package storage

import (
	"context"
	"errors"

	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// Common errors.
var (
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage: backend closed")
)

// Backend stores namespace mappings keyed by session id.
//
// Implementations must be safe for concurrent use. An absent session or
// namespace is a normal outcome, not an error. Session expiry is owned
// here (the host side), never by the token manager.
type Backend interface {
	// EnsureSession creates the session record if it does not exist and
	// refreshes its time-to-live. Idempotent.
	EnsureSession(ctx context.Context, sessionID string) error

	// GetNamespace returns the mapping stored under namespace for the
	// session, or ok=false when the session or namespace is absent.
	GetNamespace(ctx context.Context, sessionID, namespace string) (entries map[string]csrf.Entry, ok bool, err error)

	// SetNamespace replaces the mapping stored under namespace. The
	// session record is created when missing.
	SetNamespace(ctx context.Context, sessionID, namespace string, entries map[string]csrf.Entry) error

	// DeleteSession removes the session record and every namespace in it.
	// Deleting an absent session is a no-op.
	DeleteSession(ctx context.Context, sessionID string) error

	// Sessions returns the number of live session records.
	Sessions(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
