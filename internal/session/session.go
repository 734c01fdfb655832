// Package session owns the host-side session lifecycle for the
// reference server: id generation, cookie attachment, expiry policy,
// and the binding of a storage backend to the per-request SessionStore
// the token manager consumes.
package session

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDPrefix is the prefix for session ids.
const IDPrefix = "sess-"

// idLength is IDPrefix (5) plus a lowercase ULID (26).
const idLength = 31

// NewID generates a new session id.
// Format: sess-{ulid_lowercase}, 31 characters total.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}
	return IDPrefix + strings.ToLower(id.String()), nil
}

// IsValidID reports whether id is a well-formed session id.
// ParseStrict rejects ids with characters outside the ULID Base32
// alphabet, which plain Parse would let through.
func IsValidID(id string) bool {
	if len(id) != idLength || !strings.HasPrefix(id, IDPrefix) {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(id[len(IDPrefix):]))
	return err == nil
}
