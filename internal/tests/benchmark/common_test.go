package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/lingtalfi/CSRFTools/internal/session"
	"github.com/lingtalfi/CSRFTools/internal/storage"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// SessionCounts defines the prefill sizes for storage benchmarks.
var SessionCounts = []int{1000, 10000, 100000}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSessionID generates a session id, failing the benchmark on error.
func newSessionID(b *testing.B) string {
	b.Helper()
	id, err := session.NewID()
	if err != nil {
		b.Fatalf("new session id: %v", err)
	}
	return id
}

// prefill populates a backend with count sessions, each carrying one
// token entry, and returns their ids.
func prefill(b *testing.B, backend storage.Backend, count int) []string {
	b.Helper()
	ctx := context.Background()

	ids := make([]string, count)
	for i := 0; i < count; i++ {
		id := newSessionID(b)
		ids[i] = id
		if err := backend.EnsureSession(ctx, id); err != nil {
			b.Fatalf("ensure session: %v", err)
		}
		entries := map[string]csrf.Entry{
			"form": {New: fmt.Sprintf("value-%d", i), Old: "previous"},
		}
		if err := backend.SetNamespace(ctx, id, csrf.DefaultNamespace, entries); err != nil {
			b.Fatalf("set namespace: %v", err)
		}
	}
	return ids
}

// boundManager returns a csrf.Manager bound to a single session on the
// given backend.
func boundManager(b *testing.B, backend storage.Backend) *csrf.Manager {
	b.Helper()
	sessions := session.NewManager(backend, session.Config{}, discardLogger())
	return csrf.New(sessions.Store(newSessionID(b)))
}
