package storage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// DefaultShardCount is the default number of shards for MemoryBackend.
const DefaultShardCount = 16

// DefaultCleanupInterval is how often expired sessions are swept.
const DefaultCleanupInterval = time.Minute

// MemoryBackend is an in-process Backend with murmur3-sharded locking.
type MemoryBackend struct {
	shards    []*memShard
	shardMask uint32

	ttl             time.Duration
	cleanupInterval time.Duration
	logger          *slog.Logger

	closed atomic.Bool
	stopCh chan struct{}
	doneCh chan struct{}
}

type memShard struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	namespaces map[string]map[string]csrf.Entry
	expiresAt  int64 // Unix milliseconds, 0 = no expiry
}

func (r *sessionRecord) expired(nowMillis int64) bool {
	return r.expiresAt > 0 && nowMillis > r.expiresAt
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithShardCount sets the shard count. Must be a power of two; other
// values fall back to DefaultShardCount.
func WithShardCount(n int) MemoryOption {
	return func(b *MemoryBackend) {
		if n > 0 && n&(n-1) == 0 {
			b.shards = make([]*memShard, n)
			b.shardMask = uint32(n - 1)
		}
	}
}

// WithSessionTTL sets the sliding session TTL. Zero disables expiry.
func WithSessionTTL(ttl time.Duration) MemoryOption {
	return func(b *MemoryBackend) {
		b.ttl = ttl
	}
}

// WithCleanupInterval sets how often the expiry sweep runs.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(b *MemoryBackend) {
		if d > 0 {
			b.cleanupInterval = d
		}
	}
}

// WithMemoryLogger sets the backend logger.
func WithMemoryLogger(logger *slog.Logger) MemoryOption {
	return func(b *MemoryBackend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewMemory creates an in-memory backend and starts its expiry sweep
// when a TTL is configured.
func NewMemory(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		shards:          make([]*memShard, DefaultShardCount),
		shardMask:       DefaultShardCount - 1,
		cleanupInterval: DefaultCleanupInterval,
		logger:          slog.Default(),
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	for i := range b.shards {
		b.shards[i] = &memShard{sessions: make(map[string]*sessionRecord)}
	}

	if b.ttl > 0 {
		go b.sweepLoop()
	} else {
		close(b.doneCh)
	}

	return b
}

func (b *MemoryBackend) shard(sessionID string) *memShard {
	return b.shards[murmur3.Sum32([]byte(sessionID))&b.shardMask]
}

// EnsureSession creates the session record if absent and refreshes TTL.
func (b *MemoryBackend) EnsureSession(_ context.Context, sessionID string) error {
	if b.closed.Load() {
		return ErrClosed
	}

	shard := b.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now().UnixMilli()
	rec, ok := shard.sessions[sessionID]
	if !ok || rec.expired(now) {
		rec = &sessionRecord{namespaces: make(map[string]map[string]csrf.Entry)}
		shard.sessions[sessionID] = rec
	}
	b.refreshLocked(rec, now)
	return nil
}

// GetNamespace returns the mapping for (sessionID, namespace), if any.
// The returned map is a copy; callers may mutate it freely.
func (b *MemoryBackend) GetNamespace(_ context.Context, sessionID, namespace string) (map[string]csrf.Entry, bool, error) {
	if b.closed.Load() {
		return nil, false, ErrClosed
	}

	shard := b.shard(sessionID)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	rec, ok := shard.sessions[sessionID]
	if !ok || rec.expired(time.Now().UnixMilli()) {
		return nil, false, nil
	}

	entries, ok := rec.namespaces[namespace]
	if !ok {
		return nil, false, nil
	}

	out := make(map[string]csrf.Entry, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out, true, nil
}

// SetNamespace replaces the mapping for (sessionID, namespace), creating
// the session record when missing, and refreshes TTL.
func (b *MemoryBackend) SetNamespace(_ context.Context, sessionID, namespace string, entries map[string]csrf.Entry) error {
	if b.closed.Load() {
		return ErrClosed
	}

	shard := b.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now().UnixMilli()
	rec, ok := shard.sessions[sessionID]
	if !ok || rec.expired(now) {
		rec = &sessionRecord{namespaces: make(map[string]map[string]csrf.Entry)}
		shard.sessions[sessionID] = rec
	}

	stored := make(map[string]csrf.Entry, len(entries))
	for k, v := range entries {
		stored[k] = v
	}
	rec.namespaces[namespace] = stored
	b.refreshLocked(rec, now)
	return nil
}

// DeleteSession removes the whole session record.
func (b *MemoryBackend) DeleteSession(_ context.Context, sessionID string) error {
	if b.closed.Load() {
		return ErrClosed
	}

	shard := b.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.sessions, sessionID)
	return nil
}

// Sessions returns the number of live (non-expired) session records.
func (b *MemoryBackend) Sessions(_ context.Context) (int, error) {
	if b.closed.Load() {
		return 0, ErrClosed
	}

	now := time.Now().UnixMilli()
	count := 0
	for _, shard := range b.shards {
		shard.mu.RLock()
		for _, rec := range shard.sessions {
			if !rec.expired(now) {
				count++
			}
		}
		shard.mu.RUnlock()
	}
	return count, nil
}

// Close stops the expiry sweep. Further operations return ErrClosed.
func (b *MemoryBackend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	close(b.stopCh)
	<-b.doneCh
	return nil
}

func (b *MemoryBackend) refreshLocked(rec *sessionRecord, nowMillis int64) {
	if b.ttl > 0 {
		rec.expiresAt = nowMillis + b.ttl.Milliseconds()
	}
}

// sweepLoop periodically drops expired session records.
func (b *MemoryBackend) sweepLoop() {
	defer close(b.doneCh)

	ticker := time.NewTicker(b.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			if n := b.sweep(); n > 0 {
				b.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

func (b *MemoryBackend) sweep() int {
	now := time.Now().UnixMilli()
	removed := 0
	for _, shard := range b.shards {
		shard.mu.Lock()
		for id, rec := range shard.sessions {
			if rec.expired(now) {
				delete(shard.sessions, id)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}
