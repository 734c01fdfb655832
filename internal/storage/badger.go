package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

// Key layout inside Badger. Namespace blobs and session markers carry
// the same TTL; Badger discards expired keys on its own.
const (
	sessionKeyPrefix   = "sess/"
	namespaceKeyPrefix = "ns/"
)

// DefaultGCInterval is how often the value-log GC runs.
const DefaultGCInterval = 10 * time.Minute

// BadgerConfig configures the persistent backend.
type BadgerConfig struct {
	// Dir is the Badger data directory. Required.
	Dir string

	// SessionTTL is the sliding session TTL. Zero disables expiry.
	SessionTTL time.Duration

	// EncryptionKey enables at-rest encryption of namespace blobs when
	// non-empty. Minimum 16 bytes.
	EncryptionKey []byte

	// GCInterval is how often the value-log GC runs.
	GCInterval time.Duration

	// SyncWrites forces fsync on every write.
	SyncWrites bool
}

// BadgerBackend is a persistent Backend on top of Badger v3.
type BadgerBackend struct {
	db     *badger.DB
	box    *secretBox // nil when encryption is off
	ttl    time.Duration
	logger *slog.Logger

	gcReclaims atomic.Uint64

	metricLSMSize  prometheus.Gauge
	metricVlogSize prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// BadgerOption configures a BadgerBackend.
type BadgerOption func(*BadgerBackend)

// WithBadgerMetrics registers on-disk size gauges with reg.
func WithBadgerMetrics(reg prometheus.Registerer) BadgerOption {
	return func(b *BadgerBackend) {
		if reg == nil {
			return
		}
		b.metricLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "csrftools_badger_lsm_size_bytes",
			Help: "Size of the Badger LSM tree on disk.",
		})
		b.metricVlogSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "csrftools_badger_vlog_size_bytes",
			Help: "Size of the Badger value log on disk.",
		})
		reg.MustRegister(b.metricLSMSize, b.metricVlogSize)
	}
}

// NewBadger opens the Badger backend and starts its GC loop.
func NewBadger(cfg BadgerConfig, logger *slog.Logger, opts ...BadgerOption) (*BadgerBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage: badger dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var box *secretBox
	if len(cfg.EncryptionKey) > 0 {
		var err error
		box, err = newSecretBox(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
	}

	badgerOpts := badger.DefaultOptions(cfg.Dir)
	badgerOpts.Logger = &badgerLogger{logger: logger}
	badgerOpts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}

	gcInterval := cfg.GCInterval
	if gcInterval <= 0 {
		gcInterval = DefaultGCInterval
	}

	b := &BadgerBackend{
		db:     db,
		box:    box,
		ttl:    cfg.SessionTTL,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	go b.gcLoop(gcInterval)

	logger.Info("badger backend started",
		"dir", cfg.Dir,
		"session_ttl", cfg.SessionTTL,
		"encrypted", box != nil)

	return b, nil
}

func sessionKey(sessionID string) []byte {
	return []byte(sessionKeyPrefix + sessionID)
}

func namespaceKey(sessionID, namespace string) []byte {
	return []byte(namespaceKeyPrefix + sessionID + "/" + namespace)
}

// EnsureSession writes (or refreshes) the session marker.
func (b *BadgerBackend) EnsureSession(_ context.Context, sessionID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(b.withTTL(badger.NewEntry(sessionKey(sessionID), nil)))
	})
}

// GetNamespace reads and decodes the blob for (sessionID, namespace).
func (b *BadgerBackend) GetNamespace(_ context.Context, sessionID, namespace string) (map[string]csrf.Entry, bool, error) {
	var blob []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(namespaceKey(sessionID, namespace))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: read namespace: %w", err)
	}

	if b.box != nil {
		blob, err = b.box.open(blob)
		if err != nil {
			return nil, false, err
		}
	}

	var entries map[string]csrf.Entry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, false, fmt.Errorf("storage: decode namespace: %w", err)
	}
	return entries, true, nil
}

// SetNamespace encodes and writes the blob, refreshing the session marker.
func (b *BadgerBackend) SetNamespace(_ context.Context, sessionID, namespace string, entries map[string]csrf.Entry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("storage: encode namespace: %w", err)
	}

	if b.box != nil {
		blob, err = b.box.seal(blob)
		if err != nil {
			return err
		}
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(b.withTTL(badger.NewEntry(namespaceKey(sessionID, namespace), blob))); err != nil {
			return err
		}
		return txn.SetEntry(b.withTTL(badger.NewEntry(sessionKey(sessionID), nil)))
	})
}

// DeleteSession removes the marker and every namespace blob of a session.
func (b *BadgerBackend) DeleteSession(_ context.Context, sessionID string) error {
	prefix := []byte(namespaceKeyPrefix + sessionID + "/")
	return b.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return txn.Delete(sessionKey(sessionID))
	})
}

// Sessions counts live session markers.
func (b *BadgerBackend) Sessions(_ context.Context) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.IteratorOptions{Prefix: []byte(sessionKeyPrefix)}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage: count sessions: %w", err)
	}
	return count, nil
}

// Close stops the GC loop and closes the database.
func (b *BadgerBackend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.db.Close()
}

func (b *BadgerBackend) withTTL(e *badger.Entry) *badger.Entry {
	if b.ttl > 0 {
		return e.WithTTL(b.ttl)
	}
	return e
}

// gcLoop periodically runs value-log GC and updates size gauges.
func (b *BadgerBackend) gcLoop(interval time.Duration) {
	defer close(b.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			// Badger returns ErrNoRewrite when there is nothing to do.
			for {
				if err := b.db.RunValueLogGC(0.5); err != nil {
					break
				}
				b.gcReclaims.Add(1)
			}
			b.updateSizeMetrics()
		}
	}
}

func (b *BadgerBackend) updateSizeMetrics() {
	if b.metricLSMSize == nil {
		return
	}
	lsm, vlog := b.db.Size()
	b.metricLSMSize.Set(float64(lsm))
	b.metricVlogSize.Set(float64(vlog))
}

// badgerLogger adapts slog to Badger's logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf("badger: "+format, args...))
}
