package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/lingtalfi/CSRFTools/internal/storage"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

func BenchmarkMemoryGetNamespace(b *testing.B) {
	for _, count := range SessionCounts {
		b.Run(fmt.Sprintf("sessions=%d", count), func(b *testing.B) {
			backend := storage.NewMemory()
			defer backend.Close()

			ids := prefill(b, backend, count)
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				id := ids[i%len(ids)]
				if _, _, err := backend.GetNamespace(ctx, id, csrf.DefaultNamespace); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMemorySetNamespace(b *testing.B) {
	backend := storage.NewMemory()
	defer backend.Close()

	ids := prefill(b, backend, 10000)
	ctx := context.Background()
	entries := map[string]csrf.Entry{"form": {New: "fresh", Old: "stale"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := backend.SetNamespace(ctx, ids[i%len(ids)], csrf.DefaultNamespace, entries); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryParallelMixed(b *testing.B) {
	for _, shards := range []int{1, 16, 64} {
		b.Run(fmt.Sprintf("shards=%d", shards), func(b *testing.B) {
			backend := storage.NewMemory(storage.WithShardCount(shards))
			defer backend.Close()

			ids := prefill(b, backend, 10000)
			entries := map[string]csrf.Entry{"form": {New: "fresh"}}

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				ctx := context.Background()
				i := 0
				for pb.Next() {
					id := ids[i%len(ids)]
					if i%4 == 0 {
						if err := backend.SetNamespace(ctx, id, csrf.DefaultNamespace, entries); err != nil {
							b.Fatal(err)
						}
					} else {
						if _, _, err := backend.GetNamespace(ctx, id, csrf.DefaultNamespace); err != nil {
							b.Fatal(err)
						}
					}
					i++
				}
			})
		})
	}
}

func BenchmarkBadgerSetNamespace(b *testing.B) {
	for _, encrypted := range []bool{false, true} {
		b.Run(fmt.Sprintf("encrypted=%t", encrypted), func(b *testing.B) {
			cfg := storage.BadgerConfig{Dir: b.TempDir()}
			if encrypted {
				cfg.EncryptionKey = []byte("0123456789abcdef")
			}
			backend, err := storage.NewBadger(cfg, discardLogger())
			if err != nil {
				b.Fatal(err)
			}
			defer backend.Close()

			ctx := context.Background()
			id := newSessionID(b)
			if err := backend.EnsureSession(ctx, id); err != nil {
				b.Fatal(err)
			}
			entries := map[string]csrf.Entry{"form": {New: "fresh", Old: "stale"}}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := backend.SetNamespace(ctx, id, csrf.DefaultNamespace, entries); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
