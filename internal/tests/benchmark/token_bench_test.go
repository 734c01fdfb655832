package benchmark

import (
	"fmt"
	"testing"

	"github.com/lingtalfi/CSRFTools/pkg/token"
)

func BenchmarkTokenGenerate(b *testing.B) {
	for _, length := range []int{16, 32, 64} {
		b.Run(fmt.Sprintf("length=%d", length), func(b *testing.B) {
			g := token.NewGenerator(length)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := g.Generate(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTokenGenerateParallel(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := token.Generate(); err != nil {
				b.Fatal(err)
			}
		}
	})
}
