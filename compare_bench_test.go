package fastlane

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"
)

// BenchmarkCompareSortedSlice pits the fast lanes against a binary search
// over the same keys held in one sorted slice.
func BenchmarkCompareSortedSlice(b *testing.B) {
	for _, n := range []int{1 << 12, 1 << 16, 1 << 20, 1 << 22} {
		keys := benchKeys(distDuplicates, n)
		r := rand.New(rand.NewPCG(3, uint64(n)))
		probes := make([]int32, 4096)
		for i := range probes {
			probes[i] = keys[r.IntN(n)]
		}

		b.Run(fmt.Sprintf("FastLane_N%d", n), func(b *testing.B) {
			ix, _ := New(9, 5)
			for _, k := range keys {
				ix.Insert(k)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ix.Contains(probes[i&(len(probes)-1)])
			}
		})

		b.Run(fmt.Sprintf("SortedSlice_N%d", n), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p := probes[i&(len(probes)-1)]
				j := sort.Search(len(keys), func(j int) bool { return keys[j] >= p })
				_ = j < len(keys) && keys[j] == p
			}
		})
	}
}
