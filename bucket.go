package fastlane

import (
	"math"
	"unsafe"
)

// Sentinel marks an empty lane or bucket slot. It is reserved: inserting it
// as a key leaves lookups unspecified. InsertChecked rejects it.
const Sentinel int32 = math.MaxInt32

// bucketSlots is the inline capacity of a bucket. Eight int32 keys and eight
// refs fill exactly one 64-byte cache line.
const bucketSlots = 8

const bucketBytes = int(unsafe.Sizeof(bucket{}))

// bucket groups the skip-factor run of elements summarized by one level-0
// lane slot. Slot 0 always holds the element that opened the bucket.
type bucket struct {
	keys [bucketSlots]int32
	refs [bucketSlots]Ref
}

func newBucket(key int32, ref Ref) bucket {
	b := bucket{}
	for i := range b.keys {
		b.keys[i] = Sentinel
	}
	b.keys[0] = key
	b.refs[0] = ref
	return b
}

// add files an element into the first free slot after slot 0. A full bucket
// is left untouched; the promotion schedule opens a new one before that.
func (b *bucket) add(key int32, ref Ref, skip int) {
	for i := 1; i < skip; i++ {
		if b.keys[i] == Sentinel {
			b.keys[i] = key
			b.refs[i] = ref
			return
		}
	}
}

// filled returns the number of occupied slots.
func (b *bucket) filled(skip int) int {
	for i := 1; i < skip; i++ {
		if b.keys[i] == Sentinel {
			return i
		}
	}
	return skip
}

// has reports whether key sits in slots 1..skip-1. Slot 0 is answered by the
// level-0 lane.
func (b *bucket) has(key int32, skip int) bool {
	for i := 1; i < skip; i++ {
		if b.keys[i] == key {
			return true
		}
	}
	return false
}

// lowerBound returns the first slot whose key is >= key, or the filled count
// when none qualifies.
func (b *bucket) lowerBound(key int32, skip int) int {
	n := b.filled(skip)
	for i := 0; i < n; i++ {
		if b.keys[i] >= key {
			return i
		}
	}
	return n
}

// refAt returns the element at slot, or the element right after the last
// filled slot when slot is past it. That element opens the next bucket, or is
// the end of the backbone.
func (b *bucket) refAt(slot, skip int) Ref {
	if n := b.filled(skip); slot >= n {
		return b.refs[n-1] + 1
	}
	return b.refs[slot]
}
