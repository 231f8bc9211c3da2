package fastlane

// Ref addresses a backbone element by its arrival position.
type Ref uint32

// backbone is the append-only chain of every inserted key. Elements live in
// one growable arena; the successor of ref is ref+1, fixed when the next key
// is appended and never reassigned.
type backbone struct {
	keys []int32
}

func newBackbone() backbone {
	return backbone{keys: make([]int32, 0, 64)}
}

// append links key after the current tail and returns its ref.
func (b *backbone) append(key int32) Ref {
	ref := Ref(len(b.keys))
	b.keys = append(b.keys, key)
	return ref
}

func (b *backbone) len() int {
	return len(b.keys)
}

func (b *backbone) key(ref Ref) int32 {
	return b.keys[ref]
}

// next returns the successor of ref and false when ref is the tail.
func (b *backbone) next(ref Ref) (Ref, bool) {
	if int(ref)+1 >= len(b.keys) {
		return 0, false
	}
	return ref + 1, true
}

// snapshot returns the chain as it stands now. Later appends never touch the
// returned elements.
func (b *backbone) snapshot() []int32 {
	return b.keys[:len(b.keys):len(b.keys)]
}
