package fastlane

import "sort"

// Iterator walks a RangeView one element at a time.
type Iterator struct {
	view    RangeView
	current Ref
	started bool
	valid   bool
}

// Iterator returns a new iterator positioned before the first element of the
// view.
func (v RangeView) Iterator() *Iterator {
	return &Iterator{view: v}
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator) Valid() bool {
	if it == nil {
		return false
	}
	return it.valid
}

// Ref returns the element at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator) Ref() Ref {
	if it == nil || !it.valid {
		return 0
	}
	return it.current
}

// Key returns the key at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator) Key() int32 {
	if it == nil || !it.valid {
		return 0
	}
	return it.view.chain.key(it.current)
}

// Next advances the iterator and reports whether it moved onto an element.
// The first call moves onto Start.
func (it *Iterator) Next() bool {
	if it == nil || it.view.count == 0 {
		return false
	}

	next := it.view.start
	if it.started {
		if !it.valid {
			return false
		}
		ref, ok := it.view.chain.next(it.current)
		if !ok {
			it.invalidate()
			return false
		}
		next = ref
	}
	it.started = true

	if next == it.view.end {
		it.invalidate()
		return false
	}
	it.current = next
	it.valid = true
	return true
}

// SeekGE positions the iterator at the first element of the view whose key
// is >= key. It returns true if such an element exists.
func (it *Iterator) SeekGE(key int32) bool {
	if it == nil {
		return false
	}
	it.started = true
	keys := it.view.chain.keys[it.view.start:it.view.end]
	i := sort.Search(len(keys), func(i int) bool { return keys[i] >= key })
	if i == len(keys) {
		it.invalidate()
		return false
	}
	it.current = it.view.start + Ref(i)
	it.valid = true
	return true
}

func (it *Iterator) invalidate() {
	it.current = 0
	it.valid = false
}
