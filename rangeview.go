package fastlane

import "iter"

// RangeView is the result of SearchRange: the elements from Start
// (inclusive) to End (exclusive) along the backbone. It holds the backbone as
// it was when the search ran, so later inserts change neither its bounds nor
// its keys, and it may be read while the writer keeps inserting.
type RangeView struct {
	chain backbone
	start Ref
	end   Ref
	count int
}

func newRangeView(chain backbone, start, end Ref, count int) RangeView {
	return RangeView{chain: chain, start: start, end: end, count: count}
}

// Count returns the number of elements in the view.
func (v RangeView) Count() int {
	return v.count
}

// Start returns the first element of the view.
func (v RangeView) Start() Ref {
	return v.start
}

// End returns the element right after the view. It equals the backbone
// length at search time when the view runs to the end of the backbone.
func (v RangeView) End() Ref {
	return v.end
}

// StartKey returns the key of Start, or false when Start is the end of the
// backbone.
func (v RangeView) StartKey() (int32, bool) {
	return v.keyAt(v.start)
}

// EndKey returns the key of End, or false when the view runs to the end of
// the backbone.
func (v RangeView) EndKey() (int32, bool) {
	return v.keyAt(v.end)
}

func (v RangeView) keyAt(ref Ref) (int32, bool) {
	if int(ref) >= v.chain.len() {
		return 0, false
	}
	return v.chain.key(ref), true
}

// Keys returns the keys of the view in backbone order. Each call walks the
// backbone again from Start.
func (v RangeView) Keys() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		it := v.Iterator()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// AppendKeys appends the keys of the view to dst.
func (v RangeView) AppendKeys(dst []int32) []int32 {
	if v.count == 0 {
		return dst
	}
	return append(dst, v.chain.keys[v.start:v.end]...)
}
