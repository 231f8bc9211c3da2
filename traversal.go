package fastlane

// seek binary-searches the top lane for the rightmost slot whose key is <=
// key. An exact hit returns immediately; a key below every entry, or an empty
// top lane, yields slot 0.
func (ix *Index) seek(key int32) int {
	top := ix.lanes.level(ix.levels - 1)
	lo, hi := 0, len(top)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case top[mid] == key:
			return mid
		case top[mid] < key:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}
	return lo - 1
}

// descend walks from the top lane down to level 0 and returns the level-0
// slot of the bucket that would hold key: the rightmost slot whose key is
// <= key, or slot 0.
//
// Slot j of level l+1 repeats slot j*skip of level l, so each level only
// scans forward from its parent's position, at most skip slots in a filled
// index.
func (ix *Index) descend(key int32) int {
	rel := ix.seek(key)
	for level := ix.levels - 1; ; level-- {
		lane := ix.lanes.level(level)
		for rel+1 < len(lane) && lane[rel+1] <= key {
			rel++
		}
		if level == 0 {
			return rel
		}
		rel *= ix.skip
	}
}

// lowerSlot returns the leftmost level-0 slot whose bucket may hold a key
// >= key. Runs of duplicates can spill from one bucket into the next, so the
// floor slot from descend backs off while its own key is not below key.
func (ix *Index) lowerSlot(key int32) int {
	lane := ix.lanes.level(0)
	slot := ix.descend(key)
	for slot > 0 && lane[slot] >= key {
		slot--
	}
	return slot
}

// scanLevelZero advances from slot over level-0 entries whose key is below
// endKey and returns the last such slot. Whole scan batches are consumed
// while the farthest slot of the batch still qualifies; single steps finish
// the walk.
func (ix *Index) scanLevelZero(slot int, endKey int32) int {
	lane := ix.lanes.level(0)
	w := ix.scanBatch
	var batches, steps int64
	for slot+w < len(lane) && lane[slot+w] < endKey {
		slot += w
		batches++
	}
	for slot+1 < len(lane) && lane[slot+1] < endKey {
		slot++
		steps++
	}
	ix.metrics.addScanHops(batches, steps)
	return slot
}
