package fastlane

// lanes stores every fast-lane level in one contiguous block, sparsest level
// first. Level l occupies slots[starts[l] : starts[l]+caps[l]] and its
// populated entries are the prefix of length fill[l].
type lanes struct {
	slots  []int32
	starts []int
	caps   []int
	fill   []int
	skip   int
	block  int
}

func newLanes(levels, skip, block int) lanes {
	l := lanes{
		fill:  make([]int, levels),
		skip:  skip,
		block: block,
	}
	var total int
	l.starts, l.caps, total = laneLayout(levels, skip, block)
	l.slots = emptySlots(total)
	return l
}

// laneLayout sizes every level for a top level of topCap slots. Each level
// below holds skip times the slots of the level above it.
func laneLayout(levels, skip, topCap int) (starts, caps []int, total int) {
	starts = make([]int, levels)
	caps = make([]int, levels)

	top := levels - 1
	caps[top] = topCap
	total = topCap
	for level := top - 1; level >= 0; level-- {
		caps[level] = caps[level+1] * skip
		starts[level] = starts[level+1] + caps[level+1]
		total += caps[level]
	}
	return starts, caps, total
}

// scaledCapacity returns base*skip^exp, or false once it passes limit.
func scaledCapacity(base, skip, exp, limit int) (int, bool) {
	n := base
	for i := 0; i < exp; i++ {
		if n > limit/skip {
			return 0, false
		}
		n *= skip
	}
	return n, n <= limit
}

func emptySlots(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = Sentinel
	}
	return s
}

// level returns the populated entries of a level.
func (l *lanes) level(level int) []int32 {
	start := l.starts[level]
	return l.slots[start : start+l.fill[level]]
}

// promote writes key into the next free slot of level. It reports false when
// the level is full or the slot is already taken; neither counts as a
// promotion.
func (l *lanes) promote(level int, key int32) bool {
	if l.fill[level] >= l.caps[level] {
		return false
	}
	pos := l.starts[level] + l.fill[level]
	if l.slots[pos] != Sentinel {
		return false
	}
	l.slots[pos] = key
	l.fill[level]++
	return true
}

// grow adds one block to the top level and the matching scaled capacity to
// every level below. Populated entries move to their new offsets in order.
func (l *lanes) grow() {
	levels := len(l.caps)
	starts, caps, total := laneLayout(levels, l.skip, l.caps[levels-1]+l.block)
	slots := emptySlots(total)
	for level := 0; level < levels; level++ {
		copy(slots[starts[level]:], l.level(level))
	}
	l.slots = slots
	l.starts = starts
	l.caps = caps
}

func (l *lanes) capacity(level int) int {
	return l.caps[level]
}

func (l *lanes) filled(level int) int {
	return l.fill[level]
}
