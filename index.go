package fastlane

import (
	"fmt"

	"go.uber.org/zap"
)

// Index is an append-only ordered index over int32 keys. Keys must arrive in
// non-decreasing order. Every key lands on the backbone; every skip-th key
// also opens a bucket and a level-0 lane slot, every skip^2-th key reaches
// level 1, and so on up the lane stack.
//
// An Index has a single writer. Contains and SearchRange must not run
// concurrently with Insert.
type Index struct {
	levels    int
	skip      int
	count     int
	scanBatch int

	// strides[l] is skip^(l+1): the element-count period of level l.
	strides []int
	// resizeEvery is the element count at which every level is full.
	resizeEvery int
	resizes     int

	chain   backbone
	lanes   lanes
	buckets []bucket

	logger  *zap.Logger
	metrics *Metrics
}

// New returns an empty Index with levelCount fast lanes and the given skip
// factor. A skip factor below 2 is raised to 2; one above the configured
// maximum fails with ErrSkipFactor. levelCount is clamped to [1, MaxLevels].
func New(levelCount, skipFactor int, opts ...Option) (*Index, error) {
	cfg := NewConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if skipFactor > cfg.maxSkipFactor {
		return nil, fmt.Errorf("%w: %w: skip=%d max=%d",
			ErrInvalidConfig, ErrSkipFactor, skipFactor, cfg.maxSkipFactor)
	}
	if skipFactor < 2 {
		skipFactor = 2
	}
	levelCount = min(max(levelCount, 1), MaxLevels)

	bottom, ok := scaledCapacity(cfg.laneBlockSize, skipFactor, levelCount-1, maxLaneSlots)
	if !ok {
		return nil, fmt.Errorf("%w: %w: levels=%d skip=%d block=%d",
			ErrInvalidConfig, ErrLaneCapacity, levelCount, skipFactor, cfg.laneBlockSize)
	}

	strides := make([]int, levelCount)
	stride := 1
	for level := range strides {
		stride *= skipFactor
		strides[level] = stride
	}

	ix := &Index{
		levels:      levelCount,
		skip:        skipFactor,
		scanBatch:   cfg.scanBatchWidth,
		strides:     strides,
		resizeEvery: bottom * skipFactor,
		chain:       newBackbone(),
		lanes:       newLanes(levelCount, skipFactor, cfg.laneBlockSize),
		logger:      cfg.logger,
		metrics:     cfg.metrics,
	}
	ix.logger.Debug("index created",
		zap.Int("levels", levelCount),
		zap.Int("skip", skipFactor),
		zap.Int("laneBlock", cfg.laneBlockSize),
		zap.Int("laneSlots", len(ix.lanes.slots)),
		zap.Int("scanBatch", cfg.scanBatchWidth))
	return ix, nil
}

// Insert appends key. key must be >= every key inserted before; this is not
// checked (see InsertChecked).
func (ix *Index) Insert(key int32) {
	ref := ix.chain.append(key)
	if ix.promote(key, ref) == 0 && len(ix.buckets) > 0 {
		ix.buckets[len(ix.buckets)-1].add(key, ref, ix.skip)
	}
	ix.count++
	ix.metrics.incInsert()

	if ix.count%ix.resizeEvery == 0 {
		ix.resize()
	}
}

// InsertChecked is Insert with its preconditions verified: the key must not
// be the Sentinel and must not be below the current tail.
func (ix *Index) InsertChecked(key int32) error {
	if key == Sentinel {
		return fmt.Errorf("insert %d: %w", key, ErrReservedKey)
	}
	if n := ix.chain.len(); n > 0 {
		if tail := ix.chain.key(Ref(n - 1)); key < tail {
			return fmt.Errorf("insert %d after %d: %w", key, tail, ErrOutOfOrder)
		}
	}
	ix.Insert(key)
	return nil
}

// promote folds the new element up the lane stack and returns how many
// levels it reached. Level l is attempted only when the element count is a
// multiple of skip^(l+1) and level l-1 accepted the key, so every key in
// level l+1 is also in level l.
func (ix *Index) promote(key int32, ref Ref) int {
	level := 0
	for level < ix.levels &&
		ix.count%ix.strides[level] == 0 &&
		ix.lanes.promote(level, key) {
		if level == 0 {
			ix.buckets = append(ix.buckets, newBucket(key, ref))
		}
		ix.metrics.incPromotion(level)
		level++
	}
	return level
}

func (ix *Index) resize() {
	ix.lanes.grow()
	ix.resizes++
	ix.metrics.incResize()
	if resizeHook != nil {
		resizeHook(ix.count)
	}
	ix.logger.Debug("fast lanes resized",
		zap.Int("elements", ix.count),
		zap.Int("resizes", ix.resizes),
		zap.Int("topCapacity", ix.lanes.capacity(ix.levels-1)),
		zap.Int("laneSlots", len(ix.lanes.slots)))
}

// Contains reports whether key was inserted.
func (ix *Index) Contains(key int32) bool {
	if ix.count == 0 || key == Sentinel {
		ix.metrics.incLookup(false, false)
		return false
	}
	slot := ix.descend(key)
	if ix.lanes.level(0)[slot] == key {
		ix.metrics.incLookup(true, false)
		return true
	}
	hit := ix.buckets[slot].has(key, ix.skip)
	ix.metrics.incLookup(hit, true)
	return hit
}

// SearchRange returns a view of every element with startKey <= key < endKey.
// The view ends at the first element whose key is >= endKey, or at the end
// of the backbone. startKey >= endKey yields an empty view.
func (ix *Index) SearchRange(startKey, endKey int32) RangeView {
	chain := backbone{keys: ix.chain.snapshot()}
	if ix.count == 0 {
		return newRangeView(chain, 0, 0, 0)
	}
	ix.metrics.incRangeScan()

	first := ix.lowerSlot(startKey)
	startSlot := ix.buckets[first].lowerBound(startKey, ix.skip)
	start := ix.buckets[first].refAt(startSlot, ix.skip)
	if startKey >= endKey {
		return newRangeView(chain, start, start, 0)
	}

	last := ix.scanLevelZero(first, endKey)
	endSlot := ix.buckets[last].lowerBound(endKey, ix.skip)
	end := ix.buckets[last].refAt(endSlot, ix.skip)

	// Buckets between first and last are full, so each hop covers skip
	// elements; only the two boundary buckets need slot offsets.
	count := (last-first)*ix.skip + endSlot - startSlot
	return newRangeView(chain, start, end, count)
}

// SkipFactor returns the bucket size and lane fan-out.
func (ix *Index) SkipFactor() int {
	return ix.skip
}

// Levels returns the number of fast lanes.
func (ix *Index) Levels() int {
	return ix.levels
}

// Len returns the number of inserted keys.
func (ix *Index) Len() int {
	return ix.count
}

// Stats describes the shape of an Index.
type Stats struct {
	Len            int   `json:"len"`
	SkipFactor     int   `json:"skip_factor"`
	Levels         int   `json:"levels"`
	Buckets        int   `json:"buckets"`
	Resizes        int   `json:"resizes"`
	ScanBatchWidth int   `json:"scan_batch_width"`
	LaneCapacity   []int `json:"lane_capacity"`
	LaneFill       []int `json:"lane_fill"`
	LaneBytes      int   `json:"lane_bytes"`
	BucketBytes    int   `json:"bucket_bytes"`
	BackboneBytes  int   `json:"backbone_bytes"`
}

// Stats reports lane occupancy and memory held by the index. Lane slices are
// indexed by level, level 0 first.
func (ix *Index) Stats() Stats {
	s := Stats{
		Len:            ix.count,
		SkipFactor:     ix.skip,
		Levels:         ix.levels,
		Buckets:        len(ix.buckets),
		Resizes:        ix.resizes,
		ScanBatchWidth: ix.scanBatch,
		LaneCapacity:   make([]int, ix.levels),
		LaneFill:       make([]int, ix.levels),
		LaneBytes:      len(ix.lanes.slots) * 4,
		BucketBytes:    cap(ix.buckets) * bucketBytes,
		BackboneBytes:  cap(ix.chain.keys) * 4,
	}
	for level := 0; level < ix.levels; level++ {
		s.LaneCapacity[level] = ix.lanes.capacity(level)
		s.LaneFill[level] = ix.lanes.filled(level)
	}
	return s
}
