package fastlane

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Metrics counts index activity. The writer-side and reader-side counters
// sit on separate cache lines so a stats poller does not bounce the line the
// inserting goroutine writes. A nil *Metrics ignores every update.
type Metrics struct {
	inserts    atomic.Int64
	resizes    atomic.Int64
	buckets    atomic.Int64
	promotions [MaxLevels]atomic.Int64
	_          cpu.CacheLinePad

	lookups      atomic.Int64
	lookupHits   atomic.Int64
	bucketProbes atomic.Int64
	rangeScans   atomic.Int64
	batchHops    atomic.Int64
	singleHops   atomic.Int64
	_            cpu.CacheLinePad
}

// NewMetrics returns a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Inserts      int64   `json:"inserts"`
	Resizes      int64   `json:"resizes"`
	Buckets      int64   `json:"buckets"`
	Promotions   []int64 `json:"promotions"`
	Lookups      int64   `json:"lookups"`
	LookupHits   int64   `json:"lookup_hits"`
	BucketProbes int64   `json:"bucket_probes"`
	RangeScans   int64   `json:"range_scans"`
	BatchHops    int64   `json:"batch_hops"`
	SingleHops   int64   `json:"single_hops"`
}

func (m *Metrics) incInsert() {
	if m == nil {
		return
	}
	m.inserts.Add(1)
}

func (m *Metrics) incPromotion(level int) {
	if m == nil {
		return
	}
	m.promotions[level].Add(1)
	if level == 0 {
		m.buckets.Add(1)
	}
}

func (m *Metrics) incResize() {
	if m == nil {
		return
	}
	m.resizes.Add(1)
}

func (m *Metrics) incLookup(hit, probedBucket bool) {
	if m == nil {
		return
	}
	m.lookups.Add(1)
	if hit {
		m.lookupHits.Add(1)
	}
	if probedBucket {
		m.bucketProbes.Add(1)
	}
}

func (m *Metrics) incRangeScan() {
	if m == nil {
		return
	}
	m.rangeScans.Add(1)
}

func (m *Metrics) addScanHops(batches, steps int64) {
	if m == nil {
		return
	}
	if batches > 0 {
		m.batchHops.Add(batches)
	}
	if steps > 0 {
		m.singleHops.Add(steps)
	}
}

// Snapshot copies the counters. Promotions is trimmed after the highest
// level that saw a promotion.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	s := MetricsSnapshot{
		Inserts:      m.inserts.Load(),
		Resizes:      m.resizes.Load(),
		Buckets:      m.buckets.Load(),
		Lookups:      m.lookups.Load(),
		LookupHits:   m.lookupHits.Load(),
		BucketProbes: m.bucketProbes.Load(),
		RangeScans:   m.rangeScans.Load(),
		BatchHops:    m.batchHops.Load(),
		SingleHops:   m.singleHops.Load(),
	}
	top := 0
	promotions := make([]int64, MaxLevels)
	for i := range m.promotions {
		promotions[i] = m.promotions[i].Load()
		if promotions[i] > 0 {
			top = i + 1
		}
	}
	s.Promotions = promotions[:top]
	return s
}
