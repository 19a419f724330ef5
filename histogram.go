package promhist

import (
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
)

// histogramCounts holds one generation of observation state.
// sumBits and count must stay first in the struct to guarantee 64-bit
// alignment for atomic operations on 32-bit platforms.
type histogramCounts struct {
	// sumBits holds the bit pattern of the float64 sum of all observations.
	sumBits uint64

	// count is the number of completed observations. It is incremented last
	// in observe and doubles as the completion marker awaited by snapshot.
	count uint64

	// buckets holds per-bucket deltas; cumulation happens at snapshot time.
	buckets []uint64
}

// histogram is a single metric instance. Observations are lock-free: they pick
// the current hot counts and update it with atomic adds only. snapshot flips
// the hot/cold pair and waits for in-flight observations to land, so an
// encoded histogram never exposes a torn observation.
type histogram struct {
	// countAndHotIdx packs the hot counts index into the most significant bit
	// and the number of initiated observations into the remaining 63 bits.
	// Must be first for 64-bit alignment of atomic access.
	countAndHotIdx uint64

	schedule *bucketSchedule
	counts   [2]*histogramCounts

	// snapshotMtx serializes snapshot calls. Observe never takes it.
	snapshotMtx sync.Mutex
}

func newHistogram(schedule *bucketSchedule) *histogram {
	return &histogram{
		schedule: schedule,
		counts: [2]*histogramCounts{
			{buckets: make([]uint64, schedule.size())},
			{buckets: make([]uint64, schedule.size())},
		},
	}
}

// findBucket returns the index of the smallest bound >= v, or the schedule
// size when v exceeds every finite bound (including NaN, whose comparisons
// are all false).
func (h *histogram) findBucket(v float64) int {
	return sort.SearchFloat64s(h.schedule.upperBounds, v)
}

// Observe records v. It is infallible and safe for concurrent use.
func (h *histogram) Observe(v float64) {
	bucket := h.findBucket(v)

	n := atomic.AddUint64(&h.countAndHotIdx, 1)
	hot := h.counts[n>>63]

	if bucket < len(hot.buckets) {
		atomic.AddUint64(&hot.buckets[bucket], 1)
	}
	for {
		oldBits := atomic.LoadUint64(&hot.sumBits)
		newBits := math.Float64bits(math.Float64frombits(oldBits) + v)
		if atomic.CompareAndSwapUint64(&hot.sumBits, oldBits, newBits) {
			break
		}
	}
	// Increment count last: it marks this observation complete for snapshot.
	atomic.AddUint64(&hot.count, 1)
}

// histogramSnapshot is a consistent view of a histogram for encoding.
// buckets holds cumulative counts per finite bound; count covers +Inf.
type histogramSnapshot struct {
	buckets []uint64
	sum     float64
	count   uint64
}

// snapshot returns the histogram state with every observation either fully
// reflected or absent. It is not on the hot path; Observe is called far more
// often, so protecting the whole method with a mutex is fine.
func (h *histogram) snapshot() histogramSnapshot {
	h.snapshotMtx.Lock()
	defer h.snapshotMtx.Unlock()

	// Adding 1<<63 flips the hot index without touching the count bits. The
	// previous hot counts become cold and stop receiving new observations.
	n := atomic.AddUint64(&h.countAndHotIdx, 1<<63)
	count := n & ((1 << 63) - 1)
	hot := h.counts[n>>63]
	cold := h.counts[(^n)>>63]

	// Await cooldown: once the cold count matches the initiation count, every
	// observation started before the flip has fully landed in cold.
	for count != atomic.LoadUint64(&cold.count) {
		runtime.Gosched()
	}

	snap := histogramSnapshot{
		buckets: make([]uint64, len(cold.buckets)),
		sum:     math.Float64frombits(atomic.LoadUint64(&cold.sumBits)),
		count:   count,
	}
	var cum uint64
	for i := range cold.buckets {
		cum += atomic.LoadUint64(&cold.buckets[i])
		snap.buckets[i] = cum
	}

	// Merge the cold state into the new hot counts and zero it, so the next
	// flip starts from a clean generation.
	atomic.AddUint64(&hot.count, count)
	atomic.StoreUint64(&cold.count, 0)
	for {
		oldBits := atomic.LoadUint64(&hot.sumBits)
		newBits := math.Float64bits(math.Float64frombits(oldBits) + snap.sum)
		if atomic.CompareAndSwapUint64(&hot.sumBits, oldBits, newBits) {
			atomic.StoreUint64(&cold.sumBits, 0)
			break
		}
	}
	for i := range cold.buckets {
		atomic.AddUint64(&hot.buckets[i], atomic.LoadUint64(&cold.buckets[i]))
		atomic.StoreUint64(&cold.buckets[i], 0)
	}

	return snap
}
