package promhist

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogram_ObserveBucketsSumCount(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{10}))

	h.Observe(5)
	h.Observe(15)
	h.Observe(10) // on the bound: counts as <= 10

	snap := h.snapshot()
	require.Equal(t, []uint64{2}, snap.buckets)
	require.Equal(t, uint64(3), snap.count)
	require.Equal(t, 30.0, snap.sum)
}

func TestHistogram_BucketMonotonicity(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{1, 2, 5, 10}))
	for _, v := range []float64{0.5, 1.5, 3, 7, 20, -1, 2} {
		h.Observe(v)
	}

	snap := h.snapshot()
	for i := 1; i < len(snap.buckets); i++ {
		require.LessOrEqual(t, snap.buckets[i-1], snap.buckets[i], "cumulative buckets must be non-decreasing")
	}
	require.LessOrEqual(t, snap.buckets[len(snap.buckets)-1], snap.count)
}

func TestHistogram_NegativeObservation(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{1, 2}))
	h.Observe(-3)

	snap := h.snapshot()
	require.Equal(t, []uint64{1, 1}, snap.buckets, "a negative value lands in the lowest bucket")
	require.Equal(t, uint64(1), snap.count)
	require.Equal(t, -3.0, snap.sum)
}

func TestHistogram_NaNObservation(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{1, 2}))
	h.Observe(math.NaN())

	snap := h.snapshot()
	require.Equal(t, []uint64{0, 0}, snap.buckets, "NaN lands only in the implicit +Inf bucket")
	require.Equal(t, uint64(1), snap.count)
	require.True(t, math.IsNaN(snap.sum))

	// The sum stays NaN permanently; counts keep working.
	h.Observe(1)
	snap = h.snapshot()
	require.Equal(t, []uint64{1, 1}, snap.buckets)
	require.Equal(t, uint64(2), snap.count)
	require.True(t, math.IsNaN(snap.sum))
}

func TestHistogram_SnapshotMergesGenerations(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{1, 2}))

	h.Observe(1)
	snap := h.snapshot()
	require.Equal(t, uint64(1), snap.count)
	require.Equal(t, 1.0, snap.sum)

	h.Observe(2)
	snap = h.snapshot()
	require.Equal(t, []uint64{1, 2}, snap.buckets, "earlier generation must survive the hot/cold swap")
	require.Equal(t, uint64(2), snap.count)
	require.Equal(t, 3.0, snap.sum)
}

func TestHistogram_ConcurrentObserve(t *testing.T) {
	const (
		goroutines   = 8
		observations = 1000
	)

	h := newHistogram(newBucketSchedule([]float64{1, 2, 5}))

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range observations {
				h.Observe(1)
			}
		}()
	}
	wg.Wait()

	snap := h.snapshot()
	require.Equal(t, uint64(goroutines*observations), snap.count)
	require.Equal(t, float64(goroutines*observations), snap.sum)
	require.Equal(t, uint64(goroutines*observations), snap.buckets[0])
}

// Every snapshot taken while observations are in flight must be internally
// consistent: with a constant observed value of 1.0, the sum always equals the
// count exactly in float64 arithmetic.
func TestHistogram_SnapshotNeverTorn(t *testing.T) {
	h := newHistogram(newBucketSchedule([]float64{1, 2}))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(4)
	for range 4 {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.Observe(1)
				}
			}
		}()
	}

	for range 200 {
		snap := h.snapshot()
		require.Equal(t, float64(snap.count), snap.sum, "count and sum must move together")
		require.Equal(t, snap.count, snap.buckets[0])
		require.Equal(t, snap.buckets[0], snap.buckets[1])
	}

	close(stop)
	wg.Wait()
}

func BenchmarkHistogramObserve(b *testing.B) {
	h := newHistogram(newBucketSchedule([]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Observe(0.042)
		}
	})
}
