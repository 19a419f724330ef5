package promhist

import "math"

// bucketSchedule is an immutable, ordered list of finite bucket upper bounds.
// One schedule is built per registration and shared by every histogram in the
// owning family. The +Inf bucket is implicit and never stored.
type bucketSchedule struct {
	upperBounds []float64
}

// newBucketSchedule copies bounds so later caller mutations cannot reach the
// schedule. A trailing explicit +Inf bound is dropped.
func newBucketSchedule(bounds []float64) *bucketSchedule {
	upperBounds := make([]float64, len(bounds))
	copy(upperBounds, bounds)
	if n := len(upperBounds); n > 0 && math.IsInf(upperBounds[n-1], +1) {
		upperBounds = upperBounds[:n-1]
	}
	return &bucketSchedule{upperBounds: upperBounds}
}

func (s *bucketSchedule) size() int { return len(s.upperBounds) }
