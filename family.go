package promhist

import (
	"strconv"
	"strings"
	"sync"
)

// Label is a single (name, value) pair. Families key histograms by the ordered
// label sequence exactly as supplied: pairs are not sorted or deduplicated, so
// differently ordered sequences of the same pairs address distinct histograms.
// Callers that want identity across orderings canonicalize before observing.
type Label struct {
	Name  string
	Value string
}

// labelKey builds the canonical map key for an ordered label sequence.
// Length prefixes keep the encoding unambiguous for arbitrary values.
func labelKey(labels []Label) string {
	var b strings.Builder
	for _, l := range labels {
		b.WriteString(strconv.Itoa(len(l.Name)))
		b.WriteByte(':')
		b.WriteString(l.Name)
		b.WriteString(strconv.Itoa(len(l.Value)))
		b.WriteByte(':')
		b.WriteString(l.Value)
	}
	return b.String()
}

// familyEntry pairs a histogram with the label sequence it was created under.
type familyEntry struct {
	labels    []Label
	histogram *histogram
}

// histogramFamily maps label sequences to histograms sharing one bucket
// schedule. The family grows monotonically; entries are never removed.
type histogramFamily struct {
	schedule *bucketSchedule

	// histograms is keyed by labelKey. Loads on the observation hot path are
	// lock-free.
	histograms sync.Map // string -> *histogram

	// mu guards ordered, the insertion-ordered entry list used for encoding.
	mu      sync.RWMutex
	ordered []familyEntry
}

func newHistogramFamily(schedule *bucketSchedule) *histogramFamily {
	return &histogramFamily{schedule: schedule}
}

// getOrCreate returns the histogram for labels, creating it on first use.
// Concurrent creators for the same key agree on a single winning instance;
// at most one histogram is ever built per key, so no observation can land on
// a discarded instance.
func (f *histogramFamily) getOrCreate(labels []Label) *histogram {
	key := labelKey(labels)
	if h, ok := f.histograms.Load(key); ok {
		return h.(*histogram)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Re-check under the lock: another goroutine may have created it already.
	if h, ok := f.histograms.Load(key); ok {
		return h.(*histogram)
	}
	h := newHistogram(f.schedule)
	// Copy the labels: the caller may reuse its slice.
	owned := make([]Label, len(labels))
	copy(owned, labels)
	f.ordered = append(f.ordered, familyEntry{labels: owned, histogram: h})
	f.histograms.Store(key, h)
	return h
}

// entries returns the family's histograms in creation order. The key-set is
// consistent at call time; values read from the returned histograms may be
// newer than the key-set.
func (f *histogramFamily) entries() []familyEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]familyEntry, len(f.ordered))
	copy(out, f.ordered)
	return out
}
