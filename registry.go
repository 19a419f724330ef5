package promhist

import (
	"io"
	"sync"
	"time"

	"github.com/ygrebnov/errorc"
)

// Registry is an ordered catalog of histogram families keyed by metric name.
// Names are unique; insertion order is preserved and is the emission order of
// Encode output. Methods are safe for concurrent use. A Registry is long-lived
// and never removes entries.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*histogramFamily
	help     map[string]string
	order    []string

	// encodeMtx serializes Encode calls against each other only; observations
	// are never blocked by an in-flight encode.
	encodeMtx sync.Mutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]*histogramFamily),
		help:     make(map[string]string),
	}
}

// String implements fmt.Stringer for host-side debugging.
func (r *Registry) String() string { return "Registry()" }

// AddHistogram registers a histogram family under name with the given help
// text and bucket upper bounds. It returns ErrDuplicateName if name is already
// registered; the duplicate check happens before the schedule copy, so a
// failed call allocates nothing that outlives it.
func (r *Registry) AddHistogram(name, help string, buckets []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.families[name]; ok {
		return errorc.With(ErrDuplicateName, errorc.String("name", name))
	}
	r.families[name] = newHistogramFamily(newBucketSchedule(buckets))
	r.help[name] = help
	r.order = append(r.order, name)
	diag().Debug().Str("name", name).Int("buckets", len(buckets)).Msg("histogram registered")
	return nil
}

// Observe records value on the histogram selected by name and the ordered
// label sequence, creating the histogram on first use. It returns
// ErrUnknownMetric if name is not registered; the label key is only built
// after the name resolves.
func (r *Registry) Observe(name string, labels []Label, value float64) error {
	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()
	if !ok {
		return errorc.With(ErrUnknownMetric, errorc.String("name", name))
	}
	f.getOrCreate(labels).Observe(value)
	return nil
}

// Names returns the registered metric names in unspecified order. Callers
// that need determinism sort the result.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	return names
}

// metricView is the per-name slice of the catalog captured before encoding.
type metricView struct {
	name   string
	help   string
	family *histogramFamily
}

// Encode writes the registry's metrics to w in the text exposition format,
// in registration order. Concurrent Encode calls are serialized; concurrent
// observations proceed untouched and may or may not be reflected. A sink
// failure is returned as ErrEncode.
func (r *Registry) Encode(w io.Writer) error {
	r.encodeMtx.Lock()
	defer r.encodeMtx.Unlock()

	r.mu.RLock()
	views := make([]metricView, 0, len(r.order))
	for _, name := range r.order {
		views = append(views, metricView{name: name, help: r.help[name], family: r.families[name]})
	}
	r.mu.RUnlock()

	start := time.Now()
	enc := textEncoder{w: w}
	for _, v := range views {
		if err := enc.encodeFamily(v.name, v.help, v.family); err != nil {
			return err
		}
	}
	diag().Trace().Int("metrics", len(views)).Dur("elapsed", time.Since(start)).Msg("registry encoded")
	return nil
}
