package promhist

import (
	"strings"

	"github.com/rs/zerolog"
)

// Detach runs fn with the host's cooperative execution token released. Hosts
// with a global interpreter lock install a hook that drops the lock, runs fn
// to completion, and reacquires the lock. The default hook runs fn inline.
type Detach func(fn func())

// Facade exposes the registry operations a host-language binding invokes.
// Methods are safe for concurrent use from any host thread.
type Facade struct {
	registry *Registry
	detach   Detach
	log      *zerolog.Logger
}

// FacadeOption configures a Facade.
type FacadeOption func(*Facade)

// WithDetach installs the host lock-release hook used around encoding.
// A nil hook restores the inline default.
func WithDetach(d Detach) FacadeOption {
	return func(f *Facade) {
		if d == nil {
			d = func(fn func()) { fn() }
		}
		f.detach = d
	}
}

// WithLogger overrides the diagnostic logger for this facade's events.
// Without it, facade events go to the module stream configured by
// InitDiagnostics.
func WithLogger(logger zerolog.Logger) FacadeOption {
	return func(f *Facade) {
		f.log = &logger
	}
}

// NewFacade wraps registry with the host boundary operations.
func NewFacade(registry *Registry, opts ...FacadeOption) *Facade {
	f := &Facade{
		registry: registry,
		detach:   func(fn func()) { fn() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// logger returns the per-facade override, or the module stream.
func (f *Facade) logger() *zerolog.Logger {
	if f.log != nil {
		return f.log
	}
	return diag()
}

// AddHistogram registers a histogram family under name.
func (f *Facade) AddHistogram(name, help string, buckets []float64) error {
	if err := f.registry.AddHistogram(name, help, buckets); err != nil {
		f.logger().Warn().Err(err).Str("name", name).Msg("histogram registration rejected")
		return err
	}
	return nil
}

// ObserveHistogram records value on the histogram selected by name and the
// ordered label sequence. Label order is preserved as supplied.
func (f *Facade) ObserveHistogram(name string, labels []Label, value float64) error {
	if err := f.registry.Observe(name, labels, value); err != nil {
		// Only the error path logs; successful observation stays hot.
		f.logger().Warn().Err(err).Str("name", name).Msg("observation rejected")
		return err
	}
	return nil
}

// ListHistograms returns the registered metric names in unspecified order.
func (f *Facade) ListHistograms() []string {
	return f.registry.Names()
}

// Encode renders the registry in the text exposition format. The compute
// phase runs inside the detach hook, so a host can keep scheduling other
// threads (including ones observing) while encoding.
func (f *Facade) Encode() (string, error) {
	var (
		buf strings.Builder
		err error
	)
	f.detach(func() {
		err = f.registry.Encode(&buf)
	})
	if err != nil {
		return "", err
	}
	f.logger().Trace().Int("bytes", buf.Len()).Msg("registry encoded for host")
	return buf.String(), nil
}
