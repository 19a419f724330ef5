// Package promhist provides a small, concurrency-safe in-process metrics
// registry for labeled histograms, with output in the Prometheus text
// exposition format.
//
// Model
//   - Registry: an ordered catalog mapping a unique metric name to its help
//     text and histogram family. Insertion order is the emission order of
//     Encode output.
//   - Family: the set of histograms sharing a name and bucket schedule, keyed
//     by an ordered label sequence. Label pairs are used exactly as supplied:
//     they are not sorted or deduplicated, so differently ordered sequences of
//     the same pairs address distinct histograms. Entries are created on first
//     observation and never removed.
//   - Histogram: cumulative bucket counters, sum, and count. Observation is
//     infallible and lock-free; values above the last bucket bound (and NaN)
//     land only in the implicit +Inf bucket.
//
// Concurrency
// Any operation may be called from any goroutine. Observations are wait-free
// after the first observation of a label-set. Encoding serializes against
// itself but never blocks observations; each emitted histogram reflects a
// consistent set of complete observations (no torn values), while distinct
// histograms may reflect slightly different instants.
//
// Host boundary
// Facade exposes the four operations a host-language binding invokes:
// AddHistogram, ObserveHistogram, ListHistograms, and Encode. Hosts with a
// cooperative execution token (such as an interpreter lock) install a Detach
// hook so the token is released for the duration of the encode computation.
//
// Diagnostics
// InitDiagnostics configures a module-scoped zerolog stream once per process.
// Accepted severity levels are "trace", "debug", "info", "warn", and "error";
// anything else is a programming error reported as ErrInvalidLevel.
package promhist
