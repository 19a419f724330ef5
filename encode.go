package promhist

import (
	"io"
	"strconv"
	"strings"

	"github.com/ygrebnov/errorc"
)

var (
	labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	helpEscaper       = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
)

// formatBound renders a bucket upper bound in the shortest form that
// round-trips float64 (1, 0.25, 1e+06).
func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'g', -1, 64)
}

// formatSampleValue renders a float sample value. Integral finite values get
// an explicit trailing ".0" so a sum is always recognizably a float.
func formatSampleValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// textEncoder writes histogram families in the text exposition format.
// The first write error sticks; later writes become no-ops.
type textEncoder struct {
	w   io.Writer
	err error
}

func (e *textEncoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// encodeFamily emits one metric: the HELP/TYPE preamble, then per label-set
// the cumulative buckets, the +Inf bucket, the sum, and the count.
func (e *textEncoder) encodeFamily(name, help string, f *histogramFamily) error {
	e.writeString("# HELP ")
	e.writeString(name)
	e.writeString(" ")
	e.writeString(helpEscaper.Replace(help))
	e.writeString("\n# TYPE ")
	e.writeString(name)
	e.writeString(" histogram\n")

	for _, entry := range f.entries() {
		snap := entry.histogram.snapshot()
		for i, bound := range f.schedule.upperBounds {
			e.writeSample(name, "_bucket", entry.labels, formatBound(bound), strconv.FormatUint(snap.buckets[i], 10))
		}
		e.writeSample(name, "_bucket", entry.labels, "+Inf", strconv.FormatUint(snap.count, 10))
		e.writeSample(name, "_sum", entry.labels, "", formatSampleValue(snap.sum))
		e.writeSample(name, "_count", entry.labels, "", strconv.FormatUint(snap.count, 10))
	}

	if e.err != nil {
		return errorc.With(ErrEncode, errorc.String("cause", e.err.Error()))
	}
	return nil
}

// writeSample emits one sample line. A non-empty le is appended as the last
// label; the brace set is omitted entirely only when there are no labels at
// all.
func (e *textEncoder) writeSample(name, suffix string, labels []Label, le, value string) {
	e.writeString(name)
	e.writeString(suffix)
	if len(labels) > 0 || le != "" {
		e.writeString("{")
		for i, l := range labels {
			if i > 0 {
				e.writeString(",")
			}
			e.writeString(l.Name)
			e.writeString(`="`)
			e.writeString(labelValueEscaper.Replace(l.Value))
			e.writeString(`"`)
		}
		if le != "" {
			if len(labels) > 0 {
				e.writeString(",")
			}
			e.writeString(`le="`)
			e.writeString(le)
			e.writeString(`"`)
		}
		e.writeString("}")
	}
	e.writeString(" ")
	e.writeString(value)
	e.writeString("\n")
}
