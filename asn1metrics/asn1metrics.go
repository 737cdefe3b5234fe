// Package asn1metrics provides optional Prometheus instrumentation for the
// codec engine: encode/decode call counts, byte counts, and error counts,
// labelled by [asn1.CodecRule]. Registered via promauto the same way
// quay-claircore's datastore/postgres package registers its query counters,
// except scoped to a caller-supplied [prometheus.Registerer] via
// promauto.With rather than the global registry, so constructing more than
// one [Recorder] in a process (tests, multiple codec.Config instances) never
// panics on duplicate registration.
package asn1metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"asn1codec.dev/asn1"
)

// Recorder is the metrics sink threaded through codec.Config.Metrics. A nil
// *Recorder is always safe to call methods on - every method is a no-op in
// that case - so callers never need a nil check before invoking it.
type Recorder struct {
	calls  *prometheus.CounterVec
	bytes  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewRecorder builds a Recorder registering its collectors against reg. Pass
// [prometheus.DefaultRegisterer] for process-global metrics, or a fresh
// [prometheus.NewRegistry] for test isolation.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	labels := []string{"rule", "op"}
	return &Recorder{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asn1codec",
			Subsystem: "codec",
			Name:      "calls_total",
			Help:      "Encode/decode calls, by rule and operation.",
		}, labels),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asn1codec",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes produced (encode) or consumed (decode), by rule and operation.",
		}, labels),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asn1codec",
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Encode/decode failures, by rule and operation.",
		}, labels),
	}
}

// ObserveEncode records one Encode call for rule: n bytes produced, err (if
// any).
func (r *Recorder) ObserveEncode(rule asn1.CodecRule, n int, err error) {
	r.observe(rule, "encode", n, err)
}

// ObserveDecode records one Decode call for rule: n bytes consumed, err (if
// any).
func (r *Recorder) ObserveDecode(rule asn1.CodecRule, n int, err error) {
	r.observe(rule, "decode", n, err)
}

func (r *Recorder) observe(rule asn1.CodecRule, op string, n int, err error) {
	if r == nil {
		return
	}
	labels := prometheus.Labels{"rule": rule.String(), "op": op}
	r.calls.With(labels).Inc()
	r.bytes.With(labels).Add(float64(n))
	if err != nil {
		r.errors.With(labels).Inc()
	}
}
