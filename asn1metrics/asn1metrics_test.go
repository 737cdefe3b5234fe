package asn1metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"asn1codec.dev/asn1"
)

func TestRecorder_ObserveEncode(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.ObserveEncode(asn1.RuleCOER, 10, nil)
	rec.ObserveEncode(asn1.RuleCOER, 20, errors.New("boom"))

	labels := prometheus.Labels{"rule": asn1.RuleCOER.String(), "op": "encode"}
	assert.Equal(t, float64(2), testutil.ToFloat64(rec.calls.With(labels)))
	assert.Equal(t, float64(30), testutil.ToFloat64(rec.bytes.With(labels)))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.errors.With(labels)))
}

func TestRecorder_ObserveDecode(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.ObserveDecode(asn1.RuleAlignedPER, 5, nil)

	labels := prometheus.Labels{"rule": asn1.RuleAlignedPER.String(), "op": "decode"}
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.calls.With(labels)))
	assert.Equal(t, float64(5), testutil.ToFloat64(rec.bytes.With(labels)))
	assert.Equal(t, float64(0), testutil.ToFloat64(rec.errors.With(labels)))
}

func TestNilRecorder_IsNoOp(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ObserveEncode(asn1.RuleBER, 1, nil)
		rec.ObserveDecode(asn1.RuleBER, 1, errors.New("x"))
	})
}

func TestRecorder_DistinctRegistriesDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRecorder(prometheus.NewRegistry())
		NewRecorder(prometheus.NewRegistry())
	})
}
