package codec

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/asn1metrics"
	"asn1codec.dev/asn1/constraint"
)

// testInt is a minimal INTEGER wrapper satisfying asn1.Encode/asn1.Decode,
// used to exercise the codec dispatch without pulling in a full generated
// type.
type testInt struct {
	V int64
}

func (testInt) Tag() asn1.Tag               { return asn1.TagInteger }
func (testInt) TagTree() asn1.TagTree       { return asn1.Leaf(asn1.TagInteger) }
func (testInt) Constraints() constraint.Set { return constraint.None }
func (testInt) Identifier() string          { return "testInt" }

func (t testInt) EncodeWithTagAndConstraints(enc asn1.Encoder, tag asn1.Tag, c constraint.Set, _ string) error {
	return enc.EncodeInteger(tag, c, big.NewInt(t.V))
}

func (t *testInt) DecodeWithTagAndConstraints(dec asn1.Decoder, tag asn1.Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeInteger(tag, c)
	if err != nil {
		return err
	}
	t.V = v.Int64()
	return nil
}

func TestEncodeDecode_UnalignedPER_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	b, err := Encode(cfg, asn1.RuleUnalignedPER, testInt{V: 42})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleUnalignedPER, b, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.V)
}

func TestEncodeDecode_AlignedPER_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	b, err := Encode(cfg, asn1.RuleAlignedPER, testInt{V: -7})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleAlignedPER, b, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), got.V)
}

func TestEncodeDecode_OER_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	b, err := Encode(cfg, asn1.RuleOER, testInt{V: 1000})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleOER, b, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.V)
}

func TestEncodeDecode_COER_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	b, err := Encode(cfg, asn1.RuleCOER, testInt{V: -99})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleCOER, b, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(-99), got.V)
}

func TestDecode_RejectsTrailingBytesByDefault(t *testing.T) {
	cfg := NewConfig()
	b, err := Encode(cfg, asn1.RuleCOER, testInt{V: 5})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleCOER, append(b, 0xFF), &got)
	assert.Error(t, err)
}

func TestDecode_AllowsTrailingBytesWithRemainderOption(t *testing.T) {
	cfg := NewConfig(WithRemainder(true))
	b, err := Encode(cfg, asn1.RuleCOER, testInt{V: 5})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleCOER, append(b, 0xFF), &got)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.V)
}

func TestEncodeDecode_WithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := asn1metrics.NewRecorder(reg)
	cfg := NewConfig(WithMetrics(rec))

	b, err := Encode(cfg, asn1.RuleOER, testInt{V: 3})
	require.NoError(t, err)

	var got testInt
	err = Decode(cfg, asn1.RuleOER, b, &got)
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

type berPair struct {
	A int
	B string
}

func TestEncodeDecode_BER_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	want := berPair{A: 7, B: "hello"}
	b, err := Encode(cfg, asn1.RuleBER, want)
	require.NoError(t, err)

	var got berPair
	err = Decode(cfg, asn1.RuleBER, b, &got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecode_BER_AlwaysRejectsTrailingBytesRegardlessOfConfig(t *testing.T) {
	cfg := NewConfig(WithRemainder(true))
	b, err := Encode(cfg, asn1.RuleBER, berPair{A: 1, B: "x"})
	require.NoError(t, err)

	var got berPair
	err = Decode(cfg, asn1.RuleBER, append(b, 0x00), &got)
	assert.Error(t, err)
}

func TestEncodeBatch_DecodeBatch(t *testing.T) {
	cfg := NewConfig()
	values := []testInt{{V: 1}, {V: 2}, {V: 3}, {V: 4}}

	bufs, err := EncodeBatch(cfg, asn1.RuleCOER, values)
	require.NoError(t, err)
	require.Len(t, bufs, len(values))

	got, err := DecodeBatch[testInt](cfg, asn1.RuleCOER, bufs)
	require.NoError(t, err)
	require.Len(t, got, len(values))
	for i, v := range values {
		assert.Equal(t, v.V, got[i].V)
	}
}
