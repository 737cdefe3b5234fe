package per

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/constraint"
)

func TestPlanFragments(t *testing.T) {
	assert.Equal(t, []lengthFragment{{Size: 5, Final: true}}, planFragments(5))
	assert.Equal(t, []lengthFragment{{Size: 16384, Final: false}, {Size: 0, Final: true}}, planFragments(16384))
	assert.Equal(t, []lengthFragment{{Size: 65536, Final: false}, {Size: 10, Final: true}}, planFragments(65546))
}

func TestEncodeDecodeBool_RoundTrip(t *testing.T) {
	for _, aligned := range []bool{false, true} {
		e := NewEncoder(aligned)
		require.NoError(t, e.EncodeBool(asn1.TagBoolean, constraint.None, true))
		require.NoError(t, e.EncodeBool(asn1.TagBoolean, constraint.None, false))
		d := NewDecoder(aligned, e.Bytes())
		v1, err := d.DecodeBool(asn1.TagBoolean, constraint.None)
		require.NoError(t, err)
		assert.True(t, v1)
		v2, err := d.DecodeBool(asn1.TagBoolean, constraint.None)
		require.NoError(t, err)
		assert.False(t, v2)
	}
}

func TestEncodeDecodeInteger_Constrained(t *testing.T) {
	c := constraint.Set{Value: constraint.NewValue(0, 255)}
	e := NewEncoder(false)
	require.NoError(t, e.EncodeInteger(asn1.TagInteger, c, big.NewInt(200)))
	assert.Equal(t, 1, len(e.Bytes()))

	d := NewDecoder(false, e.Bytes())
	v, err := d.DecodeInteger(asn1.TagInteger, c)
	require.NoError(t, err)
	assert.Equal(t, int64(200), v.Int64())
}

func TestEncodeDecodeInteger_SemiConstrained(t *testing.T) {
	c := constraint.Set{Value: constraint.Value{Lower: big.NewInt(0)}}
	e := NewEncoder(false)
	require.NoError(t, e.EncodeInteger(asn1.TagInteger, c, big.NewInt(70000)))
	d := NewDecoder(false, e.Bytes())
	v, err := d.DecodeInteger(asn1.TagInteger, c)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), v.Int64())
}

func TestEncodeDecodeInteger_Unconstrained(t *testing.T) {
	e := NewEncoder(true)
	require.NoError(t, e.EncodeInteger(asn1.TagInteger, constraint.None, big.NewInt(-12345)))
	d := NewDecoder(true, e.Bytes())
	v, err := d.DecodeInteger(asn1.TagInteger, constraint.None)
	require.NoError(t, err)
	assert.Equal(t, int64(-12345), v.Int64())
}

func TestEncodeDecodeOctetString_RoundTrip(t *testing.T) {
	for _, aligned := range []bool{false, true} {
		e := NewEncoder(aligned)
		want := []byte("hello, world")
		require.NoError(t, e.EncodeOctetString(asn1.TagOctetString, constraint.None, want))
		d := NewDecoder(aligned, e.Bytes())
		got, err := d.DecodeOctetString(asn1.TagOctetString, constraint.None)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncodeDecodeBitString_RoundTrip(t *testing.T) {
	want := asn1.BitString{Bytes: []byte{0b10110000}, BitLength: 4}
	e := NewEncoder(false)
	require.NoError(t, e.EncodeBitString(asn1.TagBitString, constraint.None, want))
	d := NewDecoder(false, e.Bytes())
	got, err := d.DecodeBitString(asn1.TagBitString, constraint.None)
	require.NoError(t, err)
	assert.Equal(t, want.BitLength, got.BitLength)
	assert.Equal(t, want.RightAlign(), got.RightAlign())
}

func TestEncodeDecodeIA5String_RoundTrip(t *testing.T) {
	e := NewEncoder(false)
	require.NoError(t, e.EncodeIA5String(asn1.TagIA5String, constraint.None, "abc123"))
	d := NewDecoder(false, e.Bytes())
	got, err := d.DecodeIA5String(asn1.TagIA5String, constraint.None)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestEncodeDecodeObjectIdentifier_RoundTrip(t *testing.T) {
	want := asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	e := NewEncoder(false)
	require.NoError(t, e.EncodeObjectIdentifier(asn1.TagOID, constraint.None, want))
	d := NewDecoder(false, e.Bytes())
	got, err := d.DecodeObjectIdentifier(asn1.TagOID, constraint.None)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestEncodeDecodeEnumerated_RootAndExtension(t *testing.T) {
	e := NewEncoder(false)
	require.NoError(t, e.EncodeEnumerated(asn1.TagEnumerated, constraint.None, 1, 3, true))
	require.NoError(t, e.EncodeEnumerated(asn1.TagEnumerated, constraint.None, 3, 3, true))
	d := NewDecoder(false, e.Bytes())
	ord, ext, err := d.DecodeEnumerated(asn1.TagEnumerated, constraint.None, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 1, ord)
	assert.False(t, ext)
	ord, ext, err = d.DecodeEnumerated(asn1.TagEnumerated, constraint.None, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 3, ord)
	assert.True(t, ext)
}

func TestEncodeDecodeSequence_OptionalField(t *testing.T) {
	e := NewEncoder(false)
	err := e.EncodeSequence(asn1.TagSequence, false, func(se asn1.SequenceEncoder) error {
		if err := se.EncodeField(func(enc asn1.Encoder) error {
			return enc.EncodeInteger(asn1.TagInteger, constraint.NewValue(0, 15), big.NewInt(5))
		}); err != nil {
			return err
		}
		return se.EncodeOptional(true, func(enc asn1.Encoder) error {
			return enc.EncodeBool(asn1.TagBoolean, constraint.None, true)
		})
	})
	require.NoError(t, err)

	d := NewDecoder(false, e.Bytes())
	var a int64
	var bPresent, bVal bool
	err = d.DecodeSequence(asn1.TagSequence, false, 1, func(presence []bool, sub asn1.Decoder) error {
		v, err := sub.DecodeInteger(asn1.TagInteger, constraint.NewValue(0, 15))
		if err != nil {
			return err
		}
		a = v.Int64()
		bPresent = presence[0]
		if bPresent {
			bVal, err = sub.DecodeBool(asn1.TagBoolean, constraint.None)
			if err != nil {
				return err
			}
		}
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a)
	assert.True(t, bPresent)
	assert.True(t, bVal)
}

func TestEncodeDecodeChoice_RootAndExtension(t *testing.T) {
	e := NewEncoder(false)
	err := e.EncodeChoice(asn1.TagSequence, asn1.TagInteger, true, 0, 2, false, func(enc asn1.Encoder) error {
		return enc.EncodeInteger(asn1.TagInteger, constraint.None, big.NewInt(7))
	})
	require.NoError(t, err)

	d := NewDecoder(false, e.Bytes())
	idx, isExt, run, err := d.DecodeChoice(asn1.TagSequence, nil, true, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.False(t, isExt)
	var got int64
	err = run(d, func(sub asn1.Decoder) error {
		v, err := sub.DecodeInteger(asn1.TagInteger, constraint.None)
		if err != nil {
			return err
		}
		got = v.Int64()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestEncodeDecodeSequenceOf_RoundTrip(t *testing.T) {
	values := []int64{1, 2, 3, 4}
	e := NewEncoder(false)
	err := e.EncodeSequenceOf(asn1.TagSequence, constraint.None, len(values), func(i int, sub asn1.Encoder) error {
		return sub.EncodeInteger(asn1.TagInteger, constraint.None, big.NewInt(values[i]))
	})
	require.NoError(t, err)

	d := NewDecoder(false, e.Bytes())
	var got []int64
	n, err := d.DecodeSequenceOf(asn1.TagSequence, constraint.None, func(i int, sub asn1.Decoder) error {
		v, err := sub.DecodeInteger(asn1.TagInteger, constraint.None)
		if err != nil {
			return err
		}
		got = append(got, v.Int64())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, len(values), n)
	assert.Equal(t, values, got)
}

func TestEncodeDecodeRawValue_RoundTrip(t *testing.T) {
	e := NewEncoder(false)
	require.NoError(t, e.EncodeRawValue(asn1.TagInteger, asn1.RawValue{Bytes: []byte{1, 2, 3}}))
	d := NewDecoder(false, e.Bytes())
	got, err := d.DecodeRawValue(asn1.TagInteger)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got.Bytes)
}

// TestSpecScenarioS1_PersonUPER pins the UPER wire bytes for
// Person ::= SEQUENCE { age INTEGER (0..120), name UTF8String } with
// age=42, name="Alice": the root preamble is empty, age packs into 7 bits
// (121 values), and name's length determinant and UTF-8 bytes follow with
// no byte padding anywhere, since unaligned mode never pads. Regrouping the
// bit stream (0101010 00000101 01000001 01101100 01101001 01100011 01100101,
// 55 bits padded to 56) into octets gives 54 0a 82 d8 d2 c6 ca.
func TestSpecScenarioS1_PersonUPER(t *testing.T) {
	e := NewEncoder(false)
	err := e.EncodeSequence(asn1.TagSequence, false, func(se asn1.SequenceEncoder) error {
		if err := se.EncodeField(func(enc asn1.Encoder) error {
			return enc.EncodeInteger(asn1.TagInteger, constraint.NewValue(0, 120), big.NewInt(42))
		}); err != nil {
			return err
		}
		return se.EncodeField(func(enc asn1.Encoder) error {
			return enc.EncodeUTF8String(asn1.TagUTF8String, constraint.None, "Alice")
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x54, 0x0a, 0x82, 0xd8, 0xd2, 0xc6, 0xca}, e.Bytes())

	d := NewDecoder(false, e.Bytes())
	var age int64
	var name string
	err = d.DecodeSequence(asn1.TagSequence, false, 0, func(_ []bool, sub asn1.Decoder) error {
		v, err := sub.DecodeInteger(asn1.TagInteger, constraint.NewValue(0, 120))
		if err != nil {
			return err
		}
		age = v.Int64()
		name, err = sub.DecodeUTF8String(asn1.TagUTF8String, constraint.None)
		return err
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), age)
	assert.Equal(t, "Alice", name)
}

// TestSpecScenarioS2_ExtensibleEnumerated pins the UPER wire bytes for an
// extensible Color ::= ENUMERATED { red, green, blue, ..., yellow }. A root
// value (green, ordinal 1 of 3) costs an extensibility bit plus a 2-bit
// constrained index; an extension value (yellow) costs the extensibility
// bit plus a normally-small-number relative index.
func TestSpecScenarioS2_ExtensibleEnumerated(t *testing.T) {
	eGreen := NewEncoder(false)
	require.NoError(t, eGreen.EncodeEnumerated(asn1.TagEnumerated, constraint.None, 1, 3, true))
	assert.Equal(t, []byte{0x20}, eGreen.Bytes())

	eYellow := NewEncoder(false)
	require.NoError(t, eYellow.EncodeEnumerated(asn1.TagEnumerated, constraint.None, 3, 3, true))
	assert.Equal(t, []byte{0x80}, eYellow.Bytes())
}

// TestSpecScenarioS6_FragmentedOctetString pins the APER wire bytes for a
// 16384-byte OCTET STRING: the general length determinant fragments at
// exactly one 16384-byte chunk (marker 0xC0|1), followed by the chunk
// itself and a terminating zero-length determinant.
func TestSpecScenarioS6_FragmentedOctetString(t *testing.T) {
	v := make([]byte, 16384)
	e := NewEncoder(true)
	require.NoError(t, e.EncodeOctetString(asn1.TagOctetString, constraint.None, v))
	got := e.Bytes()
	require.Equal(t, 1+16384+1, len(got))
	assert.Equal(t, byte(0xC1), got[0])
	assert.Equal(t, v, got[1:1+16384])
	assert.Equal(t, byte(0x00), got[len(got)-1])

	d := NewDecoder(true, got)
	out, err := d.DecodeOctetString(asn1.TagOctetString, constraint.None)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}
