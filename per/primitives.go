package per

import (
	"encoding/binary"
	"math"
	"math/big"
	"time"

	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/constraint"
	"asn1codec.dev/asn1/internal/numeric"
	"asn1codec.dev/asn1/internal/prim"
)

func (e *Encoder) EncodeBool(_ asn1.Tag, _ constraint.Set, v bool) error {
	bit := 0
	if v {
		bit = 1
	}
	e.w.AppendBit(bit)
	return nil
}

func (d *Decoder) DecodeBool(_ asn1.Tag, _ constraint.Set) (bool, error) {
	b, err := d.r.ReadBit()
	if err != nil {
		return false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BOOLEAN", err)
	}
	return b != 0, nil
}

// EncodeInteger implements the three forms of X.691 §10.5: fully
// constrained (fixed bit width), semi-constrained (lower bound only, general
// length determinant + minimal unsigned octets), and unconstrained (general
// length determinant + minimal two's-complement octets). An extensible
// constraint whose value falls outside the root range is written as a
// single marker bit followed by the unconstrained form, a simplification of
// the extension-marked semi-constrained fallback X.691 technically calls
// for - see DESIGN.md.
func (e *Encoder) EncodeInteger(_ asn1.Tag, c constraint.Set, v *big.Int) error {
	lower, hasLower, _, hasUpper := c.Value.Bounds()
	hasRange := hasLower && hasUpper
	if c.Value.Extensible && hasRange {
		inRoot := c.Value.Contains(v)
		bit := 0
		if !inRoot {
			bit = 1
		}
		e.w.AppendBit(bit)
		if !inRoot {
			e.encodeUnconstrainedWholeNumber(v)
			return nil
		}
	}
	switch {
	case hasRange:
		bits, _ := c.Value.WidthBits()
		offset := new(big.Int).Sub(v, lower)
		if !offset.IsUint64() {
			return asn1.Errorf(asn1.ErrKindUnsupported, e.Rule(), "INTEGER", "constrained range too wide for this implementation")
		}
		e.encodeConstrainedWholeNumber(bits, offset.Uint64())
	case hasLower:
		e.encodeSemiConstrainedWholeNumber(lower, v)
	default:
		e.encodeUnconstrainedWholeNumber(v)
	}
	return nil
}

func (d *Decoder) DecodeInteger(_ asn1.Tag, c constraint.Set) (*big.Int, error) {
	lower, hasLower, _, hasUpper := c.Value.Bounds()
	hasRange := hasLower && hasUpper
	if c.Value.Extensible && hasRange {
		bit, err := d.r.ReadBit()
		if err != nil {
			return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
		}
		if bit == 1 {
			return d.decodeUnconstrainedWholeNumber()
		}
	}
	switch {
	case hasRange:
		bits, _ := c.Value.WidthBits()
		off, err := d.decodeConstrainedWholeNumber(bits)
		if err != nil {
			return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
		}
		return new(big.Int).Add(lower, new(big.Int).SetUint64(off)), nil
	case hasLower:
		return d.decodeSemiConstrainedWholeNumber(lower)
	default:
		return d.decodeUnconstrainedWholeNumber()
	}
}

func (e *Encoder) EncodeEnumerated(_ asn1.Tag, _ constraint.Set, ordinal int, rootCount int, extensible bool) error {
	isExt := ordinal >= rootCount
	if extensible {
		bit := 0
		if isExt {
			bit = 1
		}
		e.w.AppendBit(bit)
	}
	if isExt {
		e.encodeNormallySmallNumber(ordinal - rootCount)
		return nil
	}
	e.encodeConstrainedWholeNumber(numeric.MinBits(rootCount-1), uint64(ordinal))
	return nil
}

func (d *Decoder) DecodeEnumerated(_ asn1.Tag, _ constraint.Set, rootCount int, extensible bool) (int, bool, error) {
	isExt := false
	if extensible {
		bit, err := d.r.ReadBit()
		if err != nil {
			return 0, false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ENUMERATED", err)
		}
		isExt = bit == 1
	}
	if isExt {
		n, err := d.decodeNormallySmallNumber()
		return rootCount + n, true, err
	}
	v, err := d.decodeConstrainedWholeNumber(numeric.MinBits(rootCount - 1))
	return int(v), false, err
}

func (e *Encoder) EncodeNull(_ asn1.Tag, _ constraint.Set) error { return nil }

func (d *Decoder) DecodeNull(_ asn1.Tag, _ constraint.Set) error { return nil }

// EncodeReal is a simplified binary passthrough (IEEE 754 double precision,
// length-determinant framed, zero encoded as an empty content octet string
// per X.690 §8.5.2) rather than the full X.691/X.690 REAL encoding with its
// base-2/base-10/special-value forms; see DESIGN.md.
func (e *Encoder) EncodeReal(_ asn1.Tag, _ constraint.Set, v float64) error {
	e.alignIfAligned()
	if v == 0 && !math.Signbit(v) {
		writeLength(e.w, e.aligned, 0, func(int, int) {})
		return nil
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	writeLength(e.w, e.aligned, len(b), func(off, size int) { e.w.AppendBytes(b[off : off+size]) })
	return nil
}

func (d *Decoder) DecodeReal(_ asn1.Tag, _ constraint.Set) (float64, error) {
	if err := d.alignIfAligned(false); err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "REAL", err)
	}
	var b []byte
	_, err := readLength(d.r, d.aligned, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		b = append(b, chunk...)
		return nil
	})
	if err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "REAL", err)
	}
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) != 8 {
		return 0, asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "REAL", "unexpected content length %d", len(b))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (e *Encoder) EncodeOctetString(_ asn1.Tag, _ constraint.Set, v []byte) error {
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(v), func(off, size int) { e.w.AppendBytes(v[off : off+size]) })
	return nil
}

func (d *Decoder) DecodeOctetString(_ asn1.Tag, _ constraint.Set) ([]byte, error) {
	if err := d.alignIfAligned(false); err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "OCTET STRING", err)
	}
	var out []byte
	_, err := readLength(d.r, d.aligned, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		out = append(out, chunk...)
		return nil
	})
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "OCTET STRING", err)
	}
	return out, nil
}

func (e *Encoder) EncodeBitString(_ asn1.Tag, _ constraint.Set, v asn1.BitString) error {
	e.alignIfAligned()
	writeLength(e.w, e.aligned, v.Len(), func(off, size int) {
		for i := off; i < off+size; i++ {
			e.w.AppendBit(v.At(i))
		}
	})
	return nil
}

func (d *Decoder) DecodeBitString(_ asn1.Tag, _ constraint.Set) (asn1.BitString, error) {
	if err := d.alignIfAligned(false); err != nil {
		return asn1.BitString{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BIT STRING", err)
	}
	var bits []int
	n, err := readLength(d.r, d.aligned, func(size int) error {
		for i := 0; i < size; i++ {
			b, err := d.r.ReadBit()
			if err != nil {
				return err
			}
			bits = append(bits, b)
		}
		return nil
	})
	if err != nil {
		return asn1.BitString{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BIT STRING", err)
	}
	out := make([]byte, (n+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return asn1.BitString{Bytes: out, BitLength: n}, nil
}

func (e *Encoder) EncodeObjectIdentifier(_ asn1.Tag, _ constraint.Set, v asn1.ObjectIdentifier) error {
	b, err := prim.EncodeOID([]uint(v))
	if err != nil {
		return asn1.NewError(asn1.ErrKindMalformed, e.Rule(), "OBJECT IDENTIFIER", err)
	}
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(b), func(off, size int) { e.w.AppendBytes(b[off : off+size]) })
	return nil
}

func (d *Decoder) DecodeObjectIdentifier(_ asn1.Tag, _ constraint.Set) (asn1.ObjectIdentifier, error) {
	b, err := d.readLengthPrefixedBytes()
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "OBJECT IDENTIFIER", err)
	}
	arcs, err := prim.DecodeOID(b)
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindMalformed, d.Rule(), "OBJECT IDENTIFIER", err)
	}
	return asn1.ObjectIdentifier(arcs), nil
}

func (e *Encoder) EncodeRelativeOID(_ asn1.Tag, _ constraint.Set, v asn1.RelativeOID) error {
	b, err := prim.RelativeEncodeOID([]uint(v))
	if err != nil {
		return asn1.NewError(asn1.ErrKindMalformed, e.Rule(), "RELATIVE-OID", err)
	}
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(b), func(off, size int) { e.w.AppendBytes(b[off : off+size]) })
	return nil
}

func (d *Decoder) DecodeRelativeOID(_ asn1.Tag, _ constraint.Set) (asn1.RelativeOID, error) {
	b, err := d.readLengthPrefixedBytes()
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "RELATIVE-OID", err)
	}
	arcs, err := prim.RelativeDecodeOID(b)
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindMalformed, d.Rule(), "RELATIVE-OID", err)
	}
	return asn1.RelativeOID(arcs), nil
}

// readLengthPrefixedBytes reads one general length determinant and its
// content octets, the common shape behind OID/RELATIVE-OID/time decoding.
func (d *Decoder) readLengthPrefixedBytes() ([]byte, error) {
	if err := d.alignIfAligned(false); err != nil {
		return nil, err
	}
	var out []byte
	_, err := readLength(d.r, d.aligned, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		out = append(out, chunk...)
		return nil
	})
	return out, err
}

// EncodeGeneralizedTime/EncodeUTCTime treat the time value as an octet
// string carrying the same character content BER would (X.691 §10.7
// "useful types... encoded as if declared OCTET STRING"), so they delegate
// directly to EncodeOctetString rather than duplicating its framing.
func (e *Encoder) EncodeGeneralizedTime(tag asn1.Tag, c constraint.Set, v time.Time) error {
	return e.EncodeOctetString(tag, c, []byte(prim.FormatGeneralizedTime(v)))
}

func (d *Decoder) DecodeGeneralizedTime(tag asn1.Tag, c constraint.Set) (time.Time, error) {
	b, err := d.DecodeOctetString(tag, c)
	if err != nil {
		return time.Time{}, err
	}
	t, err := prim.ParseGeneralizedTime(string(b))
	if err != nil {
		return time.Time{}, asn1.NewError(asn1.ErrKindMalformed, d.Rule(), "GeneralizedTime", err)
	}
	return t, nil
}

func (e *Encoder) EncodeUTCTime(tag asn1.Tag, c constraint.Set, v time.Time) error {
	return e.EncodeOctetString(tag, c, []byte(prim.FormatUTCTime(v)))
}

func (d *Decoder) DecodeUTCTime(tag asn1.Tag, c constraint.Set) (time.Time, error) {
	b, err := d.DecodeOctetString(tag, c)
	if err != nil {
		return time.Time{}, err
	}
	t, err := prim.ParseUTCTime(string(b))
	if err != nil {
		return time.Time{}, asn1.NewError(asn1.ErrKindMalformed, d.Rule(), "UTCTime", err)
	}
	return t, nil
}
