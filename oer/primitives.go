package oer

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

// EncodeBool writes a single octet: all-zero for false, all-one for true
// (X.696 §8.1). COER requires the canonical 0xFF; basic OER permits any
// non-zero octet for true, so this encoder always emits the canonical form
// since there is no reason for a fresh encoder to prefer otherwise.
func (e *Encoder) EncodeBool(_ asn1.Tag, _ constraint.Set, v bool) error {
	if v {
		e.write([]byte{0xFF})
	} else {
		e.write([]byte{0x00})
	}
	return nil
}

func (d *Decoder) DecodeBool(_ asn1.Tag, _ constraint.Set) (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BOOLEAN", err)
	}
	return b != 0, nil
}

// EncodeInteger implements X.696 §9: a value constrained to a fixed-width
// range (as determined by [numeric.FixedUnsignedWidth]/[FixedSignedWidth])
// is encoded in that many octets with no length determinant; semi-
// constrained and unconstrained values fall back to a length-determinant-
// framed minimal two's-complement (or unsigned, when a non-negative lower
// bound is known and no upper bound closes the range) octet string. A root-
// range miss on an extensible constraint is marked by a leading octet and
// falls back to the fully unconstrained form, ignoring the root lower bound
// - a simplification of X.696's extension handling, mirroring the PER
// backend's (see DESIGN.md).
func (e *Encoder) EncodeInteger(_ asn1.Tag, c constraint.Set, v *big.Int) error {
	lower, hasLower, upper, hasUpper := c.Value.Bounds()
	hasRange := hasLower && hasUpper
	if hasRange && c.Value.Extensible {
		inRoot := c.Value.Contains(v)
		if !inRoot {
			e.write([]byte{0x80})
			return e.encodeVariableWidthInteger(nil, false, v)
		}
		e.write([]byte{0x00})
	}
	switch {
	case hasRange:
		if w, ok := fixedWidthFor(lower, upper); ok {
			return e.encodeFixedWidthInteger(lower, v, w)
		}
		return e.encodeVariableWidthInteger(lower, hasLower, v)
	default:
		return e.encodeVariableWidthInteger(lower, hasLower, v)
	}
}

func (d *Decoder) DecodeInteger(_ asn1.Tag, c constraint.Set) (*big.Int, error) {
	lower, hasLower, upper, hasUpper := c.Value.Bounds()
	hasRange := hasLower && hasUpper
	if hasRange && c.Value.Extensible {
		marker, err := d.readByte()
		if err != nil {
			return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
		}
		if marker != 0x00 {
			return d.decodeVariableWidthInteger(nil, false)
		}
	}
	switch {
	case hasRange:
		if w, ok := fixedWidthFor(lower, upper); ok {
			return d.decodeFixedWidthInteger(lower, w)
		}
		return d.decodeVariableWidthInteger(lower, hasLower)
	default:
		return d.decodeVariableWidthInteger(lower, hasLower)
	}
}

// fixedWidthFor picks the OER fixed integer width for a closed range,
// choosing the unsigned form when lower is non-negative.
func fixedWidthFor(lower, upper *big.Int) (numeric.FixedWidth, bool) {
	if lower.Sign() >= 0 {
		return numeric.FixedUnsignedWidth(upper)
	}
	return numeric.FixedSignedWidth(lower, upper)
}

func (e *Encoder) encodeFixedWidthInteger(lower, v *big.Int, w numeric.FixedWidth) error {
	if lower.Sign() >= 0 {
		e.write(numeric.AppendUnsigned(nil, v, int(w)))
		return nil
	}
	e.write(numeric.AppendSigned(nil, v, int(w)))
	return nil
}

func (d *Decoder) decodeFixedWidthInteger(lower *big.Int, w numeric.FixedWidth) (*big.Int, error) {
	b, err := d.readBytes(int(w))
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
	}
	if lower.Sign() >= 0 {
		return numeric.ParseUnsigned(b), nil
	}
	return numeric.ParseSigned(b), nil
}

// encodeVariableWidthInteger encodes v as a length-determinant-framed
// minimal octet string: unsigned (offset from lower) if a non-negative
// lower bound is known, otherwise two's-complement.
func (e *Encoder) encodeVariableWidthInteger(lower *big.Int, hasLower bool, v *big.Int) error {
	if hasLower && lower.Sign() >= 0 {
		off := new(big.Int).Sub(v, lower)
		b := numeric.AppendUnsigned(nil, off, numeric.MinUnsignedBytes(off))
		e.buf = writeLength(e.buf, len(b))
		e.write(b)
		return nil
	}
	b := numeric.AppendSigned(nil, v, numeric.MinSignedBytes(v))
	e.buf = writeLength(e.buf, len(b))
	e.write(b)
	return nil
}

func (d *Decoder) decodeVariableWidthInteger(lower *big.Int, hasLower bool) (*big.Int, error) {
	n, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
	}
	d.pos = pos
	b, err := d.readBytes(n)
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "INTEGER", err)
	}
	if hasLower && lower.Sign() >= 0 {
		return new(big.Int).Add(lower, numeric.ParseUnsigned(b)), nil
	}
	return numeric.ParseSigned(b), nil
}

// EncodeEnumerated encodes the ordinal exactly like a semi-constrained,
// non-negative INTEGER with lower bound 0 (X.696 §11): a single length-
// determinant-framed minimal unsigned octet string, preceded by a marker
// octet (0x00/0x80) when the type is extensible.
func (e *Encoder) EncodeEnumerated(_ asn1.Tag, _ constraint.Set, ordinal int, rootCount int, extensible bool) error {
	isExt := ordinal >= rootCount
	if extensible {
		if isExt {
			e.write([]byte{0x80})
		} else {
			e.write([]byte{0x00})
		}
	}
	n := big.NewInt(int64(ordinal))
	if isExt {
		n = big.NewInt(int64(ordinal - rootCount))
	}
	b := numeric.AppendUnsigned(nil, n, numeric.MinUnsignedBytes(n))
	e.buf = writeLength(e.buf, len(b))
	e.write(b)
	return nil
}

func (d *Decoder) DecodeEnumerated(_ asn1.Tag, _ constraint.Set, rootCount int, extensible bool) (int, bool, error) {
	isExt := false
	if extensible {
		marker, err := d.readByte()
		if err != nil {
			return 0, false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ENUMERATED", err)
		}
		isExt = marker != 0x00
	}
	n, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return 0, false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ENUMERATED", err)
	}
	d.pos = pos
	b, err := d.readBytes(n)
	if err != nil {
		return 0, false, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ENUMERATED", err)
	}
	ordinal := int(numeric.ParseUnsigned(b).Int64())
	if isExt {
		return rootCount + ordinal, true, nil
	}
	return ordinal, false, nil
}

func (e *Encoder) EncodeNull(_ asn1.Tag, _ constraint.Set) error { return nil }

func (d *Decoder) DecodeNull(_ asn1.Tag, _ constraint.Set) error { return nil }

// EncodeReal mirrors the PER backend's simplified IEEE 754 double passthrough
// (see DESIGN.md): a length-determinant-framed big-endian float64, with zero
// encoded as an empty content string.
func (e *Encoder) EncodeReal(_ asn1.Tag, _ constraint.Set, v float64) error {
	if v == 0 && !math.Signbit(v) {
		e.buf = writeLength(e.buf, 0)
		return nil
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	e.buf = writeLength(e.buf, len(b))
	e.write(b)
	return nil
}

func (d *Decoder) DecodeReal(_ asn1.Tag, _ constraint.Set) (float64, error) {
	n, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "REAL", err)
	}
	d.pos = pos
	if n == 0 {
		return 0, nil
	}
	b, err := d.readBytes(n)
	if err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "REAL", err)
	}
	if len(b) != 8 {
		return 0, asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "REAL", "unexpected content length %d", len(b))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (e *Encoder) EncodeOctetString(_ asn1.Tag, c constraint.Set, v []byte) error {
	if fixedSize, ok := fixedSizeOf(c); ok && fixedSize == len(v) {
		e.write(v)
		return nil
	}
	e.buf = writeLength(e.buf, len(v))
	e.write(v)
	return nil
}

func (d *Decoder) DecodeOctetString(_ asn1.Tag, c constraint.Set) ([]byte, error) {
	if fixedSize, ok := fixedSizeOf(c); ok {
		b, err := d.readBytes(fixedSize)
		if err != nil {
			return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "OCTET STRING", err)
		}
		return append([]byte(nil), b...), nil
	}
	b, err := d.readLengthPrefixedBytes()
	if err != nil {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "OCTET STRING", err)
	}
	return b, nil
}

// fixedSizeOf reports whether c's size constraint pins the value to exactly
// one length, the case OER omits the length determinant for entirely
// (X.696 §9.2 "a fixed-size string type").
func fixedSizeOf(c constraint.Set) (int, bool) {
	if c.Size.Extensible {
		return 0, false
	}
	n, ok := c.Size.Fixed()
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// EncodeBitString writes the unused-bit count in one octet followed by the
// packed content octets, length-determinant framed (X.696 §10).
func (e *Encoder) EncodeBitString(_ asn1.Tag, _ constraint.Set, v asn1.BitString) error {
	unused := 0
	if v.BitLength%8 != 0 {
		unused = 8 - v.BitLength%8
	}
	content := v.RightAlign()
	e.buf = writeLength(e.buf, len(content)+1)
	e.write([]byte{byte(unused)})
	e.write(content)
	return nil
}

func (d *Decoder) DecodeBitString(_ asn1.Tag, _ constraint.Set) (asn1.BitString, error) {
	n, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return asn1.BitString{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BIT STRING", err)
	}
	d.pos = pos
	if n == 0 {
		return asn1.BitString{}, asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "BIT STRING", "missing unused-bit count octet")
	}
	unused, err := d.readByte()
	if err != nil {
		return asn1.BitString{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BIT STRING", err)
	}
	if unused > 7 {
		return asn1.BitString{}, asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "BIT STRING", "unused-bit count %d exceeds 7", unused)
	}
	content, err := d.readBytes(n - 1)
	if err != nil {
		return asn1.BitString{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "BIT STRING", err)
	}
	if len(content) == 0 && unused != 0 {
		return asn1.BitString{}, asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "BIT STRING", "unused-bit count must be 0 for an empty BIT STRING")
	}
	bitLen := len(content)*8 - int(unused)
	return asn1.BitString{Bytes: append([]byte(nil), content...), BitLength: bitLen}, nil
}

func (e *Encoder) EncodeObjectIdentifier(_ asn1.Tag, _ constraint.Set, v asn1.ObjectIdentifier) error {
	b, err := prim.EncodeOID([]uint(v))
	if err != nil {
		return asn1.NewError(asn1.ErrKindMalformed, e.Rule(), "OBJECT IDENTIFIER", err)
	}
	e.buf = writeLength(e.buf, len(b))
	e.write(b)
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
	e.buf = writeLength(e.buf, len(b))
	e.write(b)
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

// readLengthPrefixedBytes reads one length determinant and its content
// octets, the common shape behind OID/RELATIVE-OID/time/variable-size
// string decoding.
func (d *Decoder) readLengthPrefixedBytes() ([]byte, error) {
	n, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return nil, err
	}
	d.pos = pos
	return d.readBytes(n)
}

// EncodeGeneralizedTime/EncodeUTCTime delegate to EncodeOctetString, the
// same "useful type is an OCTET STRING" treatment the PER backend uses
// (X.696 gives the useful types no special-cased binary form either).
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
