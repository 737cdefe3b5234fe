package per

import (
	"math/big"

	"asn1codec.dev/asn1/internal/numeric"
)

// encodeConstrainedWholeNumber writes offset (= v - lower, already
// non-negative and < 2^bits) using bits bits. Per X.691 §10.5.7, the aligned
// variant octet-aligns and widens to a whole number of octets once more than
// one value is possible; the unaligned variant always packs exactly bits
// bits with no padding.
func (e *Encoder) encodeConstrainedWholeNumber(bits int, offset uint64) {
	if bits == 0 {
		return
	}
	if e.aligned {
		e.w.AlignToByte()
		octets := (bits + 7) / 8
		e.w.AppendBits(offset, octets*8)
		return
	}
	e.w.AppendBits(offset, bits)
}

func (d *Decoder) decodeConstrainedWholeNumber(bits int) (uint64, error) {
	if bits == 0 {
		return 0, nil
	}
	if d.aligned {
		if err := d.r.AlignToByte(false); err != nil {
			return 0, err
		}
		octets := (bits + 7) / 8
		return d.r.ReadBits(octets * 8)
	}
	return d.r.ReadBits(bits)
}

// encodeSemiConstrainedWholeNumber encodes (v - lower) as a minimal unsigned
// octet string, preceded by a general length determinant (X.691 §10.6).
func (e *Encoder) encodeSemiConstrainedWholeNumber(lower, v *big.Int) {
	offset := new(big.Int).Sub(v, lower)
	b := numeric.AppendUnsigned(nil, offset, numeric.MinUnsignedBytes(offset))
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(b), func(off, size int) {
		e.w.AppendBytes(b[off : off+size])
	})
}

func (d *Decoder) decodeSemiConstrainedWholeNumber(lower *big.Int) (*big.Int, error) {
	if err := d.alignIfAligned(false); err != nil {
		return nil, err
	}
	var b []byte
	if _, err := readLength(d.r, d.aligned, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		b = append(b, chunk...)
		return nil
	}); err != nil {
		return nil, err
	}
	offset := numeric.ParseUnsigned(b)
	return new(big.Int).Add(lower, offset), nil
}

// encodeUnconstrainedWholeNumber encodes v as a minimal two's-complement
// octet string preceded by a general length determinant (X.691 §10.8), used
// for an INTEGER with no value constraint at all.
func (e *Encoder) encodeUnconstrainedWholeNumber(v *big.Int) {
	b := numeric.AppendSigned(nil, v, numeric.MinSignedBytes(v))
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(b), func(off, size int) {
		e.w.AppendBytes(b[off : off+size])
	})
}

func (d *Decoder) decodeUnconstrainedWholeNumber() (*big.Int, error) {
	if err := d.alignIfAligned(false); err != nil {
		return nil, err
	}
	var b []byte
	if _, err := readLength(d.r, d.aligned, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		b = append(b, chunk...)
		return nil
	}); err != nil {
		return nil, err
	}
	return numeric.ParseSigned(b), nil
}

// encodeNormallySmallNumber encodes a non-negative integer that is expected
// to usually be small (X.691 §10.6): values 0-63 pack into 7 bits (a leading
// 0 bit plus 6 value bits); larger values set the leading bit and fall back
// to a semi-constrained whole number with lower bound 0. Used for CHOICE/
// ENUMERATED extension indices and extension-addition counts.
func (e *Encoder) encodeNormallySmallNumber(v int) {
	if v <= 63 {
		e.w.AppendBit(0)
		e.w.AppendBits(uint64(v), 6)
		return
	}
	e.w.AppendBit(1)
	e.encodeSemiConstrainedWholeNumber(big.NewInt(0), big.NewInt(int64(v)))
}

func (d *Decoder) decodeNormallySmallNumber() (int, error) {
	b, err := d.r.ReadBit()
	if err != nil {
		return 0, err
	}
	if b == 0 {
		v, err := d.r.ReadBits(6)
		return int(v), err
	}
	n, err := d.decodeSemiConstrainedWholeNumber(big.NewInt(0))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
