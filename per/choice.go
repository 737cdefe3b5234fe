package per

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/bitio"
	"asn1codec.dev/asn1/internal/numeric"
)

// EncodeChoice implements X.691 §23: a root alternative's index is a
// constrained whole number over [0, rootCount-1] and its value follows
// inline with no further framing; an extension alternative is prefixed by
// the extension marker bit, a normally-small-number relative index, and is
// itself wrapped as an octet-aligned, length-prefixed open type so readers
// that do not know the alternative can still skip over it. The variant's own
// tag plays no part in PER discrimination, so it is accepted but ignored.
func (e *Encoder) EncodeChoice(_, _ asn1.Tag, extensible bool, variantIndex int, rootCount int, isExtension bool, fn func(asn1.Encoder) error) error {
	if err := e.enter("CHOICE"); err != nil {
		return err
	}
	defer e.leave()

	if extensible {
		bit := 0
		if isExtension {
			bit = 1
		}
		e.w.AppendBit(bit)
	}
	if isExtension {
		e.encodeNormallySmallNumber(variantIndex - rootCount)
		sub := bitio.NewWriter(8)
		if err := fn(e.child(sub)); err != nil {
			return err
		}
		sub.AlignToByte()
		blob := sub.Bytes()
		e.w.AlignToByte()
		writeLength(e.w, true, len(blob), func(off, size int) { e.w.AppendBytes(blob[off : off+size]) })
		return nil
	}
	e.encodeConstrainedWholeNumber(numeric.MinBits(rootCount-1), uint64(variantIndex))
	return fn(e)
}

// DecodeChoice reads the discriminator and, for an extension alternative,
// the open-type wrapper, returning a runner that dispatches the caller's
// body function against the right sub-decoder (the outer decoder itself for
// a root alternative, a fresh decoder over the unwrapped bytes for an
// extension one).
func (d *Decoder) DecodeChoice(_ asn1.Tag, _ []asn1.Tag, extensible bool, rootCount int) (int, bool, func(sub asn1.Decoder, body func(asn1.Decoder) error) error, error) {
	if err := d.enter("CHOICE"); err != nil {
		return 0, false, nil, err
	}

	isExt := false
	if extensible {
		b, err := d.r.ReadBit()
		if err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		isExt = b == 1
	}

	if isExt {
		n, err := d.decodeNormallySmallNumber()
		if err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		idx := rootCount + n
		if err := d.r.AlignToByte(false); err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		var blob []byte
		if _, err := readLength(d.r, true, func(size int) error {
			chunk, err := d.r.ReadBytes(size)
			if err != nil {
				return err
			}
			blob = append(blob, chunk...)
			return nil
		}); err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		bodyDec := NewDecoder(d.aligned, blob)
		bodyDec.depth, bodyDec.maxDepth = d.depth, d.maxDepth
		runner := func(_ asn1.Decoder, body func(asn1.Decoder) error) error {
			defer d.leave()
			return body(bodyDec)
		}
		return idx, true, runner, nil
	}

	v, err := d.decodeConstrainedWholeNumber(numeric.MinBits(rootCount - 1))
	if err != nil {
		d.leave()
		return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
	}
	runner := func(_ asn1.Decoder, body func(asn1.Decoder) error) error {
		defer d.leave()
		return body(d)
	}
	return int(v), false, runner, nil
}
