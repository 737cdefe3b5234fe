package per

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/bitio"
)

// sequenceEncoder is the buffered [asn1.SequenceEncoder] returned to the
// closure passed to [Encoder.EncodeSequence]/[Encoder.EncodeSet]. Root
// fields are buffered into their own [bitio.Writer] as declared (nil for an
// absent OPTIONAL/DEFAULT field); extension additions are fully encoded,
// octet-aligned, and captured as open-type blob bytes immediately, since an
// extension addition's wire representation never depends on anything
// written after it. The outer [Encoder] assembles preamble, root fields, and
// extension blobs once the closure returns.
type sequenceEncoder struct {
	outer *Encoder

	rootPresence []bool
	rootBufs     []*bitio.Writer

	extPresence []bool
	extBlobs    [][]byte
}

func (s *sequenceEncoder) EncodeField(fn func(asn1.Encoder) error) error {
	sub := bitio.NewWriter(8)
	if err := fn(s.outer.child(sub)); err != nil {
		return err
	}
	s.rootBufs = append(s.rootBufs, sub)
	return nil
}

func (s *sequenceEncoder) EncodeOptional(present bool, fn func(asn1.Encoder) error) error {
	s.rootPresence = append(s.rootPresence, present)
	if !present {
		s.rootBufs = append(s.rootBufs, nil)
		return nil
	}
	sub := bitio.NewWriter(8)
	if err := fn(s.outer.child(sub)); err != nil {
		return err
	}
	s.rootBufs = append(s.rootBufs, sub)
	return nil
}

func (s *sequenceEncoder) EncodeDefault(isDefaultValue bool, fn func(asn1.Encoder) error) error {
	return s.EncodeOptional(!isDefaultValue, fn)
}

func (s *sequenceEncoder) encodeExtension(present bool, fn func(asn1.Encoder) error) error {
	s.extPresence = append(s.extPresence, present)
	if !present {
		s.extBlobs = append(s.extBlobs, nil)
		return nil
	}
	sub := bitio.NewWriter(8)
	if err := fn(s.outer.child(sub)); err != nil {
		return err
	}
	sub.AlignToByte()
	s.extBlobs = append(s.extBlobs, sub.Bytes())
	return nil
}

func (s *sequenceEncoder) EncodeExtensionAddition(present bool, fn func(asn1.Encoder) error) error {
	return s.encodeExtension(present, fn)
}

func (s *sequenceEncoder) EncodeExtensionAdditionGroup(present bool, fn func(asn1.Encoder) error) error {
	return s.encodeExtension(present, fn)
}

func (e *Encoder) encodeSequenceLike(extensible bool, fn func(asn1.SequenceEncoder) error) error {
	if err := e.enter("SEQUENCE"); err != nil {
		return err
	}
	defer e.leave()

	se := &sequenceEncoder{outer: e}
	if err := fn(se); err != nil {
		return err
	}

	extBit := false
	for _, p := range se.extPresence {
		if p {
			extBit = true
			break
		}
	}
	if extensible {
		bit := 0
		if extBit {
			bit = 1
		}
		e.w.AppendBit(bit)
	}
	for _, p := range se.rootPresence {
		bit := 0
		if p {
			bit = 1
		}
		e.w.AppendBit(bit)
	}
	for _, buf := range se.rootBufs {
		if buf != nil {
			e.w.AppendWriter(buf)
		}
	}
	if extensible && extBit {
		e.encodeNormallySmallNumber(len(se.extPresence) - 1)
		for _, p := range se.extPresence {
			bit := 0
			if p {
				bit = 1
			}
			e.w.AppendBit(bit)
		}
		for i, blob := range se.extBlobs {
			if !se.extPresence[i] {
				continue
			}
			e.w.AlignToByte()
			writeLength(e.w, true, len(blob), func(off, size int) { e.w.AppendBytes(blob[off : off+size]) })
		}
	}
	return nil
}

func (e *Encoder) EncodeSequence(_ asn1.Tag, extensible bool, fn func(asn1.SequenceEncoder) error) error {
	return e.encodeSequenceLike(extensible, fn)
}

func (e *Encoder) EncodeSet(_ asn1.Tag, extensible bool, fn func(asn1.SequenceEncoder) error) error {
	return e.encodeSequenceLike(extensible, fn)
}

// extensionReader implements [asn1.ExtensionReader] over extension blobs
// already read off the wire by decodeSequenceLike.
type extensionReader struct {
	presence []bool
	blobs    [][]byte
}

func (r *extensionReader) Len() int { return len(r.presence) }

func (r *extensionReader) Blob(i int) ([]byte, bool) {
	if i < 0 || i >= len(r.presence) || !r.presence[i] {
		return nil, false
	}
	return r.blobs[i], true
}

func (d *Decoder) decodeSequenceLike(
	extensible bool, optionalCount int,
	fn func(presence []bool, sub asn1.Decoder) error,
	extFn func(presence []bool, ext asn1.ExtensionReader) error,
) error {
	if err := d.enter("SEQUENCE"); err != nil {
		return err
	}
	defer d.leave()

	extBit := false
	if extensible {
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		extBit = b == 1
	}

	presence := make([]bool, optionalCount)
	for i := range presence {
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		presence[i] = b == 1
	}
	if err := fn(presence, d); err != nil {
		return err
	}

	if !extensible || extFn == nil {
		return nil
	}
	if !extBit {
		return extFn(nil, &extensionReader{})
	}

	n, err := d.decodeNormallySmallNumber()
	if err != nil {
		return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
	}
	count := n + 1
	extPresence := make([]bool, count)
	for i := range extPresence {
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		extPresence[i] = b == 1
	}
	blobs := make([][]byte, count)
	for i, present := range extPresence {
		if !present {
			continue
		}
		if err := d.r.AlignToByte(false); err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		var b []byte
		if _, err := readLength(d.r, true, func(size int) error {
			chunk, err := d.r.ReadBytes(size)
			if err != nil {
				return err
			}
			b = append(b, chunk...)
			return nil
		}); err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		blobs[i] = b
	}
	return extFn(extPresence, &extensionReader{presence: extPresence, blobs: blobs})
}

func (d *Decoder) DecodeSequence(_ asn1.Tag, extensible bool, optionalCount int,
	fn func(presence []bool, sub asn1.Decoder) error,
	extFn func(presence []bool, ext asn1.ExtensionReader) error,
) error {
	return d.decodeSequenceLike(extensible, optionalCount, fn, extFn)
}

func (d *Decoder) DecodeSet(_ asn1.Tag, extensible bool, optionalCount int,
	fn func(presence []bool, sub asn1.Decoder) error,
	extFn func(presence []bool, ext asn1.ExtensionReader) error,
) error {
	return d.decodeSequenceLike(extensible, optionalCount, fn, extFn)
}
