package oer

import (
	"asn1codec.dev/asn1"
)

// sequenceEncoder is the buffered [asn1.SequenceEncoder] for the OER
// backend. Root fields are buffered into their own byte slice as declared
// (nil for an absent OPTIONAL/DEFAULT field); extension additions are fully
// encoded and captured as open-type blob bytes immediately, mirroring the
// PER backend's [per.sequenceEncoder] design, which this is grounded on -
// OER's root preamble (extension bit + presence bits, packed into whole
// octets) and extension bitmap (framed as an OER BIT STRING, X.696 §16.3)
// still need every field's presence known up front.
type sequenceEncoder struct {
	outer *Encoder

	rootPresence []bool
	rootBufs     [][]byte

	extPresence []bool
	extBlobs    [][]byte
}

func (s *sequenceEncoder) EncodeField(fn func(asn1.Encoder) error) error {
	sub := s.outer.child()
	if err := fn(sub); err != nil {
		return err
	}
	s.rootBufs = append(s.rootBufs, sub.buf)
	return nil
}

func (s *sequenceEncoder) EncodeOptional(present bool, fn func(asn1.Encoder) error) error {
	s.rootPresence = append(s.rootPresence, present)
	if !present {
		s.rootBufs = append(s.rootBufs, nil)
		return nil
	}
	sub := s.outer.child()
	if err := fn(sub); err != nil {
		return err
	}
	s.rootBufs = append(s.rootBufs, sub.buf)
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
	sub := s.outer.child()
	if err := fn(sub); err != nil {
		return err
	}
	s.extBlobs = append(s.extBlobs, sub.buf)
	return nil
}

func (s *sequenceEncoder) EncodeExtensionAddition(present bool, fn func(asn1.Encoder) error) error {
	return s.encodeExtension(present, fn)
}

func (s *sequenceEncoder) EncodeExtensionAdditionGroup(present bool, fn func(asn1.Encoder) error) error {
	return s.encodeExtension(present, fn)
}

// packBits MSB-first packs bits into ceil(len(bits)/8) octets (X.696 §16.2's
// preamble packing, and the bitmap content of the extension bit-string).
func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func unpackBits(b []byte, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = b[i/8]&(1<<uint(7-i%8)) != 0
	}
	return out
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

	preambleBits := make([]bool, 0, len(se.rootPresence)+1)
	if extensible {
		preambleBits = append(preambleBits, extBit)
	}
	preambleBits = append(preambleBits, se.rootPresence...)
	if len(preambleBits) > 0 {
		e.write(packBits(preambleBits))
	}

	for _, b := range se.rootBufs {
		e.write(b)
	}

	if extensible && extBit {
		bitmap := packBits(se.extPresence)
		unused := len(bitmap)*8 - len(se.extPresence)
		e.buf = writeLength(e.buf, len(bitmap)+1)
		e.write([]byte{byte(unused)})
		e.write(bitmap)
		for i, blob := range se.extBlobs {
			if !se.extPresence[i] {
				continue
			}
			e.buf = writeLength(e.buf, len(blob))
			e.write(blob)
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

	total := optionalCount
	if extensible {
		total++
	}
	extBit := false
	presence := make([]bool, optionalCount)
	if total > 0 {
		b, err := d.readBytes((total + 7) / 8)
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		bits := unpackBits(b, total)
		idx := 0
		if extensible {
			extBit = bits[0]
			idx = 1
		}
		copy(presence, bits[idx:])
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

	bitmapLen, pos, err := readLength(d.buf, d.pos)
	if err != nil {
		return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
	}
	d.pos = pos
	if bitmapLen == 0 {
		return asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "SEQUENCE", "empty extension bitmap")
	}
	unused, err := d.readByte()
	if err != nil {
		return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
	}
	if unused > 7 {
		return asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "SEQUENCE", "extension bitmap has %d unused bits", unused)
	}
	bitmapBytes, err := d.readBytes(bitmapLen - 1)
	if err != nil {
		return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
	}
	count := len(bitmapBytes)*8 - int(unused)
	if count < 0 {
		return asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "SEQUENCE", "extension bitmap unused-bit count exceeds bitmap length")
	}
	extPresence := unpackBits(bitmapBytes, count)

	blobs := make([][]byte, count)
	for i, present := range extPresence {
		if !present {
			continue
		}
		n, npos, err := readLength(d.buf, d.pos)
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		d.pos = npos
		blob, err := d.readBytes(n)
		if err != nil {
			return asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE", err)
		}
		blobs[i] = blob
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
