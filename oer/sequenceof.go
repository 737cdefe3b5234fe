package oer

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/constraint"
)

// encodeCollectionOf is shared by EncodeSequenceOf/EncodeSetOf: each element
// is encoded into its own buffer, omitting the element-count determinant
// when size is fixed (X.696 §16.5), otherwise length-prefixing the
// concatenated element bytes with the element count.
func (e *Encoder) encodeCollectionOf(c constraint.Set, n int, fn func(int, asn1.Encoder) error) error {
	if err := e.enter("SEQUENCE OF"); err != nil {
		return err
	}
	defer e.leave()

	elems := make([][]byte, n)
	total := 0
	for i := 0; i < n; i++ {
		sub := e.child()
		if err := fn(i, sub); err != nil {
			return err
		}
		elems[i] = sub.buf
		total += len(sub.buf)
	}
	if fixedSize, ok := fixedSizeOf(c); !ok || fixedSize != n {
		e.buf = writeLength(e.buf, n)
	}
	for _, b := range elems {
		e.write(b)
	}
	return nil
}

func (e *Encoder) EncodeSequenceOf(_ asn1.Tag, c constraint.Set, n int, fn func(i int, sub asn1.Encoder) error) error {
	return e.encodeCollectionOf(c, n, fn)
}

func (e *Encoder) EncodeSetOf(_ asn1.Tag, c constraint.Set, n int, fn func(i int, sub asn1.Encoder) error) error {
	return e.encodeCollectionOf(c, n, fn)
}

func (d *Decoder) decodeCollectionOf(c constraint.Set, fn func(int, asn1.Decoder) error) (int, error) {
	if err := d.enter("SEQUENCE OF"); err != nil {
		return 0, err
	}
	defer d.leave()

	n, fixed := fixedSizeOf(c)
	if !fixed {
		var err error
		n, d.pos, err = readLength(d.buf, d.pos)
		if err != nil {
			return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE OF", err)
		}
	}
	for i := 0; i < n; i++ {
		if err := fn(i, d); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (d *Decoder) DecodeSequenceOf(_ asn1.Tag, c constraint.Set, fn func(i int, sub asn1.Decoder) error) (int, error) {
	return d.decodeCollectionOf(c, fn)
}

func (d *Decoder) DecodeSetOf(_ asn1.Tag, c constraint.Set, fn func(i int, sub asn1.Decoder) error) (int, error) {
	return d.decodeCollectionOf(c, fn)
}
