package per

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/bitio"
	"asn1codec.dev/asn1/constraint"
)

// encodeCollectionOf is shared by EncodeSequenceOf/EncodeSetOf: each element
// is encoded into its own buffer (so fragmentation can be decided up front,
// symmetric with sequenceEncoder's field buffering), then spliced behind a
// general length determinant over the element count.
func (e *Encoder) encodeCollectionOf(n int, fn func(int, asn1.Encoder) error) error {
	if err := e.enter("SEQUENCE OF"); err != nil {
		return err
	}
	defer e.leave()

	elems := make([]*bitio.Writer, n)
	for i := 0; i < n; i++ {
		sub := bitio.NewWriter(8)
		if err := fn(i, e.child(sub)); err != nil {
			return err
		}
		elems[i] = sub
	}
	e.alignIfAligned()
	writeLength(e.w, e.aligned, n, func(off, size int) {
		for i := off; i < off+size; i++ {
			e.w.AppendWriter(elems[i])
		}
	})
	return nil
}

func (e *Encoder) EncodeSequenceOf(_ asn1.Tag, _ constraint.Set, n int, fn func(i int, sub asn1.Encoder) error) error {
	return e.encodeCollectionOf(n, fn)
}

func (e *Encoder) EncodeSetOf(_ asn1.Tag, _ constraint.Set, n int, fn func(i int, sub asn1.Encoder) error) error {
	return e.encodeCollectionOf(n, fn)
}

func (d *Decoder) decodeCollectionOf(fn func(int, asn1.Decoder) error) (int, error) {
	if err := d.enter("SEQUENCE OF"); err != nil {
		return 0, err
	}
	defer d.leave()

	if err := d.alignIfAligned(false); err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE OF", err)
	}
	i := 0
	n, err := readLength(d.r, d.aligned, func(size int) error {
		for j := 0; j < size; j++ {
			if err := fn(i, d); err != nil {
				return err
			}
			i++
		}
		return nil
	})
	if err != nil {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "SEQUENCE OF", err)
	}
	return n, nil
}

func (d *Decoder) DecodeSequenceOf(_ asn1.Tag, _ constraint.Set, fn func(i int, sub asn1.Decoder) error) (int, error) {
	return d.decodeCollectionOf(fn)
}

func (d *Decoder) DecodeSetOf(_ asn1.Tag, _ constraint.Set, fn func(i int, sub asn1.Decoder) error) (int, error) {
	return d.decodeCollectionOf(fn)
}
