package per

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/constraint"
	"asn1codec.dev/asn1/internal/numeric"
	"asn1codec.dev/asn1/internal/prim"
)

// naturalBitsFor returns the fixed per-character bit width a restricted
// string kind uses when it has no PermittedAlphabet constraint narrowing it.
// UniversalString's 32-bit fixed width is handled here directly since
// [prim.NaturalWidthBits] only covers the kinds with an 8/16-bit natural
// width; UTF8String has no fixed per-character width at all (it is always
// encoded as its UTF-8 byte form) and is special-cased by callers before
// reaching this function.
func naturalBitsFor(kind prim.StringKind) int {
	if kind == prim.KindUniversal {
		return 32
	}
	if bits, ok := prim.NaturalWidthBits(kind); ok {
		return bits
	}
	return 32
}

// encodeRestrictedString implements X.691 §10.7/§27: characters are packed
// at ceil(log2(cardinality)) bits each over the permitted-alphabet
// constraint or, without one, over the kind's natural alphabet from
// [prim.NaturalAlphabet]; only a kind with no natural alphabet
// (UniversalString) falls back to its natural bit width. A general length
// determinant goes ahead of the (possibly fragmented) character run. UTF8String ignores alphabet/width entirely and is framed exactly like
// an OCTET STRING over its UTF-8 byte form.
func (e *Encoder) encodeRestrictedString(kind prim.StringKind, c constraint.Set, v string) error {
	if kind == prim.KindUTF8 {
		return e.EncodeOctetString(asn1.TagUTF8String, constraint.None, []byte(v))
	}
	runes := []rune(v)
	alphabet := c.Alphabet
	if alphabet.Unconstrained() {
		alphabet = prim.NaturalAlphabet(kind)
	}
	bits := naturalBitsFor(kind)
	if !alphabet.Unconstrained() {
		bits = numeric.MinBits(alphabet.Cardinality() - 1)
	}
	e.alignIfAligned()
	writeLength(e.w, e.aligned, len(runes), func(off, size int) {
		for _, r := range runes[off : off+size] {
			idx, ok := alphabet.Index(r)
			if !ok {
				idx = int(r)
			}
			e.w.AppendBits(uint64(idx), bits)
		}
	})
	return nil
}

func (d *Decoder) decodeRestrictedString(kind prim.StringKind, c constraint.Set) (string, error) {
	if kind == prim.KindUTF8 {
		b, err := d.DecodeOctetString(asn1.TagUTF8String, constraint.None)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	alphabet := c.Alphabet
	if alphabet.Unconstrained() {
		alphabet = prim.NaturalAlphabet(kind)
	}
	bits := naturalBitsFor(kind)
	if !alphabet.Unconstrained() {
		bits = numeric.MinBits(alphabet.Cardinality() - 1)
	}
	if err := d.alignIfAligned(false); err != nil {
		return "", asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "restricted string", err)
	}
	var runes []rune
	_, err := readLength(d.r, d.aligned, func(size int) error {
		for i := 0; i < size; i++ {
			idx, err := d.r.ReadBits(bits)
			if err != nil {
				return err
			}
			r, ok := alphabet.Rune(int(idx))
			if !ok {
				return asn1.Errorf(asn1.ErrKindConstraint, d.Rule(), "restricted string", "character index %d outside permitted alphabet", idx)
			}
			runes = append(runes, r)
		}
		return nil
	})
	if err != nil {
		return "", asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "restricted string", err)
	}
	return string(runes), nil
}

func (e *Encoder) EncodeUTF8String(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindUTF8, c, v)
}
func (d *Decoder) DecodeUTF8String(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindUTF8, c)
}

func (e *Encoder) EncodeVisibleString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindVisible, c, v)
}
func (d *Decoder) DecodeVisibleString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindVisible, c)
}

func (e *Encoder) EncodeIA5String(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindIA5, c, v)
}
func (d *Decoder) DecodeIA5String(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindIA5, c)
}

func (e *Encoder) EncodePrintableString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindPrintable, c, v)
}
func (d *Decoder) DecodePrintableString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindPrintable, c)
}

func (e *Encoder) EncodeNumericString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindNumeric, c, v)
}
func (d *Decoder) DecodeNumericString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindNumeric, c)
}

func (e *Encoder) EncodeTeletexString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindTeletex, c, v)
}
func (d *Decoder) DecodeTeletexString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindTeletex, c)
}

func (e *Encoder) EncodeGeneralString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindGeneral, c, v)
}
func (d *Decoder) DecodeGeneralString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindGeneral, c)
}

func (e *Encoder) EncodeGraphicString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindGraphic, c, v)
}
func (d *Decoder) DecodeGraphicString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindGraphic, c)
}

func (e *Encoder) EncodeBMPString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindBMP, c, v)
}
func (d *Decoder) DecodeBMPString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindBMP, c)
}

func (e *Encoder) EncodeUniversalString(tag asn1.Tag, c constraint.Set, v string) error {
	return e.encodeRestrictedString(prim.KindUniversal, c, v)
}
func (d *Decoder) DecodeUniversalString(tag asn1.Tag, c constraint.Set) (string, error) {
	return d.decodeRestrictedString(prim.KindUniversal, c)
}
