package oer

import (
	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/constraint"
	"asn1codec.dev/asn1/internal/prim"
)

// octetsPerChar returns the fixed per-character octet width X.696 §12
// assigns a known-multiplier character string kind: 1 for the single-byte
// kinds, 2 for BMPString, 4 for UniversalString. UTF8String has no fixed
// per-character width and is handled separately by callers. Unlike the PER
// backend, OER never compresses characters to a PermittedAlphabet's bit
// width - it is octet-oriented and X.696 does not define such a form.
func octetsPerChar(kind prim.StringKind) int {
	switch kind {
	case prim.KindBMP:
		return 2
	case prim.KindUniversal:
		return 4
	default:
		return 1
	}
}

// encodeRestrictedString frames a restricted character string as a length-
// determinant-prefixed run of fixed-width big-endian code units (X.696
// §12), or, for UTF8String, as its raw UTF-8 byte form via the OCTET STRING
// path.
func (e *Encoder) encodeRestrictedString(kind prim.StringKind, c constraint.Set, v string) error {
	if kind == prim.KindUTF8 {
		return e.EncodeOctetString(asn1.TagUTF8String, constraint.None, []byte(v))
	}
	runes := []rune(v)
	width := octetsPerChar(kind)
	content := make([]byte, len(runes)*width)
	for i, r := range runes {
		n := uint32(r)
		for j := width - 1; j >= 0; j-- {
			content[i*width+j] = byte(n)
			n >>= 8
		}
	}
	if fixedSize, ok := fixedSizeOf(c); ok && fixedSize == len(runes) {
		e.write(content)
		return nil
	}
	e.buf = writeLength(e.buf, len(content))
	e.write(content)
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
	width := octetsPerChar(kind)
	var content []byte
	if fixedSize, ok := fixedSizeOf(c); ok {
		b, err := d.readBytes(fixedSize * width)
		if err != nil {
			return "", asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "restricted string", err)
		}
		content = b
	} else {
		b, err := d.readLengthPrefixedBytes()
		if err != nil {
			return "", asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "restricted string", err)
		}
		content = b
	}
	if len(content)%width != 0 {
		return "", asn1.Errorf(asn1.ErrKindMalformed, d.Rule(), "restricted string", "content length %d not a multiple of character width %d", len(content), width)
	}
	runes := make([]rune, len(content)/width)
	for i := range runes {
		var n uint32
		for j := 0; j < width; j++ {
			n = n<<8 | uint32(content[i*width+j])
		}
		runes[i] = rune(n)
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
