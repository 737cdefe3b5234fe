package asn1

import (
	"unicode/utf8"

	"asn1codec.dev/asn1/constraint"
	"asn1codec.dev/asn1/internal/prim"
)

//region [UNIVERSAL 12] UTF8String

// UTF8String represents the ASN.1 UTF8String type. It can only hold valid
// UTF-8 values. UTF8String is also the default type for standard Go strings.
//
// See also section 41 of Rec. ITU-T X.680.
type UTF8String string

// IsValid reports whether s is a valid UTF-8 string.
func (s UTF8String) IsValid() bool {
	return utf8.ValidString(string(s))
}

func (UTF8String) Tag() Tag { return TagUTF8String }

func (UTF8String) TagTree() TagTree { return Leaf(TagUTF8String) }

func (UTF8String) Constraints() constraint.Set { return constraint.None }

func (UTF8String) Identifier() string { return "UTF8String" }

func (s UTF8String) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeUTF8String(tag, c, string(s))
}

func (s *UTF8String) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeUTF8String(tag, c)
	if err != nil {
		return err
	}
	*s = UTF8String(v)
	return nil
}

//endregion

//region [UNIVERSAL 18] NumericString

// NumericString corresponds to the ASN.1 NumericString type. A
// NumericString can only consist of the digits 0-9 and space. Note that it
// is possible to create NumericString values in Go that violate this
// constraint; use the IsValid method to check whether a string's contents
// are numeric.
//
// See also section 41 of Rec. ITU-T X.680.
type NumericString string

// IsValid reports whether s consists only of allowed numeric characters.
func (s NumericString) IsValid() bool {
	alphabet := prim.NaturalAlphabet(prim.KindNumeric)
	for _, r := range s {
		if !alphabet.Contains(r) {
			return false
		}
	}
	return true
}

func (NumericString) Tag() Tag { return TagNumericString }

func (NumericString) TagTree() TagTree { return Leaf(TagNumericString) }

func (NumericString) Constraints() constraint.Set { return constraint.None }

func (NumericString) Identifier() string { return "NumericString" }

func (s NumericString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeNumericString(tag, c, string(s))
}

func (s *NumericString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeNumericString(tag, c)
	if err != nil {
		return err
	}
	*s = NumericString(v)
	return nil
}

//endregion

//region [UNIVERSAL 19] PrintableString

// PrintableString represents the ASN.1 type PrintableString. A printable
// string can only contain the following ASCII characters:
//
//	A-Z	// upper case letters
//	a-z	// lower case letters
//	0-9	// digits
//	 	// space
//	'	// apostrophe
//	()	// Parenthesis
//	+-/	// plus, hyphen, solidus
//	.,:	// fill stop, comma, colon
//	=	// equals sign
//	?	// question mark
//
// See also section 41 of Rec. ITU-T X.680.
type PrintableString string

// IsValid reports whether s consists only of printable characters.
func (s PrintableString) IsValid() bool {
	alphabet := prim.NaturalAlphabet(prim.KindPrintable)
	for _, r := range s {
		if !alphabet.Contains(r) {
			return false
		}
	}
	return true
}

func (PrintableString) Tag() Tag { return TagPrintableString }

func (PrintableString) TagTree() TagTree { return Leaf(TagPrintableString) }

func (PrintableString) Constraints() constraint.Set { return constraint.None }

func (PrintableString) Identifier() string { return "PrintableString" }

func (s PrintableString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodePrintableString(tag, c, string(s))
}

func (s *PrintableString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodePrintableString(tag, c)
	if err != nil {
		return err
	}
	*s = PrintableString(v)
	return nil
}

//endregion

//region [UNIVERSAL 20] TeletexString (T61String)

// TeletexString represents the corresponding ASN.1 type. Its repertoire is
// treated as the single-octet Latin-1 subset needed by existing
// certificate/directory data; full T.61 escape-sequence decoding is beyond
// this implementation's scope, matching how VideotexString is left
// unimplemented below.
//
// See also section 41 of Rec. ITU-T X.680.
type TeletexString string

func (TeletexString) Tag() Tag { return TagTeletexString }

func (TeletexString) TagTree() TagTree { return Leaf(TagTeletexString) }

func (TeletexString) Constraints() constraint.Set { return constraint.None }

func (TeletexString) Identifier() string { return "TeletexString" }

func (s TeletexString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeTeletexString(tag, c, string(s))
}

func (s *TeletexString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeTeletexString(tag, c)
	if err != nil {
		return err
	}
	*s = TeletexString(v)
	return nil
}

//endregion

//region [UNIVERSAL 21] VideotexString
// This type is currently not implemented. Correctly decoding a VideotexString
// is probably outside the scope of this package.
//endregion

//region [UNIVERSAL 22] IA5String

// IA5String represents the ASN.1 type IA5String. An IA5String must consist
// of ASCII characters only. Note that it is possible to create IA5String
// values in Go that violate this constraint; use the IsValid method to
// check whether a string's contents are ASCII only.
//
// See also section 41 of Rec. ITU-T X.680.
type IA5String string

// IsValid reports whether the contents of s consist only of ASCII characters.
func (s IA5String) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (IA5String) Tag() Tag { return TagIA5String }

func (IA5String) TagTree() TagTree { return Leaf(TagIA5String) }

func (IA5String) Constraints() constraint.Set { return constraint.None }

func (IA5String) Identifier() string { return "IA5String" }

func (s IA5String) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeIA5String(tag, c, string(s))
}

func (s *IA5String) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeIA5String(tag, c)
	if err != nil {
		return err
	}
	*s = IA5String(v)
	return nil
}

//endregion

//region [UNIVERSAL 25] GraphicString

// GraphicString represents the corresponding ASN.1 type, treated as an
// 8-bit-per-character string (the G and C character sets registered for
// GraphicString are not individually validated).
//
// See also section 41 of Rec. ITU-T X.680.
type GraphicString string

func (GraphicString) Tag() Tag { return TagGraphicString }

func (GraphicString) TagTree() TagTree { return Leaf(TagGraphicString) }

func (GraphicString) Constraints() constraint.Set { return constraint.None }

func (GraphicString) Identifier() string { return "GraphicString" }

func (s GraphicString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeGraphicString(tag, c, string(s))
}

func (s *GraphicString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeGraphicString(tag, c)
	if err != nil {
		return err
	}
	*s = GraphicString(v)
	return nil
}

//endregion

//region [UNIVERSAL 26] VisibleString

// VisibleString represents the corresponding ASN.1 type. It is limited to
// visible ASCII characters; in particular this does not include ASCII
// control characters. Note that it is possible to create VisibleString
// values in Go that violate this constraint. Use the IsValid method to
// check whether a string's contents are visible ASCII only.
//
// See also section 41 of Rec. ITU-T X.680.
type VisibleString string

// IsValid reports whether s only consists of visible ASCII characters.
func (s VisibleString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] >= 0x7F {
			return false
		}
	}
	return true
}

func (VisibleString) Tag() Tag { return TagVisibleString }

func (VisibleString) TagTree() TagTree { return Leaf(TagVisibleString) }

func (VisibleString) Constraints() constraint.Set { return constraint.None }

func (VisibleString) Identifier() string { return "VisibleString" }

func (s VisibleString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeVisibleString(tag, c, string(s))
}

func (s *VisibleString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeVisibleString(tag, c)
	if err != nil {
		return err
	}
	*s = VisibleString(v)
	return nil
}

//endregion

//region [UNIVERSAL 27] GeneralString

// GeneralString represents the corresponding ASN.1 type, treated as an
// 8-bit-per-character string.
//
// See also section 41 of Rec. ITU-T X.680.
type GeneralString string

func (GeneralString) Tag() Tag { return TagGeneralString }

func (GeneralString) TagTree() TagTree { return Leaf(TagGeneralString) }

func (GeneralString) Constraints() constraint.Set { return constraint.None }

func (GeneralString) Identifier() string { return "GeneralString" }

func (s GeneralString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeGeneralString(tag, c, string(s))
}

func (s *GeneralString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeGeneralString(tag, c)
	if err != nil {
		return err
	}
	*s = GeneralString(v)
	return nil
}

//endregion

//region [UNIVERSAL 28] UniversalString

// UniversalString represents the corresponding ASN.1 type. A
// UniversalString can contain any Unicode character. Note that the Go type
// uses standard Go strings which are UTF-8 encoded; the encoding of a
// UniversalString on the wire uses big-endian UTF-32 (BER) or one code point
// per fixed-width unit (PER/OER).
//
// In most cases [UTF8String] is a more appropriate type.
//
// See also section 41 of Rec. ITU-T X.680.
type UniversalString string

// IsValid reports whether s is valid UTF-8. Note that this does not
// validate the wire encoding of a UniversalString, only its Go
// representation.
func (s UniversalString) IsValid() bool {
	return utf8.ValidString(string(s))
}

func (UniversalString) Tag() Tag { return TagUniversalString }

func (UniversalString) TagTree() TagTree { return Leaf(TagUniversalString) }

func (UniversalString) Constraints() constraint.Set { return constraint.None }

func (UniversalString) Identifier() string { return "UniversalString" }

func (s UniversalString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeUniversalString(tag, c, string(s))
}

func (s *UniversalString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeUniversalString(tag, c)
	if err != nil {
		return err
	}
	*s = UniversalString(v)
	return nil
}

//endregion

//region [UNIVERSAL 30] BMPString

// BMPString represents the corresponding ASN.1 type. A BMPString can hold
// any character of the Unicode Basic Multilingual Plane. Note that this
// type uses standard Go strings which are UTF-8 encoded; the wire encoding
// uses big-endian UTF-16 code units (BER) or one 16-bit unit per code point
// (PER/OER).
//
// In most cases [UTF8String] is a more appropriate type.
//
// See also section 41 of Rec. ITU-T X.680.
type BMPString string

// IsValid reports whether s contains only characters representable in a
// single UTF-16 code unit (the Basic Multilingual Plane, excluding
// surrogates).
func (s BMPString) IsValid() bool {
	for _, r := range s {
		if r > 0xFFFF || (r >= 0xD800 && r < 0xE000) {
			return false
		}
	}
	return true
}

func (BMPString) Tag() Tag { return TagBMPString }

func (BMPString) TagTree() TagTree { return Leaf(TagBMPString) }

func (BMPString) Constraints() constraint.Set { return constraint.None }

func (BMPString) Identifier() string { return "BMPString" }

func (s BMPString) EncodeWithTagAndConstraints(enc Encoder, tag Tag, c constraint.Set, _ string) error {
	return enc.EncodeBMPString(tag, c, string(s))
}

func (s *BMPString) DecodeWithTagAndConstraints(dec Decoder, tag Tag, c constraint.Set, _ string) error {
	v, err := dec.DecodeBMPString(tag, c)
	if err != nil {
		return err
	}
	*s = BMPString(v)
	return nil
}

//endregion
